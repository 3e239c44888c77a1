package inventory_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// memState estado compartido de los repos en memoria. El fakeTxRunner trabaja
// sobre una copia y solo la publica si el callback termina sin error, imitando
// la semántica commit/rollback de PostgreSQL.
type memState struct {
	companies  map[string]*entity.Company
	products   map[string]*entity.Product
	batches    map[string]*entity.ProductBatch
	movements  []*entity.StockMovement
	journal    []*entity.JournalEntry
	bomLines   []*entity.BillOfMaterial
	production []*entity.ProductionEntry
}

func newMemState() *memState {
	return &memState{
		companies: map[string]*entity.Company{},
		products:  map[string]*entity.Product{},
		batches:   map[string]*entity.ProductBatch{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.companies {
		cp := *v
		c.companies[k] = &cp
	}
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.batches {
		cp := *v
		c.batches[k] = &cp
	}
	for _, m := range s.movements {
		cp := *m
		c.movements = append(c.movements, &cp)
	}
	for _, j := range s.journal {
		cp := *j
		c.journal = append(c.journal, &cp)
	}
	for _, b := range s.bomLines {
		cp := *b
		c.bomLines = append(c.bomLines, &cp)
	}
	for _, p := range s.production {
		cp := *p
		c.production = append(c.production, &cp)
	}
	return c
}

func (s *memState) replaceWith(other *memState) {
	s.companies = other.companies
	s.products = other.products
	s.batches = other.batches
	s.movements = other.movements
	s.journal = other.journal
	s.bomLines = other.bomLines
	s.production = other.production
}

// ── repos ────────────────────────────────────────────────────────────────────

type fakeCompanyRepo struct{ s *memState }

func (r *fakeCompanyRepo) Create(c *entity.Company) error {
	r.s.companies[c.ID] = c
	return nil
}
func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) { return nil, nil }
func (r *fakeCompanyRepo) UpdateSettings(c *entity.Company) error {
	r.s.companies[c.ID] = c
	return nil
}
func (r *fakeCompanyRepo) SetBooksLockedBefore(companyID string, cutoff *time.Time) error {
	c, ok := r.s.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.BooksLockedBefore = cutoff
	return nil
}

type fakeProductRepo struct{ s *memState }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakeProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}
func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}
func (r *fakeProductRepo) UpdateStockAndCost(productID string, quantity, costPrice decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	p.CostPrice = costPrice
	return nil
}

type fakeBatchRepo struct{ s *memState }

func (r *fakeBatchRepo) Create(b *entity.ProductBatch) error {
	r.s.batches[b.ID] = b
	return nil
}
func (r *fakeBatchRepo) GetByID(id string) (*entity.ProductBatch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}
func (r *fakeBatchRepo) GetByProductAndNumber(productID, batchNumber string) (*entity.ProductBatch, error) {
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.BatchNumber == batchNumber {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeBatchRepo) ListByProduct(productID string) ([]*entity.ProductBatch, error) {
	var list []*entity.ProductBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			cp := *b
			list = append(list, &cp)
		}
	}
	return list, nil
}
func (r *fakeBatchRepo) ListByExpiryAscending(productID string) ([]*entity.ProductBatch, error) {
	list, _ := r.ListByProduct(productID)
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.ExpiryDate == nil:
			return false // sin fecha al final
		case b.ExpiryDate == nil:
			return true
		case a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
	})
	return list, nil
}
func (r *fakeBatchRepo) AdjustStock(batchID string, delta decimal.Decimal) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrBatchNotFound
	}
	next := b.StockQuantity.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientStock
	}
	b.StockQuantity = next
	if next.IsZero() {
		b.Status = entity.BatchStatusExhausted
	} else {
		b.Status = entity.BatchStatusActive
	}
	return nil
}

type fakeMovementRepo struct{ s *memState }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}
func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeMovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.ProductID == productID {
			cp := *m
			list = append(list, &cp)
		}
	}
	if offset > 0 {
		if offset >= len(list) {
			return nil, nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}
func (r *fakeMovementRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			sum = sum.Add(m.SignedQuantity())
		}
	}
	return sum, nil
}

type fakeJournalRepo struct{ s *memState }

func (r *fakeJournalRepo) Create(e *entity.JournalEntry) error {
	cp := *e
	r.s.journal = append(r.s.journal, &cp)
	return nil
}
func (r *fakeJournalRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.JournalEntry, error) {
	var list []*entity.JournalEntry
	for _, e := range r.s.journal {
		if e.CompanyID == companyID {
			cp := *e
			list = append(list, &cp)
		}
	}
	return list, nil
}

type fakeBOMRepo struct{ s *memState }

func (r *fakeBOMRepo) Upsert(line *entity.BillOfMaterial) error {
	for i, l := range r.s.bomLines {
		if l.FinishedProductID == line.FinishedProductID && l.RawProductID == line.RawProductID {
			cp := *line
			r.s.bomLines[i] = &cp
			return nil
		}
	}
	cp := *line
	r.s.bomLines = append(r.s.bomLines, &cp)
	return nil
}
func (r *fakeBOMRepo) ListByFinishedProduct(finishedProductID string) ([]*entity.BillOfMaterial, error) {
	var list []*entity.BillOfMaterial
	for _, l := range r.s.bomLines {
		if l.FinishedProductID == finishedProductID {
			cp := *l
			list = append(list, &cp)
		}
	}
	return list, nil
}
func (r *fakeBOMRepo) Delete(finishedProductID, rawProductID string) error {
	for i, l := range r.s.bomLines {
		if l.FinishedProductID == finishedProductID && l.RawProductID == rawProductID {
			r.s.bomLines = append(r.s.bomLines[:i], r.s.bomLines[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeProductionRepo struct{ s *memState }

func (r *fakeProductionRepo) Create(e *entity.ProductionEntry) error {
	cp := *e
	r.s.production = append(r.s.production, &cp)
	return nil
}
func (r *fakeProductionRepo) GetByID(id string) (*entity.ProductionEntry, error) {
	for _, e := range r.s.production {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeProductionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductionEntry, error) {
	var list []*entity.ProductionEntry
	for _, e := range r.s.production {
		if e.CompanyID == companyID {
			cp := *e
			list = append(list, &cp)
		}
	}
	return list, nil
}

// ── runner y cola ────────────────────────────────────────────────────────────

func reposFor(s *memState) inventory.TxRepos {
	return inventory.TxRepos{
		Movements:  &fakeMovementRepo{s: s},
		Products:   &fakeProductRepo{s: s},
		Batches:    &fakeBatchRepo{s: s},
		Journal:    &fakeJournalRepo{s: s},
		BOM:        &fakeBOMRepo{s: s},
		Production: &fakeProductionRepo{s: s},
	}
}

// fakeTxRunner ejecuta fn sobre una copia del estado y la publica solo en éxito.
type fakeTxRunner struct{ s *memState }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	working := r.s.clone()
	if err := fn(reposFor(working)); err != nil {
		return err
	}
	r.s.replaceWith(working)
	return nil
}

// fakeSyncQueue acumula operaciones encoladas; failWith simula fallo de la cola.
type fakeSyncQueue struct {
	ops      []*entity.SyncOperation
	failWith error
}

func (q *fakeSyncQueue) Enqueue(ops []*entity.SyncOperation) error {
	if q.failWith != nil {
		return q.failWith
	}
	q.ops = append(q.ops, ops...)
	return nil
}

var errQueueDown = errors.New("cola de sincronización caída")
