package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func ptr[T any](v T) *T { return &v }

type ledgerEnv struct {
	state  *memState
	ledger *inventory.StockLedger
	queue  *fakeSyncQueue
}

func newLedgerEnv() *ledgerEnv {
	state := newMemState()
	queue := &fakeSyncQueue{}
	ledger := inventory.NewStockLedger(
		&fakeTxRunner{s: state},
		queue,
		&fakeCompanyRepo{s: state},
		logger.Nop(),
	)
	return &ledgerEnv{state: state, ledger: ledger, queue: queue}
}

func (e *ledgerEnv) seedCompany(id string, mutate func(*entity.Company)) {
	c := &entity.Company{ID: id, Name: "Tienda Test", Status: "active"}
	if mutate != nil {
		mutate(c)
	}
	e.state.companies[id] = c
}

func (e *ledgerEnv) seedProduct(id, companyID string, stock, cost string, mutate func(*entity.Product)) {
	p := &entity.Product{
		ID:            id,
		CompanyID:     companyID,
		SKU:           "SKU-" + id,
		Name:          "Producto " + id,
		Category:      "medicine",
		Unit:          "pcs",
		Price:         d("10"),
		CostPrice:     d(cost),
		StockQuantity: d(stock),
		TracksStock:   true,
	}
	if mutate != nil {
		mutate(p)
	}
	e.state.products[id] = p
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas: stock, costo promedio y asiento
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaRecalculaCostoPromedio(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "10", "100", nil)

	res, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID:    "c1",
		UserID:       "u1",
		ProductID:    "p1",
		Direction:    entity.DirectionIn,
		Reason:       entity.ReasonPurchase,
		Quantity:     d("10"),
		NewCostPrice: ptr(d("140")),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Movement)

	// 10 uds a 100 + 10 uds a 140 → promedio 120
	p := env.state.products["p1"]
	assert.True(t, p.StockQuantity.Equal(d("20")), "stock esperado 20, obtuve %s", p.StockQuantity)
	assert.True(t, p.CostPrice.Equal(d("120")), "costo esperado 120, obtuve %s", p.CostPrice)

	m := res.Movement
	assert.True(t, m.StockBefore.Equal(d("10")))
	assert.True(t, m.StockAfter.Equal(d("20")))
	assert.True(t, m.UnitCost.Equal(d("140")), "costo unitario del movimiento es el declarado")
	assert.False(t, m.NegativeStock)

	// Asiento contable: valor = 10 * 140
	require.Len(t, env.state.journal, 1)
	assert.Equal(t, entity.JournalTypeStockIn, env.state.journal[0].EntryType)
	assert.True(t, env.state.journal[0].Amount.Equal(d("1400")))
}

func TestRecordMovement_EntradaSinCosto_ConservaCosto(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "10", "100", nil)

	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonAdjustment,
		Quantity: d("5"),
	})
	require.NoError(t, err)
	assert.True(t, env.state.products["p1"].CostPrice.Equal(d("100")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas: insuficiencia y override de stock negativo
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_SalidaInsuficiente_RechazaSinEscrituras(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "3", "100", nil)

	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionOut, Reason: entity.ReasonSale,
		Quantity: d("5"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	assert.True(t, detail.Available.Equal(d("3")))
	assert.True(t, detail.Required.Equal(d("5")))

	// Nada cambió: ni stock, ni movimientos, ni cola.
	assert.True(t, env.state.products["p1"].StockQuantity.Equal(d("3")))
	assert.Empty(t, env.state.movements)
	assert.Empty(t, env.queue.ops)
}

func TestRecordMovement_SalidaConStockNegativoPermitido(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", func(c *entity.Company) { c.AllowNegativeStock = true })
	env.seedProduct("p1", "c1", "3", "100", nil)

	res, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionOut, Reason: entity.ReasonSale,
		Quantity: d("5"),
	})
	require.NoError(t, err)
	assert.True(t, res.Movement.NegativeStock, "el movimiento debe quedar marcado")
	assert.True(t, res.Movement.StockAfter.Equal(d("-2")))
	assert.True(t, env.state.products["p1"].StockQuantity.Equal(d("-2")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de oro: cantidad, período, lote obligatorio, servicio
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_CantidadNoPositiva_Rechaza(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "10", "100", nil)

	for _, qty := range []string{"0", "-1"} {
		_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
			CompanyID: "c1", UserID: "u1", ProductID: "p1",
			Direction: entity.DirectionOut, Reason: entity.ReasonSale,
			Quantity: d(qty),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %s", qty)
	}
	assert.Empty(t, env.state.movements)
}

func TestRecordMovement_PeriodoBloqueado_Rechaza(t *testing.T) {
	cutoff := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	env := newLedgerEnv()
	env.seedCompany("c1", func(c *entity.Company) { c.BooksLockedBefore = &cutoff })
	env.seedProduct("p1", "c1", "10", "100", nil)

	// Fecha anterior al corte: rechazado.
	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
		Quantity: d("1"),
		Date:     ptr(cutoff.Add(-time.Hour)),
	})
	assert.ErrorIs(t, err, domain.ErrPeriodLocked)

	// Fecha en el corte o después: aceptado.
	_, err = env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
		Quantity: d("1"),
		Date:     ptr(cutoff),
	})
	assert.NoError(t, err)
}

func TestRecordMovement_FarmaciaSinLote_Rechaza(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", func(c *entity.Company) { c.RequireBatchTracking = true })
	env.seedProduct("p1", "c1", "10", "100", nil)

	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
		Quantity: d("5"),
	})
	assert.ErrorIs(t, err, domain.ErrBatchRequired)
}

func TestRecordMovement_ServicioEsNoOp(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("svc", "c1", "0", "0", func(p *entity.Product) {
		p.Category = "consultation"
		p.TracksStock = false
	})

	res, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "svc",
		Direction: entity.DirectionOut, Reason: entity.ReasonSale,
		Quantity: d("1"),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Movement, "servicio: sin fila de kardex")
	assert.Empty(t, env.state.movements)
	assert.Empty(t, env.state.journal)
	assert.Empty(t, env.queue.ops)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaCreaLoteYSalidaLoDrena(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", func(c *entity.Company) { c.RequireBatchTracking = true })
	env.seedProduct("p1", "c1", "0", "0", nil)

	expiry := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	res, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
		Quantity:     d("50"),
		NewCostPrice: ptr(d("8")),
		Batch: &inventory.BatchInput{
			Number:     "L-001",
			ExpiryDate: &expiry,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Movement.BatchID)
	assert.Equal(t, "L-001", res.Movement.BatchNumber)

	batch := env.state.batches[res.Movement.BatchID]
	require.NotNil(t, batch)
	assert.True(t, batch.StockQuantity.Equal(d("50")))
	assert.Equal(t, entity.BatchStatusActive, batch.Status)

	// Salida contra el lote
	out, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionOut, Reason: entity.ReasonSale,
		Quantity: d("50"),
		BatchID:  res.Movement.BatchID,
	})
	require.NoError(t, err)
	assert.True(t, out.Movement.StockAfter.Equal(d("0")))

	batch = env.state.batches[res.Movement.BatchID]
	assert.True(t, batch.StockQuantity.IsZero())
	assert.Equal(t, entity.BatchStatusExhausted, batch.Status, "lote agotado, no borrado")
}

func TestRecordMovement_SegundaEntradaAlimentaLoteExistente(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "10", "5", nil)
	env.state.batches["b1"] = &entity.ProductBatch{
		ID: "b1", ProductID: "p1", BatchNumber: "L-001",
		StockQuantity: d("10"), Status: entity.BatchStatusActive,
	}

	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
		Quantity: d("15"),
		Batch:    &inventory.BatchInput{Number: "L-001"},
	})
	require.NoError(t, err)
	assert.True(t, env.state.batches["b1"].StockQuantity.Equal(d("25")))
	assert.Len(t, env.state.batches, 1, "no debe crearse un segundo lote")
}

func TestRecordMovement_LoteInexistente_Rechaza(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "10", "5", nil)

	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionOut, Reason: entity.ReasonSale,
		Quantity: d("1"),
		BatchID:  "no-existe",
	})
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
	assert.Empty(t, env.state.movements, "rollback: sin escrituras parciales")
	assert.True(t, env.state.products["p1"].StockQuantity.Equal(d("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación y propagación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_ReconciliacionSumaMovimientos(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "0", "0", nil)

	steps := []struct {
		dir string
		qty string
	}{
		{entity.DirectionIn, "100"},
		{entity.DirectionOut, "30"},
		{entity.DirectionIn, "7.5"},
		{entity.DirectionOut, "0.5"},
	}
	for _, s := range steps {
		reason := entity.ReasonPurchase
		if s.dir == entity.DirectionOut {
			reason = entity.ReasonSale
		}
		_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
			CompanyID: "c1", UserID: "u1", ProductID: "p1",
			Direction: s.dir, Reason: reason, Quantity: d(s.qty),
		})
		require.NoError(t, err)
	}

	movRepo := &fakeMovementRepo{s: env.state}
	sum, err := movRepo.SumByProduct("p1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(env.state.products["p1"].StockQuantity),
		"la suma del kardex (%s) debe igualar el stock del producto (%s)",
		sum, env.state.products["p1"].StockQuantity)
	assert.True(t, sum.Equal(d("77")))
}

// El kardex de un producto se lista por empresa ANTES de paginar: las filas de
// otro tenant no consumen la página ni inflan el total.
func TestListByProduct_FiltraPorEmpresaAntesDePaginar(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedCompany("c2", nil)
	env.seedProduct("p1", "c1", "0", "0", nil)
	env.seedProduct("p2", "c2", "0", "0", nil)

	for i := 0; i < 3; i++ {
		_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
			CompanyID: "c1", UserID: "u1", ProductID: "p1",
			Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
			Quantity: d("1"),
		})
		require.NoError(t, err)
	}
	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c2", UserID: "u2", ProductID: "p2",
		Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
		Quantity: d("1"),
	})
	require.NoError(t, err)

	movRepo := &fakeMovementRepo{s: env.state}
	list, err := movRepo.ListByProduct("c1", "p1", nil, nil, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2, "la página se llena solo con filas del tenant")
	for _, m := range list {
		assert.Equal(t, "c1", m.CompanyID)
	}

	rest, err := movRepo.ListByProduct("c1", "p1", nil, nil, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	other, err := movRepo.ListByProduct("c2", "p1", nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, other, "otro tenant no ve el kardex ajeno")
}

func TestRecordMovement_EncolaSincronizacionTrasCommit(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "0", "0", nil)

	res, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonOpeningStock,
		Quantity: d("10"), NewCostPrice: ptr(d("4")),
	})
	require.NoError(t, err)

	// update de producto + create de movimiento
	require.Len(t, env.queue.ops, 2)
	collections := map[string]string{}
	for _, op := range env.queue.ops {
		collections[op.Collection] = op.Kind
	}
	assert.Equal(t, entity.SyncKindUpdate, collections["products"])
	assert.Equal(t, entity.SyncKindCreate, collections["stock_movements"])
	for _, op := range env.queue.ops {
		assert.Equal(t, entity.SyncStatusPending, op.Status)
		assert.NotEmpty(t, op.DocumentID)
	}
	assert.Len(t, res.SyncOps, 2)
}

func TestRecordMovement_FalloDeColaNoRevierteElMovimiento(t *testing.T) {
	env := newLedgerEnv()
	env.queue.failWith = errQueueDown
	env.seedCompany("c1", nil)
	env.seedProduct("p1", "c1", "0", "0", nil)

	res, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionIn, Reason: entity.ReasonPurchase,
		Quantity: d("10"),
	})
	require.NoError(t, err, "el movimiento ya está confirmado; la cola no lo revierte")
	require.NotNil(t, res.Movement)
	assert.True(t, env.state.products["p1"].StockQuantity.Equal(d("10")))
}

func TestRecordMovement_ProductoDeOtraEmpresa_Rechaza(t *testing.T) {
	env := newLedgerEnv()
	env.seedCompany("c1", nil)
	env.seedCompany("c2", nil)
	env.seedProduct("p1", "c2", "10", "5", nil)

	_, err := env.ledger.RecordMovement(context.Background(), inventory.MovementInput{
		CompanyID: "c1", UserID: "u1", ProductID: "p1",
		Direction: entity.DirectionOut, Reason: entity.ReasonSale,
		Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
