package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

const productionColumns = `id, company_id, finished_product_id, quantity, batch_number, total_material_cost, labor_cost, consumed_items, notes, date, created_at, created_by`

// ProductionRepo implementación del puerto de registros de producción sobre PostgreSQL.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

// Create persiste el registro inmutable de una corrida (misma tx que sus movimientos).
func (r *ProductionRepo) Create(entry *entity.ProductionEntry) error {
	query := `
		INSERT INTO production_entries (` + productionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, entry.FinishedProductID, entry.Quantity, entry.BatchNumber,
		entry.TotalMaterialCost, entry.LaborCost, entry.ConsumedItems, entry.Notes,
		entry.Date, entry.CreatedAt, entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert production entry: %w", err)
	}
	return nil
}

// GetByID obtiene una corrida por ID.
func (r *ProductionRepo) GetByID(id string) (*entity.ProductionEntry, error) {
	query := `SELECT ` + productionColumns + ` FROM production_entries WHERE id = $1`
	var e entity.ProductionEntry
	err := scanProduction(r.q.QueryRow(context.Background(), query, id), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production entry: %w", err)
	}
	return &e, nil
}

// ListByCompany lista corridas por empresa, más recientes primero.
func (r *ProductionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductionEntry, error) {
	query := `SELECT ` + productionColumns + ` FROM production_entries WHERE company_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list production entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionEntry
	for rows.Next() {
		var e entity.ProductionEntry
		if err := scanProduction(rows, &e); err != nil {
			return nil, fmt.Errorf("scan production entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func scanProduction(row pgx.Row, e *entity.ProductionEntry) error {
	return row.Scan(
		&e.ID, &e.CompanyID, &e.FinishedProductID, &e.Quantity, &e.BatchNumber,
		&e.TotalMaterialCost, &e.LaborCost, &e.ConsumedItems, &e.Notes,
		&e.Date, &e.CreatedAt, &e.CreatedBy,
	)
}
