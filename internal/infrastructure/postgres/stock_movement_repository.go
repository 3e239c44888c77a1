package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, company_id, product_id, direction, reason, quantity, stock_before, stock_after, unit_cost, reference_id, batch_id, batch_number, negative_stock, description, date, created_at, created_by`

// StockMovementRepo implementación del kardex persistido sobre PostgreSQL.
// La tabla es append-only: no hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una entrada inmutable del kardex.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	batchID := nullableString(m.BatchID)
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.ProductID, m.Direction, m.Reason, m.Quantity,
		m.StockBefore, m.StockAfter, m.UnitCost, m.ReferenceID, batchID,
		m.BatchNumber, m.NegativeStock, m.Description, m.Date, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	var batchID *string
	err := scanMovement(r.q.QueryRow(context.Background(), query, id), &m, &batchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	if batchID != nil {
		m.BatchID = *batchID
	}
	return &m, nil
}

// ListByProduct lista movimientos de un producto del tenant, más recientes
// primero, con filtro opcional por rango de fechas. El filtro de empresa va en
// el SQL para que limit/offset paginen sobre las filas del tenant.
func (r *StockMovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 AND product_id = $2`
	args := []any{companyID, productID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var batchID *string
		if err := scanMovement(rows, &m, &batchID); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if batchID != nil {
			m.BatchID = *batchID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct devuelve la suma de cantidades con signo del producto.
// Propiedad de reconciliación: debe igualar products.stock_quantity.
func (r *StockMovementRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'OUT' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements WHERE product_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

func scanMovement(row pgx.Row, m *entity.StockMovement, batchID **string) error {
	return row.Scan(
		&m.ID, &m.CompanyID, &m.ProductID, &m.Direction, &m.Reason, &m.Quantity,
		&m.StockBefore, &m.StockAfter, &m.UnitCost, &m.ReferenceID, batchID,
		&m.BatchNumber, &m.NegativeStock, &m.Description, &m.Date, &m.CreatedAt, &m.CreatedBy,
	)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
