package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, batch_number, expiry_date, mfg_date, purchase_rate, selling_rate, mrp, stock_quantity, opening_quantity, status, created_at, updated_at`

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un nuevo lote. ErrDuplicate si (product_id, batch_number) ya existe.
func (r *BatchRepo) Create(batch *entity.ProductBatch) error {
	query := `
		INSERT INTO product_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.BatchNumber, batch.ExpiryDate, batch.MfgDate,
		batch.PurchaseRate, batch.SellingRate, batch.MRP, batch.StockQuantity,
		batch.OpeningQuantity, batch.Status, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.ProductBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get batch")
}

// GetByProductAndNumber obtiene un lote por producto y número de lote.
func (r *BatchRepo) GetByProductAndNumber(productID, batchNumber string) (*entity.ProductBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE product_id = $1 AND batch_number = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, batchNumber), "get batch by number")
}

// ListByProduct lista los lotes de un producto (recientes primero).
func (r *BatchRepo) ListByProduct(productID string) ([]*entity.ProductBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE product_id = $1 ORDER BY created_at DESC`
	return r.list(query, productID)
}

// ListByExpiryAscending lista los lotes en orden FEFO: vencimiento ascendente,
// lotes sin fecha (legados) al final, desempate por fecha de creación.
func (r *BatchRepo) ListByExpiryAscending(productID string) ([]*entity.ProductBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM product_batches
		WHERE product_id = $1
		ORDER BY expiry_date ASC NULLS LAST, created_at ASC`
	return r.list(query, productID)
}

// AdjustStock aplica un delta (con signo) al stock del lote. La constraint
// CHECK (stock_quantity >= 0) de la tabla rechaza drenar más de lo que hay:
// se traduce a ErrInsufficientStock. Al llegar a cero el lote queda exhausted.
func (r *BatchRepo) AdjustStock(batchID string, delta decimal.Decimal) error {
	query := `
		UPDATE product_batches
		SET stock_quantity = stock_quantity + $2,
			status = CASE WHEN stock_quantity + $2 <= 0 THEN 'exhausted' ELSE 'active' END,
			updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, batchID, delta)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("adjust batch stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.ProductBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductBatch
	for rows.Next() {
		var b entity.ProductBatch
		if err := scanBatch(rows, &b); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *BatchRepo) scanOne(row pgx.Row, op string) (*entity.ProductBatch, error) {
	var b entity.ProductBatch
	if err := scanBatch(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

func scanBatch(row pgx.Row, b *entity.ProductBatch) error {
	return row.Scan(
		&b.ID, &b.ProductID, &b.BatchNumber, &b.ExpiryDate, &b.MfgDate,
		&b.PurchaseRate, &b.SellingRate, &b.MRP, &b.StockQuantity,
		&b.OpeningQuantity, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
}
