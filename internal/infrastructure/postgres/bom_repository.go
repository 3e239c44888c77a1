package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BillOfMaterialRepository = (*BillOfMaterialRepo)(nil)

// BillOfMaterialRepo implementación del puerto de recetas (BOM) sobre PostgreSQL.
type BillOfMaterialRepo struct {
	q Querier
}

// NewBillOfMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillOfMaterialRepository(q Querier) *BillOfMaterialRepo {
	return &BillOfMaterialRepo{q: q}
}

// Upsert inserta o actualiza la línea del par (terminado, materia prima).
// El índice único (finished_product_id, raw_product_id) garantiza a lo sumo una fila.
func (r *BillOfMaterialRepo) Upsert(line *entity.BillOfMaterial) error {
	query := `
		INSERT INTO bill_of_materials (id, company_id, finished_product_id, raw_product_id, quantity_per_unit, unit, cost_share_pct, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (finished_product_id, raw_product_id) DO UPDATE
		SET quantity_per_unit = EXCLUDED.quantity_per_unit,
			unit = EXCLUDED.unit,
			cost_share_pct = EXCLUDED.cost_share_pct,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.CompanyID, line.FinishedProductID, line.RawProductID,
		line.QuantityPerUnit, line.Unit, line.CostSharePct, line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert bom line: %w", err)
	}
	return nil
}

// ListByFinishedProduct lista la receta de un producto terminado.
func (r *BillOfMaterialRepo) ListByFinishedProduct(finishedProductID string) ([]*entity.BillOfMaterial, error) {
	query := `
		SELECT id, company_id, finished_product_id, raw_product_id, quantity_per_unit, unit, cost_share_pct, created_at, updated_at
		FROM bill_of_materials WHERE finished_product_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, finishedProductID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillOfMaterial
	for rows.Next() {
		var l entity.BillOfMaterial
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.FinishedProductID, &l.RawProductID,
			&l.QuantityPerUnit, &l.Unit, &l.CostSharePct, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina la línea del par (terminado, materia prima).
func (r *BillOfMaterialRepo) Delete(finishedProductID, rawProductID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM bill_of_materials WHERE finished_product_id = $1 AND raw_product_id = $2`,
		finishedProductID, rawProductID,
	)
	if err != nil {
		return fmt.Errorf("delete bom line: %w", err)
	}
	return nil
}
