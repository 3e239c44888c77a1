package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// BillOfMaterialRepository define el puerto de recetas (BOM).
// Upsert garantiza a lo sumo una línea por par (terminado, materia prima).
type BillOfMaterialRepository interface {
	Upsert(line *entity.BillOfMaterial) error
	ListByFinishedProduct(finishedProductID string) ([]*entity.BillOfMaterial, error)
	Delete(finishedProductID, rawProductID string) error
}
