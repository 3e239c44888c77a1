package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia de lotes.
// ListByExpiryAscending es el orden FEFO: vencimiento ascendente, lotes sin
// fecha (legados) al final, desempate por fecha de creación.
type BatchRepository interface {
	Create(batch *entity.ProductBatch) error
	GetByID(id string) (*entity.ProductBatch, error)
	GetByProductAndNumber(productID, batchNumber string) (*entity.ProductBatch, error)
	ListByProduct(productID string) ([]*entity.ProductBatch, error)
	ListByExpiryAscending(productID string) ([]*entity.ProductBatch, error)
	// AdjustStock aplica un delta (con signo) al stock del lote y actualiza su
	// estado (exhausted al llegar a cero). Usar dentro de tx.
	AdjustStock(batchID string, delta decimal.Decimal) error
}
