package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del kardex persistido.
// Los movimientos son append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ListByProduct lista el kardex de un producto del tenant indicado; el
	// predicado de empresa se aplica ANTES de limit/offset.
	ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// SumByProduct devuelve la suma de cantidades con signo (propiedad de
	// reconciliación: debe igualar Product.StockQuantity).
	SumByProduct(productID string) (decimal.Decimal, error)
}
