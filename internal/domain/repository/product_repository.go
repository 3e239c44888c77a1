package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia de productos.
// StockQuantity y CostPrice solo se escriben vía UpdateStockAndCost,
// y solo desde el kardex dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Usar dentro de tx.
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStockAndCost escribe la cantidad agregada y el costo promedio (solo kardex).
	UpdateStockAndCost(productID string, quantity, costPrice decimal.Decimal) error
}
