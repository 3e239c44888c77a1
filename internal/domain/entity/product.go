package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// StockQuantity y CostPrice se mutan EXCLUSIVAMENTE vía el libro de movimientos
// (StockLedger); el catálogo solo edita los demás campos. CostPrice es promedio
// ponderado recalculado en cada entrada con costo.
type Product struct {
	ID                string
	CompanyID         string
	SKU               string // código único por empresa
	Name              string
	Category          string
	Unit              string          // pcs, kg, ltr, strip...
	Price             decimal.Decimal // precio de venta
	CostPrice         decimal.Decimal // costo promedio ponderado (inicia en 0)
	StockQuantity     decimal.Decimal // caché derivada de la suma de movimientos
	LowStockThreshold decimal.Decimal
	TracksStock       bool            // false = servicio (consulta, laboratorio...): el kardex lo ignora
	GSTRate           decimal.Decimal // % GST: 0, 5, 12, 18 o 28
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
