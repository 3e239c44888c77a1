package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento. La cantidad siempre es positiva;
// la dirección lleva el signo.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Razones de movimiento de inventario.
const (
	ReasonSale                  = "SALE"
	ReasonPurchase              = "PURCHASE"
	ReasonOpeningStock          = "OPENING_STOCK"
	ReasonDamage                = "DAMAGE"
	ReasonAdjustment            = "ADJUSTMENT"
	ReasonProductionConsumption = "PRODUCTION_CONSUMPTION"
	ReasonProductionOutput      = "PRODUCTION_OUTPUT"
)

// StockMovement es una entrada inmutable del kardex (append-only).
// StockBefore/StockAfter son instantáneas para auditoría y reconciliación:
// Product.StockQuantity siempre debe poder reconstruirse como la suma de
// SignedQuantity() de todos sus movimientos.
type StockMovement struct {
	ID            string
	CompanyID     string
	ProductID     string
	Direction     string          // IN / OUT
	Reason        string          // ver constantes Reason*
	Quantity      decimal.Decimal // magnitud, siempre > 0
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	UnitCost      decimal.Decimal // costo unitario efectivo del movimiento
	ReferenceID   string          // documento de negocio que lo causó (factura, producción...)
	BatchID       string          // opcional
	BatchNumber   string          // opcional
	NegativeStock bool            // true si la salida dejó el stock en negativo (override del tenant)
	Description   string
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Value devuelve el valor monetario del movimiento (cantidad * costo unitario).
func (m *StockMovement) Value() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}
