package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchStatusActive    = "active"
	BatchStatusExhausted = "exhausted"
)

// ProductBatch representa un lote fechado de un producto (obligatorio para
// productos regulados, ej. farmacia). ExpiryDate nil marca un lote legado
// migrado sin fecha: se agota de último en FEFO y requiere revisión manual.
// Los lotes nunca se borran; solo se agotan a cero.
type ProductBatch struct {
	ID              string
	ProductID       string
	BatchNumber     string
	ExpiryDate      *time.Time // nil = legado/sin fecha
	MfgDate         *time.Time
	PurchaseRate    decimal.Decimal
	SellingRate     decimal.Decimal
	MRP             decimal.Decimal
	StockQuantity   decimal.Decimal // invariante >= 0
	OpeningQuantity decimal.Decimal
	Status          string // active, exhausted
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
