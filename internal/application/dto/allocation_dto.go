package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationLineRequest una línea de venta a asignar por lotes (FEFO).
// Los tres componentes GST y el descuento se prorratean en las sublíneas.
type AllocationLineRequest struct {
	ProductID   string          `json:"product_id,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
}

// AllocationLineResponse una línea expandida, atribuida a un lote (o remanente sin lote).
type AllocationLineResponse struct {
	ProductID   string          `json:"product_id,omitempty"`
	BatchID     string          `json:"batch_id,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	Unfulfilled bool            `json:"unfulfilled,omitempty"` // remanente sin stock en lotes
}

// AllocationResponse líneas expandidas más los agregados recalculados de la orden.
type AllocationResponse struct {
	Lines         []AllocationLineResponse `json:"lines"`
	Subtotal      decimal.Decimal          `json:"subtotal"`
	DiscountTotal decimal.Decimal          `json:"discount_total"`
	TaxTotal      decimal.Decimal          `json:"tax_total"`
	GrandTotal    decimal.Decimal          `json:"grand_total"`
}
