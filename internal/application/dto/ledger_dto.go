package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// direction IN/OUT; quantity siempre positiva; batch_id para salidas con lote,
// batch para crear/alimentar un lote en entradas; new_cost_price solo entradas.
type RegisterMovementRequest struct {
	ProductID    string             `json:"product_id"`
	Direction    string             `json:"direction"`
	Reason       string             `json:"reason"`
	Quantity     decimal.Decimal    `json:"quantity"`
	ReferenceID  string             `json:"reference_id,omitempty"`
	Date         *time.Time         `json:"date,omitempty"`
	BatchID      string             `json:"batch_id,omitempty"`
	Batch        *BatchInputRequest `json:"batch,omitempty"`
	NewCostPrice *decimal.Decimal   `json:"new_cost_price,omitempty"`
	Description  string             `json:"description,omitempty"`
}

// BatchInputRequest datos del lote para entradas que nombran un lote nuevo.
type BatchInputRequest struct {
	Number       string          `json:"number"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	MfgDate      *time.Time      `json:"mfg_date,omitempty"`
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	SellingRate  decimal.Decimal `json:"selling_rate"`
	MRP          decimal.Decimal `json:"mrp"`
}

// MovementResponse representación de un movimiento del kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Direction     string          `json:"direction"`
	Reason        string          `json:"reason"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	BatchID       string          `json:"batch_id,omitempty"`
	BatchNumber   string          `json:"batch_number,omitempty"`
	NegativeStock bool            `json:"negative_stock,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
}
