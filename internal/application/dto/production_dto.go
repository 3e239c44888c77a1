package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProduceRequest body para POST /api/production.
type ProduceRequest struct {
	FinishedProductID string          `json:"finished_product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Date              *time.Time      `json:"date,omitempty"`
}

// BOMLineRequest body para upsert de una línea de receta.
type BOMLineRequest struct {
	RawProductID    string          `json:"raw_product_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Unit            string          `json:"unit,omitempty"`
	CostSharePct    decimal.Decimal `json:"cost_share_pct,omitempty"`
}

// ProductionEntryResponse registro de una corrida de producción.
type ProductionEntryResponse struct {
	ID                string          `json:"id"`
	FinishedProductID string          `json:"finished_product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	TotalMaterialCost decimal.Decimal `json:"total_material_cost"`
	LaborCost         decimal.Decimal `json:"labor_cost"`
	ConsumedItems     interface{}     `json:"consumed_items"`
	Notes             string          `json:"notes,omitempty"`
	Date              time.Time       `json:"date"`
	CreatedAt         time.Time       `json:"created_at"`
}
