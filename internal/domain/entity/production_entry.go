package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ConsumedItem es la instantánea de una materia prima consumida en una corrida
// de producción. Se serializa en ProductionEntry.ConsumedItems para auditoría:
// la receta o los costos pueden cambiar después, la instantánea no.
type ConsumedItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// ProductionEntry es el registro inmutable de una corrida de manufactura
// completada. LaborCost hoy siempre es cero (punto de extensión).
type ProductionEntry struct {
	ID                string
	CompanyID         string
	FinishedProductID string
	Quantity          decimal.Decimal
	BatchNumber       string // opcional
	TotalMaterialCost decimal.Decimal
	LaborCost         decimal.Decimal
	ConsumedItems     json.RawMessage // []ConsumedItem serializado
	Notes             string
	Date              time.Time
	CreatedAt         time.Time
	CreatedBy         string
}
