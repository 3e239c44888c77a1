package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillOfMaterial es una línea de receta: la materia prima y la cantidad
// necesaria para producir UNA unidad del producto terminado.
// Invariante: a lo sumo una línea por par (terminado, materia prima);
// el guardado tiene semántica upsert.
type BillOfMaterial struct {
	ID                string
	CompanyID         string
	FinishedProductID string
	RawProductID      string
	QuantityPerUnit   decimal.Decimal // cantidad de materia prima por unidad producida
	Unit              string
	CostSharePct      decimal.Decimal // % de asignación de costo (informativo)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
