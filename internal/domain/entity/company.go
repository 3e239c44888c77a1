package entity

import "time"

// Tipos de negocio soportados (determinan reglas de inventario).
const (
	BusinessTypeRetail   = "retail"
	BusinessTypeGrocery  = "grocery"
	BusinessTypePharmacy = "pharmacy" // exige trazabilidad por lote
	BusinessTypeClinic   = "clinic"
)

// Company representa una organización/tenant del sistema (multi-tenant).
// AllowNegativeStock y RequireBatchTracking gobiernan las reglas del kardex;
// BooksLockedBefore es el corte del período contable: movimientos con fecha
// anterior se rechazan (ErrPeriodLocked).
type Company struct {
	ID                   string
	Name                 string
	BusinessType         string // ver constantes BusinessType*
	GSTIN                string // registro fiscal GST (India), opcional
	Address              string
	Phone                string
	Email                string
	Status               string // active, suspended, inactive
	AllowNegativeStock   bool
	RequireBatchTracking bool
	BooksLockedBefore    *time.Time // nil = sin período bloqueado
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsPeriodLocked indica si una fecha de movimiento cae dentro del período congelado.
func (c *Company) IsPeriodLocked(date time.Time) bool {
	return c.BooksLockedBefore != nil && date.Before(*c.BooksLockedBefore)
}
