package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento contable generados por el kardex.
const (
	JournalTypeStockIn  = "STOCK_IN"
	JournalTypeStockOut = "STOCK_OUT"
)

// JournalEntry es el asiento monetario que el kardex registra por cada
// movimiento con valor > 0. La contabilidad de doble partida completa vive en
// otro sistema; aquí solo se deja el enlace auditable movimiento -> valor.
type JournalEntry struct {
	ID          string
	CompanyID   string
	ReferenceID string // ID del movimiento de stock que lo originó
	EntryType   string // STOCK_IN / STOCK_OUT
	Reason      string // razón del movimiento (SALE, PURCHASE...)
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
