package entity

import (
	"encoding/json"
	"time"
)

// Tipos de operación de sincronización.
const (
	SyncKindCreate = "create"
	SyncKindUpdate = "update"
)

// Estados de publicación de la cola de sincronización (outbox).
const (
	SyncStatusPending    = "PENDING"
	SyncStatusProcessing = "PROCESSING"
	SyncStatusSent       = "SENT"
	SyncStatusFailed     = "FAILED"
	SyncStatusDead       = "DEAD"
)

// SyncOperation es una operación idempotente de propagación hacia el backend
// remoto. Idempotente por (Collection, DocumentID): reentregarla es un no-op
// en el consumidor. Se encola SIEMPRE después del commit de la transacción que
// la originó, nunca dentro.
type SyncOperation struct {
	ID            string
	CompanyID     string
	Kind          string // create / update
	Collection    string // products, stock_movements, product_batches...
	DocumentID    string
	Payload       json.RawMessage
	Status        string // PENDING, PROCESSING, SENT, FAILED, DEAD
	Attempts      int
	LastError     *string
	NextAttemptAt *time.Time
	LockedAt      *time.Time
	LockedBy      *string
	PublishedAt   *time.Time
	CreatedAt     time.Time
}
