package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// OutboxRepository define el puerto de la cola de sincronización (outbox).
// Enqueue se invoca SIEMPRE después del commit de la transacción de negocio;
// Claim/MarkSent/MarkFailed los usa el despachador.
type OutboxRepository interface {
	Enqueue(ops []*entity.SyncOperation) error
	// Claim toma hasta batchSize operaciones elegibles (PENDING/FAILED listas
	// para reintento, o PROCESSING con lock vencido) y las marca PROCESSING.
	Claim(dispatcherID string, batchSize int, lockTimeout time.Duration, maxAttempts int) ([]*entity.SyncOperation, error)
	MarkSent(id string, publishedAt time.Time) error
	MarkFailed(id string, attempt int, cause string, nextAttemptAt *time.Time, dead bool) error
}
