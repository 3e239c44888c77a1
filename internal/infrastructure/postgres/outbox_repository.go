package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)
var _ inventory.SyncQueue = (*OutboxRepo)(nil)

const syncColumns = `id, company_id, kind, collection, document_id, payload, status, attempts, last_error, next_attempt_at, locked_at, locked_by, published_at, created_at`

// OutboxRepo implementación de la cola de sincronización (outbox) sobre PostgreSQL.
// También satisface inventory.SyncQueue: Enqueue se invoca tras el commit de la
// transacción de negocio.
type OutboxRepo struct {
	q Querier
}

// NewOutboxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutboxRepository(q Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

// Enqueue inserta las operaciones en estado PENDING.
func (r *OutboxRepo) Enqueue(ops []*entity.SyncOperation) error {
	query := `
		INSERT INTO sync_operations (id, company_id, kind, collection, document_id, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, op := range ops {
		_, err := r.q.Exec(context.Background(), query,
			op.ID, op.CompanyID, op.Kind, op.Collection, op.DocumentID,
			op.Payload, op.Status, op.Attempts, op.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("enqueue sync operation: %w", err)
		}
	}
	return nil
}

// Claim toma hasta batchSize operaciones elegibles y las marca PROCESSING.
// Una sola sentencia con SKIP LOCKED: despachadores concurrentes no se pisan, y
// las filas PROCESSING con lock vencido (despachador caído) vuelven a ser elegibles.
func (r *OutboxRepo) Claim(dispatcherID string, batchSize int, lockTimeout time.Duration, maxAttempts int) ([]*entity.SyncOperation, error) {
	query := `
		UPDATE sync_operations
		SET status = 'PROCESSING', locked_at = now(), locked_by = $1
		WHERE id IN (
			SELECT id FROM sync_operations
			WHERE (
				status IN ('PENDING', 'FAILED')
				AND (next_attempt_at IS NULL OR next_attempt_at <= now())
				AND attempts < $3
			) OR (
				status = 'PROCESSING'
				AND locked_at < now() - make_interval(secs => $4)
			)
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + syncColumns
	rows, err := r.q.Query(context.Background(), query,
		dispatcherID, batchSize, maxAttempts, lockTimeout.Seconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("claim sync operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.SyncOperation
	for rows.Next() {
		var op entity.SyncOperation
		if err := rows.Scan(&op.ID, &op.CompanyID, &op.Kind, &op.Collection, &op.DocumentID,
			&op.Payload, &op.Status, &op.Attempts, &op.LastError, &op.NextAttemptAt,
			&op.LockedAt, &op.LockedBy, &op.PublishedAt, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync operation: %w", err)
		}
		list = append(list, &op)
	}
	return list, rows.Err()
}

// MarkSent marca la operación como publicada.
func (r *OutboxRepo) MarkSent(id string, publishedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sync_operations
		 SET status = 'SENT', published_at = $2, locked_at = NULL, locked_by = NULL, last_error = NULL
		 WHERE id = $1`,
		id, publishedAt,
	)
	if err != nil {
		return fmt.Errorf("mark sync operation sent: %w", err)
	}
	return nil
}

// MarkFailed registra el intento fallido. dead=true la saca de circulación (DEAD);
// si no, queda FAILED con la próxima ventana de reintento.
func (r *OutboxRepo) MarkFailed(id string, attempt int, cause string, nextAttemptAt *time.Time, dead bool) error {
	status := entity.SyncStatusFailed
	if dead {
		status = entity.SyncStatusDead
	}
	_, err := r.q.Exec(context.Background(),
		`UPDATE sync_operations
		 SET status = $2, attempts = $3, last_error = $4, next_attempt_at = $5,
			 locked_at = NULL, locked_by = NULL
		 WHERE id = $1`,
		id, status, attempt, cause, nextAttemptAt,
	)
	if err != nil {
		return fmt.Errorf("mark sync operation failed: %w", err)
	}
	return nil
}
