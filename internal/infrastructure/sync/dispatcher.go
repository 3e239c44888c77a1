package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Dispatcher drena la cola de sincronización (outbox): toma lotes de
// operaciones elegibles, las entrega vía Sender y marca SENT/FAILED/DEAD.
// Varios despachadores pueden correr a la vez (SKIP LOCKED en Claim).
type Dispatcher struct {
	outbox       repository.OutboxRepository
	sender       Sender
	log          *logger.Logger
	dispatcherID string

	BatchSize      int
	PollInterval   time.Duration
	LockTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

// NewDispatcher construye el despachador con valores por defecto razonables.
func NewDispatcher(outbox repository.OutboxRepository, sender Sender, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		outbox:         outbox,
		sender:         sender,
		log:            log,
		dispatcherID:   uuid.NewString(),
		BatchSize:      50,
		PollInterval:   10 * time.Second,
		LockTimeout:    2 * time.Minute,
		MaxAttempts:    8,
		InitialBackoff: 5 * time.Second,
	}
}

// Run itera hasta que el contexto se cancele.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info().
		Str("dispatcher_id", d.dispatcherID).
		Dur("poll_interval", d.PollInterval).
		Msg("despachador de sincronización iniciado")
	for {
		select {
		case <-ctx.Done():
			d.log.Info().Str("dispatcher_id", d.dispatcherID).Msg("despachador de sincronización detenido")
			return
		default:
		}
		d.DispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

// DispatchOnce procesa un lote: claim, envío y marcado por operación.
func (d *Dispatcher) DispatchOnce(ctx context.Context) {
	claimed, err := d.outbox.Claim(d.dispatcherID, d.BatchSize, d.LockTimeout, d.MaxAttempts)
	if err != nil {
		d.log.Error().Err(err).Msg("claim de operaciones de sincronización falló")
		return
	}
	for _, op := range claimed {
		attempt := op.Attempts + 1
		if err := d.sender.Send(ctx, op); err != nil {
			d.markFailed(op, attempt, err)
			continue
		}
		if err := d.outbox.MarkSent(op.ID, time.Now().UTC()); err != nil {
			d.log.Error().Err(err).Str("op_id", op.ID).Msg("no se pudo marcar la operación como enviada")
		}
	}
}

// markFailed registra el fallo: DEAD tras MaxAttempts, si no FAILED con backoff
// exponencial (tope 10 minutos).
func (d *Dispatcher) markFailed(op *entity.SyncOperation, attempt int, cause error) {
	if d.MaxAttempts > 0 && attempt >= d.MaxAttempts {
		if err := d.outbox.MarkFailed(op.ID, attempt, cause.Error(), nil, true); err != nil {
			d.log.Error().Err(err).Str("op_id", op.ID).Msg("no se pudo marcar la operación como DEAD")
			return
		}
		d.log.Error().Err(cause).
			Str("op_id", op.ID).
			Str("collection", op.Collection).
			Str("document_id", op.DocumentID).
			Int("attempt", attempt).
			Msg("operación de sincronización movida a DEAD tras agotar intentos")
		return
	}

	backoff := d.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff > 10*time.Minute {
			backoff = 10 * time.Minute
			break
		}
	}
	next := time.Now().UTC().Add(backoff)
	if err := d.outbox.MarkFailed(op.ID, attempt, cause.Error(), &next, false); err != nil {
		d.log.Error().Err(err).Str("op_id", op.ID).Msg("no se pudo marcar la operación como FAILED")
		return
	}
	d.log.Warn().Err(cause).
		Str("op_id", op.ID).
		Str("collection", op.Collection).
		Int("attempt", attempt).
		Time("next_attempt_at", next).
		Msg("entrega de sincronización falló; reintento programado")
}
