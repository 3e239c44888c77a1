package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo implementación del registrador contable sobre PostgreSQL.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create persiste un asiento. Se invoca dentro de la misma tx del movimiento.
func (r *JournalRepo) Create(entry *entity.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, company_id, reference_id, entry_type, reason, amount, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, entry.ReferenceID, entry.EntryType, entry.Reason,
		entry.Amount, entry.Description, entry.Date, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// ListByCompany lista asientos por empresa, más recientes primero.
func (r *JournalRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.JournalEntry, error) {
	query := `
		SELECT id, company_id, reference_id, entry_type, reason, amount, description, date, created_at
		FROM journal_entries WHERE company_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ReferenceID, &e.EntryType, &e.Reason,
			&e.Amount, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
