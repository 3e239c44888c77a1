package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// JournalRepository define el puerto del registrador contable (Accounting Poster).
// Create participa de la misma transacción que el movimiento que lo origina.
type JournalRepository interface {
	Create(entry *entity.JournalEntry) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.JournalEntry, error)
}
