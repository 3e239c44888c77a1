package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// ProductionRepository define el puerto de registros de producción (inmutables).
type ProductionRepository interface {
	Create(entry *entity.ProductionEntry) error
	GetByID(id string) (*entity.ProductionEntry, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.ProductionEntry, error)
}
