package repository

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// CompanyRepository define el puerto de empresas/tenants. Los flags de la
// empresa (stock negativo, lotes obligatorios, corte contable) son la
// autoridad de período y de cumplimiento que consulta el kardex.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
	UpdateSettings(company *entity.Company) error
	// SetBooksLockedBefore fija el corte del período contable (nil lo quita).
	SetBooksLockedBefore(companyID string, cutoff *time.Time) error
}
