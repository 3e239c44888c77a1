package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas/tenants, incluido el
// corte del período contable que gobierna al kardex.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una nueva empresa. Una farmacia arranca con trazabilidad de lote
// obligatoria aunque el request no lo pida.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	businessType := in.BusinessType
	if businessType == "" {
		businessType = entity.BusinessTypeRetail
	}
	switch businessType {
	case entity.BusinessTypeRetail, entity.BusinessTypeGrocery, entity.BusinessTypePharmacy, entity.BusinessTypeClinic:
	default:
		return nil, domain.ErrInvalidInput
	}
	requireBatch := in.RequireBatchTracking
	if businessType == entity.BusinessTypePharmacy {
		requireBatch = true
	}
	now := time.Now()
	company := &entity.Company{
		ID:                   uuid.New().String(),
		Name:                 in.Name,
		BusinessType:         businessType,
		GSTIN:                in.GSTIN,
		Address:              in.Address,
		Phone:                in.Phone,
		Email:                in.Email,
		Status:               "active",
		AllowNegativeStock:   in.AllowNegativeStock,
		RequireBatchTracking: requireBatch,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(limit, offset int) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return items, nil
}

// LockPeriod fija (o quita, con nil) el corte del período contable de la
// empresa. Movimientos con fecha anterior al corte se rechazan desde entonces.
func (uc *CompanyUseCase) LockPeriod(id string, cutoff *time.Time) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.SetBooksLockedBefore(id, cutoff); err != nil {
		return nil, err
	}
	company.BooksLockedBefore = cutoff
	company.UpdatedAt = time.Now()
	return entityToCompanyResponse(company), nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		BusinessType:         c.BusinessType,
		GSTIN:                c.GSTIN,
		Status:               c.Status,
		AllowNegativeStock:   c.AllowNegativeStock,
		RequireBatchTracking: c.RequireBatchTracking,
		BooksLockedBefore:    c.BooksLockedBefore,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}
