package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, name, business_type, gstin, address, phone, email, status, allow_negative_stock, require_batch_tracking, books_locked_before, created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.BusinessType, company.GSTIN, company.Address,
		company.Phone, company.Email, company.Status, company.AllowNegativeStock,
		company.RequireBatchTracking, company.BooksLockedBefore, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var c entity.Company
	err := scanCompany(r.q.QueryRow(context.Background(), query, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// List lista empresas con paginación.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpdateSettings actualiza los flags de negocio de la empresa.
func (r *CompanyRepo) UpdateSettings(company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, business_type = $3, gstin = $4, address = $5,
			phone = $6, email = $7, status = $8, allow_negative_stock = $9,
			require_batch_tracking = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.BusinessType, company.GSTIN, company.Address,
		company.Phone, company.Email, company.Status, company.AllowNegativeStock,
		company.RequireBatchTracking, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// SetBooksLockedBefore fija el corte del período contable (nil lo quita).
func (r *CompanyRepo) SetBooksLockedBefore(companyID string, cutoff *time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE companies SET books_locked_before = $2, updated_at = now() WHERE id = $1`,
		companyID, cutoff,
	)
	if err != nil {
		return fmt.Errorf("set books locked before: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCompany(row pgx.Row, c *entity.Company) error {
	return row.Scan(
		&c.ID, &c.Name, &c.BusinessType, &c.GSTIN, &c.Address, &c.Phone, &c.Email,
		&c.Status, &c.AllowNegativeStock, &c.RequireBatchTracking, &c.BooksLockedBefore,
		&c.CreatedAt, &c.UpdatedAt,
	)
}
