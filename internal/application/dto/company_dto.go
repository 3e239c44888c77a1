package dto

import "time"

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name                 string `json:"name"`
	BusinessType         string `json:"business_type,omitempty"`
	GSTIN                string `json:"gstin,omitempty"`
	Address              string `json:"address,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Email                string `json:"email,omitempty"`
	AllowNegativeStock   bool   `json:"allow_negative_stock,omitempty"`
	RequireBatchTracking bool   `json:"require_batch_tracking,omitempty"`
}

// LockPeriodRequest body para PUT /api/companies/:id/period-lock.
// Movimientos con fecha anterior a locked_before se rechazan; null quita el corte.
type LockPeriodRequest struct {
	LockedBefore *time.Time `json:"locked_before"`
}

// CompanyResponse representación de una empresa.
type CompanyResponse struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	BusinessType         string     `json:"business_type,omitempty"`
	GSTIN                string     `json:"gstin,omitempty"`
	Status               string     `json:"status"`
	AllowNegativeStock   bool       `json:"allow_negative_stock"`
	RequireBatchTracking bool       `json:"require_batch_tracking"`
	BooksLockedBefore    *time.Time `json:"books_locked_before,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
