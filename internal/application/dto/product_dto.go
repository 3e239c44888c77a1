package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// El flag tracks_stock NO se recibe: se resuelve desde la categoría al crear.
type CreateProductRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold,omitempty"`
	GSTRate           decimal.Decimal `json:"gst_rate,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold,omitempty"`
	GSTRate           decimal.Decimal `json:"gst_rate,omitempty"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	CompanyID         string          `json:"company_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	Price             decimal.Decimal `json:"price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	TracksStock       bool            `json:"tracks_stock"`
	GSTRate           decimal.Decimal `json:"gst_rate"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BatchResponse representación de un lote de producto.
type BatchResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	MfgDate         *time.Time      `json:"mfg_date,omitempty"`
	PurchaseRate    decimal.Decimal `json:"purchase_rate"`
	SellingRate     decimal.Decimal `json:"selling_rate"`
	MRP             decimal.Decimal `json:"mrp"`
	StockQuantity   decimal.Decimal `json:"stock_quantity"`
	OpeningQuantity decimal.Decimal `json:"opening_quantity"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}
