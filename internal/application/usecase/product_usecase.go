package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Tasas GST válidas (porcentaje).
var validGSTRates = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(5),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
	decimal.NewFromInt(28),
}

// ProductUseCase casos de uso CRUD del catálogo. CostPrice y StockQuantity
// NUNCA se editan aquí: solo el kardex los muta.
type ProductUseCase struct {
	products repository.ProductRepository
	batches  repository.BatchRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, batches repository.BatchRepository) *ProductUseCase {
	return &ProductUseCase{products: products, batches: batches}
}

// Create crea un producto. CostPrice inicia en 0 y TracksStock se resuelve UNA
// vez desde la categoría: los servicios (consulta, laboratorio, OPD) no llevan stock.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.products.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if !isValidGSTRate(in.GSTRate) {
		return nil, domain.ErrInvalidInput
	}
	unit := in.Unit
	if unit == "" {
		unit = "pcs"
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		SKU:               in.SKU,
		Name:              in.Name,
		Category:          in.Category,
		Unit:              unit,
		Price:             in.Price,
		CostPrice:         decimal.Zero,
		StockQuantity:     decimal.Zero,
		LowStockThreshold: in.LowStockThreshold,
		TracksStock:       inventory.TracksStock(in.Category),
		GSTRate:           in.GSTRate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.products.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID (validando tenant).
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// Update actualiza el catálogo del producto. No toca CostPrice ni StockQuantity
// (se manejan vía movimientos) ni TracksStock salvo que cambie la categoría.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !isValidGSTRate(in.GSTRate) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Category != product.Category {
		product.Category = in.Category
		product.TracksStock = inventory.TracksStock(in.Category)
	}
	if in.Unit != "" {
		product.Unit = in.Unit
	}
	product.Price = in.Price
	product.LowStockThreshold = in.LowStockThreshold
	product.GSTRate = in.GSTRate
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(companyID string, limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// ListBatches lista los lotes de un producto en orden FEFO.
func (uc *ProductUseCase) ListBatches(companyID, productID string) ([]dto.BatchResponse, error) {
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	batches, err := uc.batches.ListByExpiryAscending(productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, dto.BatchResponse{
			ID:              b.ID,
			ProductID:       b.ProductID,
			BatchNumber:     b.BatchNumber,
			ExpiryDate:      b.ExpiryDate,
			MfgDate:         b.MfgDate,
			PurchaseRate:    b.PurchaseRate,
			SellingRate:     b.SellingRate,
			MRP:             b.MRP,
			StockQuantity:   b.StockQuantity,
			OpeningQuantity: b.OpeningQuantity,
			Status:          b.Status,
			CreatedAt:       b.CreatedAt,
		})
	}
	return items, nil
}

func isValidGSTRate(rate decimal.Decimal) bool {
	for _, valid := range validGSTRates {
		if rate.Equal(valid) {
			return true
		}
	}
	return false
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		CompanyID:         p.CompanyID,
		SKU:               p.SKU,
		Name:              p.Name,
		Category:          p.Category,
		Unit:              p.Unit,
		Price:             p.Price,
		CostPrice:         p.CostPrice,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		TracksStock:       p.TracksStock,
		GSTRate:           p.GSTRate,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
