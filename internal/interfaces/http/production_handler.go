package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ProductionHandler maneja corridas de producción y recetas (protegido).
type ProductionHandler struct {
	uc         *inventory.ProductionUseCase
	production repository.ProductionRepository
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *inventory.ProductionUseCase, production repository.ProductionRepository) *ProductionHandler {
	return &ProductionHandler{uc: uc, production: production}
}

// Produce godoc
// @Summary      Ejecutar corrida de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProduceRequest  true  "finished_product_id, quantity, batch_number (opcional), notes"
// @Success      201   {object}  dto.ProductionEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production [post]
func (h *ProductionHandler) Produce(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	var in dto.ProduceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Produce(c.Context(), inventory.ProduceInput{
		CompanyID:         companyID,
		UserID:            userID,
		FinishedProductID: in.FinishedProductID,
		Quantity:          in.Quantity,
		BatchNumber:       in.BatchNumber,
		Notes:             in.Notes,
		Date:              in.Date,
	})
	if err != nil {
		return h.mapProductionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductionResponse(entry))
}

// SaveRecipeLine godoc
// @Summary      Guardar línea de receta (BOM) del producto terminado
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del producto terminado"
// @Param        body  body  dto.BOMLineRequest  true  "raw_product_id, quantity_per_unit, unit"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/recipe [put]
func (h *ProductionHandler) SaveRecipeLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	finishedProductID := c.Params("id")
	var in dto.BOMLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line := &entity.BillOfMaterial{
		FinishedProductID: finishedProductID,
		RawProductID:      in.RawProductID,
		QuantityPerUnit:   in.QuantityPerUnit,
		Unit:              in.Unit,
		CostSharePct:      in.CostSharePct,
	}
	if err := h.uc.SaveRecipeLine(c.Context(), companyID, line); err != nil {
		return h.mapProductionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "línea de receta guardada"})
}

// ListEntries godoc
// @Summary      Listar corridas de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/production [get]
func (h *ProductionHandler) ListEntries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	list, err := h.production.ListByCompany(GetCompanyID(c), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.ProductionEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toProductionResponse(e))
	}
	return c.JSON(fiber.Map{"total": len(items), "entries": items})
}

func (h *ProductionHandler) mapProductionError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrRecipeNotFound):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_RECIPE", Message: "el producto no tiene receta (BOM) definida"})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente de materia prima"})
	case errors.Is(err, domain.ErrPeriodLocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PERIOD_LOCKED", Message: "período contable bloqueado para esa fecha"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toProductionResponse(e *entity.ProductionEntry) *dto.ProductionEntryResponse {
	var consumed []entity.ConsumedItem
	_ = json.Unmarshal(e.ConsumedItems, &consumed)
	return &dto.ProductionEntryResponse{
		ID:                e.ID,
		FinishedProductID: e.FinishedProductID,
		Quantity:          e.Quantity,
		BatchNumber:       e.BatchNumber,
		TotalMaterialCost: e.TotalMaterialCost,
		LaborCost:         e.LaborCost,
		ConsumedItems:     consumed,
		Notes:             e.Notes,
		Date:              e.Date,
		CreatedAt:         e.CreatedAt,
	}
}
