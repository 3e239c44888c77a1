package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP del kardex (protegido).
type LedgerHandler struct {
	ledger    *inventory.StockLedger
	movements repository.StockMovementRepository
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(ledger *inventory.StockLedger, movements repository.StockMovementRepository) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, movements: movements}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock (kardex)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, direction IN/OUT, reason, quantity, batch_id (salidas con lote) o batch (entradas), new_cost_price (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := inventory.MovementInput{
		CompanyID:    companyID,
		UserID:       userID,
		ProductID:    in.ProductID,
		Direction:    in.Direction,
		Reason:       in.Reason,
		Quantity:     in.Quantity,
		ReferenceID:  in.ReferenceID,
		Date:         in.Date,
		BatchID:      in.BatchID,
		NewCostPrice: in.NewCostPrice,
		Description:  in.Description,
	}
	if in.Batch != nil {
		input.Batch = &inventory.BatchInput{
			Number:       in.Batch.Number,
			ExpiryDate:   in.Batch.ExpiryDate,
			MfgDate:      in.Batch.MfgDate,
			PurchaseRate: in.Batch.PurchaseRate,
			SellingRate:  in.Batch.SellingRate,
			MRP:          in.Batch.MRP,
		}
	}

	result, err := h.ledger.RecordMovement(c.Context(), input)
	if err != nil {
		return h.mapLedgerError(c, err)
	}
	if result.Movement == nil {
		// Producto servicio: no-op documentado, sin fila de kardex.
		return c.JSON(fiber.Map{"message": "producto sin control de stock; movimiento omitido"})
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(result.Movement))
}

// ListMovements godoc
// @Summary      Kardex de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/products/{id}/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("id")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	list, err := h.movements.ListByProduct(GetCompanyID(c), productID, nil, nil, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(items), "movements": items})
}

func (h *LedgerHandler) mapLedgerError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrPeriodLocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PERIOD_LOCKED", Message: "período contable bloqueado para esa fecha"})
	case errors.Is(err, domain.ErrBatchRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BATCH_REQUIRED", Message: "este producto exige lote"})
	case errors.Is(err, domain.ErrBatchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BATCH_NOT_FOUND", Message: "lote no encontrado"})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Direction:     m.Direction,
		Reason:        m.Reason,
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		UnitCost:      m.UnitCost,
		ReferenceID:   m.ReferenceID,
		BatchID:       m.BatchID,
		BatchNumber:   m.BatchNumber,
		NegativeStock: m.NegativeStock,
		Date:          m.Date,
		CreatedAt:     m.CreatedAt,
	}
}
