package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
)

// AllocationHandler expande líneas de venta por lotes en orden FEFO (protegido).
type AllocationHandler struct {
	allocator *inventory.BatchAllocator
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(allocator *inventory.BatchAllocator) *AllocationHandler {
	return &AllocationHandler{allocator: allocator}
}

// Allocate godoc
// @Summary      Asignar líneas de venta por lotes (FEFO)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  object{lines=[]dto.AllocationLineRequest}  true  "líneas a expandir"
// @Success      200   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/allocate [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in struct {
		Lines []dto.AllocationLineRequest `json:"lines"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lines vacío"})
	}

	lines := make([]inventory.AllocationLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.AllocationLine{
			ProductID:   l.ProductID,
			BatchID:     l.BatchID,
			BatchNumber: l.BatchNumber,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			CGST:        l.CGST,
			SGST:        l.SGST,
			IGST:        l.IGST,
		})
	}

	result, err := h.allocator.Allocate(companyID, lines)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	out := dto.AllocationResponse{
		Lines:         make([]dto.AllocationLineResponse, 0, len(result.Lines)),
		Subtotal:      result.Subtotal,
		DiscountTotal: result.DiscountTotal,
		TaxTotal:      result.TaxTotal,
		GrandTotal:    result.GrandTotal,
	}
	for _, l := range result.Lines {
		out.Lines = append(out.Lines, dto.AllocationLineResponse{
			ProductID:   l.ProductID,
			BatchID:     l.BatchID,
			BatchNumber: l.BatchNumber,
			ExpiryDate:  l.ExpiryDate,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			CGST:        l.CGST,
			SGST:        l.SGST,
			IGST:        l.IGST,
			Unfulfilled: l.Unfulfilled,
		})
	}
	return c.JSON(out)
}
