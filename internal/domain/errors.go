package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Errores del libro de inventario (kardex).
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPeriodLocked      = errors.New("período contable bloqueado")
	ErrBatchRequired     = errors.New("lote obligatorio para este producto")
	ErrBatchNotFound     = errors.New("lote no encontrado")
	ErrRecipeNotFound    = errors.New("el producto no tiene receta (BOM) definida")
)

// InsufficientStockError detalla un rechazo por stock insuficiente: qué producto,
// cuánto hay disponible y cuánto se pidió.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Required    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, requerido %s",
		e.ProductName, e.Available.String(), e.Required.String())
}

// Is permite errors.Is(err, ErrInsufficientStock) sobre el error tipado.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
