package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// Caso canónico: 10 uds a 100 + entrada de 10 uds a 140 → promedio 120.
func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(d("10"), d("100"), d("10"), d("140"))
	assert.True(t, got.Equal(d("120")), "esperaba 120, obtuve %s", got)
}

func TestCostCalculator_PrimeraEntradaDefineCosto(t *testing.T) {
	got := inventory.CostCalculator(d("0"), d("0"), d("5"), d("80"))
	assert.True(t, got.Equal(d("80")))
}

// Cantidad total no positiva: el costo queda sin cambio (sin división por cero).
func TestCostCalculator_SumaNoPositiva_CostoSinCambio(t *testing.T) {
	got := inventory.CostCalculator(d("-5"), d("100"), d("5"), d("140"))
	assert.True(t, got.Equal(d("100")))

	got = inventory.CostCalculator(d("0"), d("37.5"), d("0"), d("99"))
	assert.True(t, got.Equal(d("37.5")))
}

func TestWeightedAverageCost_SinCostoDeclarado_Conserva(t *testing.T) {
	got := inventory.WeightedAverageCost(d("10"), d("100"), d("10"), nil)
	assert.True(t, got.Equal(d("100")), "entrada sin costo no debe recalcular")
}

// Cantidad cero con costo declarado: idempotente, el costo no cambia.
func TestWeightedAverageCost_CantidadCero_Idempotente(t *testing.T) {
	costo := d("140")
	got := inventory.WeightedAverageCost(d("10"), d("100"), d("0"), &costo)
	assert.True(t, got.Equal(d("100")))
}

// Stock previo negativo (venta en negativo permitida): se toma el costo de la entrada.
func TestWeightedAverageCost_StockNegativoPrevio_TomaCostoEntrada(t *testing.T) {
	costo := d("90")
	got := inventory.WeightedAverageCost(d("-3"), d("100"), d("10"), &costo)
	assert.True(t, got.Equal(d("90")))
}

func TestWeightedAverageCost_RecalculaConEntradaValida(t *testing.T) {
	costo := d("140")
	got := inventory.WeightedAverageCost(d("10"), d("100"), d("10"), &costo)
	assert.True(t, got.Equal(d("120")))
}
