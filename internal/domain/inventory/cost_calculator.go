package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si la cantidad total resultante no es positiva, el costo queda sin cambio
// (guarda contra división por cero; ver WeightedAverageCost).
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoActual
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// WeightedAverageCost decide el costo resultante de una entrada. Solo recalcula
// cuando la entrada trae costo y cantidad positiva; en cualquier otro caso el
// costo actual se conserva. Con stock negativo previo (venta en negativo
// permitida) el promedio no está bien definido: se toma el costo de la entrada.
func WeightedAverageCost(stockActual, costoActual, cantEntrada decimal.Decimal, costoEntrada *decimal.Decimal) decimal.Decimal {
	if costoEntrada == nil || cantEntrada.LessThanOrEqual(decimal.Zero) {
		return costoActual
	}
	if stockActual.LessThanOrEqual(decimal.Zero) {
		return *costoEntrada
	}
	return CostCalculator(stockActual, costoActual, cantEntrada, *costoEntrada)
}
