package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// BatchAllocator expande líneas de venta en sublíneas atribuidas a lotes
// concretos en orden FEFO (primero en vencer, primero en salir). Es un paso de
// planificación de solo lectura: no muta stock; el kardex registra después un
// movimiento por cada sublínea con lote.
type BatchAllocator struct {
	products repository.ProductRepository
	batches  repository.BatchRepository
	log      *logger.Logger
}

// NewBatchAllocator construye el asignador FEFO.
func NewBatchAllocator(products repository.ProductRepository, batches repository.BatchRepository, log *logger.Logger) *BatchAllocator {
	if log == nil {
		log = logger.Nop()
	}
	return &BatchAllocator{products: products, batches: batches, log: log}
}

// AllocationLine una línea de venta a asignar. Discount y los componentes GST
// son montos totales de la línea; se prorratean entre las sublíneas.
type AllocationLine struct {
	ProductID   string
	BatchID     string
	BatchNumber string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	CGST        decimal.Decimal
	SGST        decimal.Decimal
	IGST        decimal.Decimal
}

// AllocatedLine una sublínea resultante. Unfulfilled marca el remanente que
// ningún lote pudo cubrir: se emite SIN lote para que el documento conserve la
// cantidad completa y el faltante quede visible.
type AllocatedLine struct {
	ProductID   string
	BatchID     string
	BatchNumber string
	ExpiryDate  *time.Time
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	CGST        decimal.Decimal
	SGST        decimal.Decimal
	IGST        decimal.Decimal
	Unfulfilled bool
}

// AllocationResult sublíneas expandidas más los agregados recalculados.
// Invariante: la suma de cantidades, descuentos e impuestos de las sublíneas
// de cada línea de entrada es exactamente igual a la de la línea original.
type AllocationResult struct {
	Lines         []AllocatedLine
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
}

// Allocate expande cada línea contra los lotes del producto en orden FEFO.
// Líneas que ya nombran un lote, ítems sin producto de catálogo, líneas sin
// cantidad positiva y productos sin control de stock pasan sin cambios: la
// asignación nunca falla ni bloquea por una línea, el faltante se expone como
// dato. El stock agregado del producto NO se consulta: solo los lotes; el
// kardex es quien decide después si la salida procede.
func (a *BatchAllocator) Allocate(companyID string, lines []AllocationLine) (*AllocationResult, error) {
	result := &AllocationResult{
		Lines:         make([]AllocatedLine, 0, len(lines)),
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.Zero,
		GrandTotal:    decimal.Zero,
	}

	for _, line := range lines {
		expanded, err := a.expandLine(companyID, line)
		if err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, expanded...)
	}

	for _, sub := range result.Lines {
		gross := sub.Quantity.Mul(sub.UnitPrice)
		tax := sub.CGST.Add(sub.SGST).Add(sub.IGST)
		result.Subtotal = result.Subtotal.Add(gross)
		result.DiscountTotal = result.DiscountTotal.Add(sub.Discount)
		result.TaxTotal = result.TaxTotal.Add(tax)
	}
	result.GrandTotal = result.Subtotal.Sub(result.DiscountTotal).Add(result.TaxTotal)
	return result, nil
}

func (a *BatchAllocator) expandLine(companyID string, line AllocationLine) ([]AllocatedLine, error) {
	// Ítems sin producto de catálogo (ad-hoc) y líneas sin cantidad positiva
	// pasan sin cambios: no hay lotes que atribuir.
	if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
		return []AllocatedLine{passThrough(line)}, nil
	}
	// Línea con lote ya elegido por el caller: respetarla tal cual.
	if line.BatchID != "" || line.BatchNumber != "" {
		return []AllocatedLine{passThrough(line)}, nil
	}

	product, err := a.products.GetByID(line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !product.TracksStock {
		return []AllocatedLine{passThrough(line)}, nil
	}

	batches, err := a.batches.ListByExpiryAscending(product.ID)
	if err != nil {
		return nil, err
	}

	var subs []AllocatedLine
	remaining := line.Quantity
	for _, batch := range batches {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		if batch.Status != entity.BatchStatusActive || !batch.StockQuantity.GreaterThan(decimal.Zero) {
			continue
		}
		take := remaining
		if batch.StockQuantity.LessThan(take) {
			take = batch.StockQuantity
		}
		subs = append(subs, AllocatedLine{
			ProductID:   line.ProductID,
			BatchID:     batch.ID,
			BatchNumber: batch.BatchNumber,
			ExpiryDate:  batch.ExpiryDate,
			Quantity:    take,
			UnitPrice:   line.UnitPrice,
		})
		remaining = remaining.Sub(take)
	}

	// Remanente sin cubrir: sublínea sin lote, marcada. La cantidad del
	// documento se conserva completa aunque los lotes no alcancen.
	if remaining.GreaterThan(decimal.Zero) {
		if len(subs) > 0 {
			a.log.Warn().
				Str("product_id", line.ProductID).
				Str("unfulfilled", remaining.String()).
				Msg("los lotes no cubren la cantidad de la línea; remanente sin lote")
		}
		subs = append(subs, AllocatedLine{
			ProductID:   line.ProductID,
			Quantity:    remaining,
			UnitPrice:   line.UnitPrice,
			Unfulfilled: true,
		})
	}

	prorate(subs, line)
	return subs, nil
}

func passThrough(line AllocationLine) AllocatedLine {
	return AllocatedLine{
		ProductID:   line.ProductID,
		BatchID:     line.BatchID,
		BatchNumber: line.BatchNumber,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Discount:    line.Discount,
		CGST:        line.CGST,
		SGST:        line.SGST,
		IGST:        line.IGST,
	}
}

// prorate reparte descuento e impuestos de la línea entre sus sublíneas en
// proporción a la cantidad. La última sublínea absorbe el residuo de redondeo
// para que las sumas cierren exactas contra la línea original.
func prorate(subs []AllocatedLine, line AllocationLine) {
	if len(subs) == 0 {
		return
	}
	if len(subs) == 1 {
		subs[0].Discount = line.Discount
		subs[0].CGST = line.CGST
		subs[0].SGST = line.SGST
		subs[0].IGST = line.IGST
		return
	}

	var discountUsed, cgstUsed, sgstUsed, igstUsed decimal.Decimal
	for i := range subs[:len(subs)-1] {
		subs[i].Discount = share(line.Discount, subs[i].Quantity, line.Quantity)
		subs[i].CGST = share(line.CGST, subs[i].Quantity, line.Quantity)
		subs[i].SGST = share(line.SGST, subs[i].Quantity, line.Quantity)
		subs[i].IGST = share(line.IGST, subs[i].Quantity, line.Quantity)
		discountUsed = discountUsed.Add(subs[i].Discount)
		cgstUsed = cgstUsed.Add(subs[i].CGST)
		sgstUsed = sgstUsed.Add(subs[i].SGST)
		igstUsed = igstUsed.Add(subs[i].IGST)
	}
	last := len(subs) - 1
	subs[last].Discount = line.Discount.Sub(discountUsed)
	subs[last].CGST = line.CGST.Sub(cgstUsed)
	subs[last].SGST = line.SGST.Sub(sgstUsed)
	subs[last].IGST = line.IGST.Sub(igstUsed)
}

// share = total * qty / totalQty, redondeado a 2 decimales.
func share(total, qty, totalQty decimal.Decimal) decimal.Decimal {
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return total.Mul(qty).DivRound(totalQty, 2)
}
