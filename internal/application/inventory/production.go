package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// ProductionUseCase ejecuta corridas de manufactura guiadas por receta (BOM):
// consume materias primas, produce el terminado al costo mezclado y deja el
// registro inmutable de la corrida. Todo en UNA transacción: o la corrida
// completa, o nada.
type ProductionUseCase struct {
	ledger   *StockLedger
	txRunner TxRunner
	log      *logger.Logger
}

// NewProductionUseCase construye el motor de producción.
func NewProductionUseCase(ledger *StockLedger, txRunner TxRunner, log *logger.Logger) *ProductionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductionUseCase{ledger: ledger, txRunner: txRunner, log: log}
}

// ProduceInput entrada de una corrida de producción.
type ProduceInput struct {
	CompanyID         string
	UserID            string
	FinishedProductID string
	Quantity          decimal.Decimal
	BatchNumber       string
	Notes             string
	Date              *time.Time
}

// Produce consume cada materia prima de la receta (cantidad * unidades) y da
// entrada al terminado con costo unitario = costo total de materiales / unidades.
// Si alguna materia prima no alcanza (y el tenant no permite stock negativo),
// toda la corrida se revierte.
func (p *ProductionUseCase) Produce(ctx context.Context, in ProduceInput) (*entity.ProductionEntry, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	productionID := uuid.New().String()
	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}

	var entry *entity.ProductionEntry
	var syncOps []*entity.SyncOperation
	err := p.txRunner.Run(ctx, func(repos TxRepos) error {
		recipe, err := repos.BOM.ListByFinishedProduct(in.FinishedProductID)
		if err != nil {
			return err
		}
		if len(recipe) == 0 {
			return domain.ErrRecipeNotFound
		}

		// Primera pasada: instantáneas de consumo y costo total de materiales
		// a los costos promedio vigentes, antes de mutar nada.
		consumed := make([]entity.ConsumedItem, 0, len(recipe))
		totalCost := decimal.Zero
		for _, line := range recipe {
			raw, err := repos.Products.GetByID(line.RawProductID)
			if err != nil {
				return err
			}
			if raw == nil {
				return domain.ErrNotFound
			}
			qty := line.QuantityPerUnit.Mul(in.Quantity)
			lineCost := qty.Mul(raw.CostPrice)
			consumed = append(consumed, entity.ConsumedItem{
				ProductID:   raw.ID,
				ProductName: raw.Name,
				Quantity:    qty,
				CostPerUnit: raw.CostPrice,
				TotalCost:   lineCost,
			})
			totalCost = totalCost.Add(lineCost)
		}

		// Segunda pasada: salidas de consumo por el kardex, misma tx.
		for _, item := range consumed {
			res, err := p.ledger.RecordMovementInTx(ctx, repos, MovementInput{
				CompanyID:   in.CompanyID,
				UserID:      in.UserID,
				ProductID:   item.ProductID,
				Direction:   entity.DirectionOut,
				Reason:      entity.ReasonProductionConsumption,
				Quantity:    item.Quantity,
				ReferenceID: productionID,
				Date:        &date,
			})
			if err != nil {
				return err
			}
			syncOps = append(syncOps, res.SyncOps...)
		}

		// Entrada del terminado al costo mezclado.
		unitCost := totalCost.DivRound(in.Quantity, 4)
		movIn := MovementInput{
			CompanyID:    in.CompanyID,
			UserID:       in.UserID,
			ProductID:    in.FinishedProductID,
			Direction:    entity.DirectionIn,
			Reason:       entity.ReasonProductionOutput,
			Quantity:     in.Quantity,
			ReferenceID:  productionID,
			Date:         &date,
			NewCostPrice: &unitCost,
		}
		if in.BatchNumber != "" {
			movIn.Batch = &BatchInput{Number: in.BatchNumber}
		}
		res, err := p.ledger.RecordMovementInTx(ctx, repos, movIn)
		if err != nil {
			return err
		}
		syncOps = append(syncOps, res.SyncOps...)

		consumedJSON, err := json.Marshal(consumed)
		if err != nil {
			return err
		}
		entry = &entity.ProductionEntry{
			ID:                productionID,
			CompanyID:         in.CompanyID,
			FinishedProductID: in.FinishedProductID,
			Quantity:          in.Quantity,
			BatchNumber:       in.BatchNumber,
			TotalMaterialCost: totalCost,
			LaborCost:         decimal.Zero,
			ConsumedItems:     consumedJSON,
			Notes:             in.Notes,
			Date:              date,
			CreatedAt:         now,
			CreatedBy:         in.UserID,
		}
		return repos.Production.Create(entry)
	})
	if err != nil {
		return nil, err
	}

	// La corrida ya está confirmada: recién ahora se propaga.
	p.ledger.EnqueueSync(syncOps)

	p.log.Info().
		Str("production_id", productionID).
		Str("finished_product_id", in.FinishedProductID).
		Str("quantity", in.Quantity.String()).
		Str("total_material_cost", entry.TotalMaterialCost.String()).
		Msg("corrida de producción registrada")
	return entry, nil
}

// SaveRecipeLine guarda (upsert) una línea de receta del producto terminado.
func (p *ProductionUseCase) SaveRecipeLine(ctx context.Context, companyID string, in *entity.BillOfMaterial) error {
	if in.FinishedProductID == "" || in.RawProductID == "" {
		return domain.ErrInvalidInput
	}
	if in.FinishedProductID == in.RawProductID {
		return domain.ErrInvalidInput
	}
	if !in.QuantityPerUnit.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	now := time.Now()
	if in.ID == "" {
		in.ID = uuid.New().String()
		in.CreatedAt = now
	}
	in.CompanyID = companyID
	in.UpdatedAt = now
	return p.txRunner.Run(ctx, func(repos TxRepos) error {
		finished, err := repos.Products.GetByID(in.FinishedProductID)
		if err != nil {
			return err
		}
		raw, err := repos.Products.GetByID(in.RawProductID)
		if err != nil {
			return err
		}
		if finished == nil || raw == nil {
			return domain.ErrNotFound
		}
		if finished.CompanyID != companyID || raw.CompanyID != companyID {
			return domain.ErrForbidden
		}
		return repos.BOM.Upsert(in)
	})
}
