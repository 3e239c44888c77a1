package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// StockLedger es el ÚNICO punto de entrada autorizado para cambiar cantidades
// de stock. Aplica las reglas de oro en orden sobre cada movimiento: período
// contable, cantidad positiva, cumplimiento de lotes, no-op de servicios,
// cálculo de stock (con override de stock negativo), costo promedio ponderado,
// mutación de lote, escrituras durables, asiento contable y propagación.
type StockLedger struct {
	txRunner    TxRunner
	syncQueue   SyncQueue
	companyRepo repository.CompanyRepository
	log         *logger.Logger
}

// NewStockLedger construye el kardex.
func NewStockLedger(txRunner TxRunner, syncQueue SyncQueue, companyRepo repository.CompanyRepository, log *logger.Logger) *StockLedger {
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedger{txRunner: txRunner, syncQueue: syncQueue, companyRepo: companyRepo, log: log}
}

// BatchInput datos del lote para entradas que nombran un lote.
// Si el número no existe para el producto, el lote se crea (primera entrada
// que lo nombra, o migración de stock de apertura con ExpiryDate nil).
type BatchInput struct {
	Number       string
	ExpiryDate   *time.Time
	MfgDate      *time.Time
	PurchaseRate decimal.Decimal
	SellingRate  decimal.Decimal
	MRP          decimal.Decimal
}

// MovementInput entrada para registrar un movimiento del kardex.
// Quantity siempre positiva; Direction lleva el signo. NewCostPrice solo aplica
// en entradas (recalcula el costo promedio). Date vacío = ahora.
type MovementInput struct {
	CompanyID    string
	UserID       string
	ProductID    string
	Direction    string // IN / OUT
	Reason       string
	Quantity     decimal.Decimal
	ReferenceID  string
	Date         *time.Time
	BatchID      string
	Batch        *BatchInput
	NewCostPrice *decimal.Decimal
	Description  string
}

// MovementResult resultado de un movimiento. Movement es nil cuando el
// producto es un servicio (no-op documentado). SyncOps son las operaciones a
// encolar DESPUÉS del commit de la transacción que contuvo el movimiento.
type MovementResult struct {
	Movement *entity.StockMovement
	SyncOps  []*entity.SyncOperation
}

// RecordMovement registra un movimiento en su PROPIA transacción y encola la
// sincronización tras el commit. Para llamadores independientes (compras,
// ajustes manuales, migración).
func (l *StockLedger) RecordMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	company, err := l.loadCompany(in.CompanyID)
	if err != nil {
		return nil, err
	}

	var result *MovementResult
	err = l.txRunner.Run(ctx, func(repos TxRepos) error {
		var txErr error
		result, txErr = l.record(repos, company, in)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	l.enqueueAfterCommit(result)
	return result, nil
}

// RecordMovementInTx registra un movimiento usando los repositorios del caller
// (misma transacción). El caller es responsable de encolar result.SyncOps en la
// SyncQueue DESPUÉS de su commit — nunca antes.
func (l *StockLedger) RecordMovementInTx(ctx context.Context, repos TxRepos, in MovementInput) (*MovementResult, error) {
	company, err := l.loadCompany(in.CompanyID)
	if err != nil {
		return nil, err
	}
	return l.record(repos, company, in)
}

// EnqueueSync encola operaciones de sincronización acumuladas por el caller
// tras el commit de su transacción externa.
func (l *StockLedger) EnqueueSync(ops []*entity.SyncOperation) {
	l.enqueueAfterCommit(&MovementResult{SyncOps: ops})
}

func (l *StockLedger) loadCompany(companyID string) (*entity.Company, error) {
	company, err := l.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// enqueueAfterCommit encola la propagación. El movimiento ya está confirmado:
// un fallo al encolar se registra como error pero no revierte nada (la fila
// outbox es idempotente por documento y puede reencolarse con una reconciliación).
func (l *StockLedger) enqueueAfterCommit(result *MovementResult) {
	if result == nil || len(result.SyncOps) == 0 {
		return
	}
	if err := l.syncQueue.Enqueue(result.SyncOps); err != nil {
		l.log.Error().Err(err).
			Int("ops", len(result.SyncOps)).
			Msg("no se pudo encolar la sincronización de un movimiento confirmado")
	}
}

// record aplica las reglas de oro dentro de la transacción. Cualquier error
// aborta sin escrituras parciales (rollback del TxRunner o del caller).
func (l *StockLedger) record(repos TxRepos, company *entity.Company, in MovementInput) (*MovementResult, error) {
	if in.Direction != entity.DirectionIn && in.Direction != entity.DirectionOut {
		return nil, domain.ErrInvalidInput
	}
	if in.Reason == "" || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Regla 1: período contable bloqueado rechaza el movimiento completo.
	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	if company.IsPeriodLocked(date) {
		return nil, domain.ErrPeriodLocked
	}

	// Regla 2: la cantidad es una magnitud, siempre > 0; el signo lo da Direction.
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	// Bloquea la fila del producto (SELECT FOR UPDATE): lecturas, cálculo y
	// escrituras del movimiento ocurren bajo el aislamiento de esta tx.
	product, err := repos.Products.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != in.CompanyID {
		return nil, domain.ErrForbidden
	}

	// Regla 3: negocio regulado (farmacia) exige lote en productos almacenables.
	if company.RequireBatchTracking && product.TracksStock && in.BatchID == "" && in.Batch == nil {
		return nil, domain.ErrBatchRequired
	}

	// Regla 4: los servicios (consulta, laboratorio, OPD...) no llevan stock:
	// no-op documentado, sin fila de movimiento, sin mutación, sin asiento.
	if !product.TracksStock {
		return &MovementResult{}, nil
	}

	// Regla 5: cálculo de stock con override de stock negativo del tenant.
	stockBefore := product.StockQuantity
	var stockAfter decimal.Decimal
	negativeStock := false
	switch in.Direction {
	case entity.DirectionOut:
		stockAfter = stockBefore.Sub(in.Quantity)
		if stockBefore.LessThan(in.Quantity) {
			if !company.AllowNegativeStock {
				return nil, &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   stockBefore,
					Required:    in.Quantity,
				}
			}
			negativeStock = true
			l.log.Warn().
				Str("company_id", company.ID).
				Str("product_id", product.ID).
				Str("available", stockBefore.String()).
				Str("required", in.Quantity.String()).
				Msg("salida con stock insuficiente permitida por configuración (stock negativo)")
		}
	case entity.DirectionIn:
		stockAfter = stockBefore.Add(in.Quantity)
	}

	// Regla 6: costo promedio ponderado, solo entradas con costo declarado.
	newCost := product.CostPrice
	if in.Direction == entity.DirectionIn {
		newCost = domaininv.WeightedAverageCost(stockBefore, product.CostPrice, in.Quantity, in.NewCostPrice)
	}
	unitCost := l.effectiveUnitCost(product, in)

	// Regla 7: mutación del lote (±cantidad) en la misma transacción.
	batchID, batchNumber, batchSync, err := l.applyBatch(repos, product, in)
	if err != nil {
		return nil, err
	}

	// Regla 8: escrituras durables — producto, lote (ya aplicado) y la fila
	// inmutable del kardex con instantáneas antes/después.
	if err := repos.Products.UpdateStockAndCost(product.ID, stockAfter, newCost); err != nil {
		return nil, err
	}
	movement := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     in.CompanyID,
		ProductID:     product.ID,
		Direction:     in.Direction,
		Reason:        in.Reason,
		Quantity:      in.Quantity,
		StockBefore:   stockBefore,
		StockAfter:    stockAfter,
		UnitCost:      unitCost,
		ReferenceID:   in.ReferenceID,
		BatchID:       batchID,
		BatchNumber:   batchNumber,
		NegativeStock: negativeStock,
		Description:   in.Description,
		Date:          date,
		CreatedAt:     now,
		CreatedBy:     in.UserID,
	}
	if err := repos.Movements.Create(movement); err != nil {
		return nil, err
	}

	// Regla 9: asiento contable cuando el movimiento tiene valor.
	if movement.Value().GreaterThan(decimal.Zero) {
		if err := l.postJournal(repos, company, product, movement); err != nil {
			return nil, err
		}
	}

	if product.LowStockThreshold.GreaterThan(decimal.Zero) && stockAfter.LessThan(product.LowStockThreshold) {
		l.log.Warn().
			Str("company_id", company.ID).
			Str("product_id", product.ID).
			Str("stock", stockAfter.String()).
			Str("threshold", product.LowStockThreshold.String()).
			Msg("producto por debajo del umbral mínimo de stock")
	}

	// Regla 10: operaciones de propagación, idempotentes por documento.
	ops, err := l.buildSyncOps(product, movement, stockAfter, newCost, batchSync)
	if err != nil {
		return nil, err
	}
	return &MovementResult{Movement: movement, SyncOps: ops}, nil
}

// effectiveUnitCost costo unitario del movimiento: en entradas el costo
// declarado (si viene), en salidas el costo promedio vigente del producto.
func (l *StockLedger) effectiveUnitCost(product *entity.Product, in MovementInput) decimal.Decimal {
	if in.Direction == entity.DirectionIn && in.NewCostPrice != nil {
		return *in.NewCostPrice
	}
	return product.CostPrice
}

// applyBatch resuelve y muta el lote del movimiento. Salidas exigen BatchID;
// entradas pueden nombrar un lote por número: si no existe se crea (alta por
// primera entrada, o migración de apertura con expiry nil).
func (l *StockLedger) applyBatch(repos TxRepos, product *entity.Product, in MovementInput) (batchID, batchNumber string, sync *entity.ProductBatch, err error) {
	delta := in.Quantity
	if in.Direction == entity.DirectionOut {
		delta = in.Quantity.Neg()
	}

	if in.BatchID != "" {
		batch, err := repos.Batches.GetByID(in.BatchID)
		if err != nil {
			return "", "", nil, err
		}
		if batch == nil {
			return "", "", nil, domain.ErrBatchNotFound
		}
		if batch.ProductID != product.ID {
			return "", "", nil, domain.ErrInvalidInput
		}
		if err := repos.Batches.AdjustStock(batch.ID, delta); err != nil {
			return "", "", nil, err
		}
		batch.StockQuantity = batch.StockQuantity.Add(delta)
		return batch.ID, batch.BatchNumber, batch, nil
	}

	if in.Batch == nil || in.Batch.Number == "" {
		return "", "", nil, nil
	}
	if in.Direction != entity.DirectionIn {
		// Una salida no puede nombrar un lote solo por número: debe traer BatchID.
		return "", "", nil, domain.ErrInvalidInput
	}

	batch, err := repos.Batches.GetByProductAndNumber(product.ID, in.Batch.Number)
	if err != nil {
		return "", "", nil, err
	}
	if batch != nil {
		if err := repos.Batches.AdjustStock(batch.ID, delta); err != nil {
			return "", "", nil, err
		}
		batch.StockQuantity = batch.StockQuantity.Add(delta)
		return batch.ID, batch.BatchNumber, batch, nil
	}

	now := time.Now()
	batch = &entity.ProductBatch{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		BatchNumber:     in.Batch.Number,
		ExpiryDate:      in.Batch.ExpiryDate,
		MfgDate:         in.Batch.MfgDate,
		PurchaseRate:    in.Batch.PurchaseRate,
		SellingRate:     in.Batch.SellingRate,
		MRP:             in.Batch.MRP,
		StockQuantity:   in.Quantity,
		OpeningQuantity: in.Quantity,
		Status:          entity.BatchStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repos.Batches.Create(batch); err != nil {
		return "", "", nil, err
	}
	return batch.ID, batch.BatchNumber, batch, nil
}

// postJournal registra el asiento monetario del movimiento (misma transacción).
func (l *StockLedger) postJournal(repos TxRepos, company *entity.Company, product *entity.Product, m *entity.StockMovement) error {
	entryType := entity.JournalTypeStockIn
	if m.Direction == entity.DirectionOut {
		entryType = entity.JournalTypeStockOut
	}
	description := m.Description
	if description == "" {
		description = m.Reason + " " + product.Name + " x " + m.Quantity.String()
	}
	return repos.Journal.Create(&entity.JournalEntry{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		ReferenceID: m.ID,
		EntryType:   entryType,
		Reason:      m.Reason,
		Amount:      m.Value(),
		Description: description,
		Date:        m.Date,
		CreatedAt:   m.CreatedAt,
	})
}

// buildSyncOps arma las operaciones de propagación del movimiento: update del
// producto, create del movimiento y update del lote si aplica. Idempotentes por
// (collection, document_id).
func (l *StockLedger) buildSyncOps(product *entity.Product, m *entity.StockMovement, stockAfter, costPrice decimal.Decimal, batch *entity.ProductBatch) ([]*entity.SyncOperation, error) {
	productPayload, err := json.Marshal(map[string]interface{}{
		"id":             product.ID,
		"stock_quantity": stockAfter,
		"cost_price":     costPrice,
		"updated_at":     m.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	movementPayload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	ops := []*entity.SyncOperation{
		{
			ID:         uuid.New().String(),
			CompanyID:  m.CompanyID,
			Kind:       entity.SyncKindUpdate,
			Collection: "products",
			DocumentID: product.ID,
			Payload:    productPayload,
			Status:     entity.SyncStatusPending,
			CreatedAt:  m.CreatedAt,
		},
		{
			ID:         uuid.New().String(),
			CompanyID:  m.CompanyID,
			Kind:       entity.SyncKindCreate,
			Collection: "stock_movements",
			DocumentID: m.ID,
			Payload:    movementPayload,
			Status:     entity.SyncStatusPending,
			CreatedAt:  m.CreatedAt,
		},
	}
	if batch != nil {
		batchPayload, err := json.Marshal(map[string]interface{}{
			"id":             batch.ID,
			"product_id":     batch.ProductID,
			"batch_number":   batch.BatchNumber,
			"stock_quantity": batch.StockQuantity,
			"updated_at":     m.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		ops = append(ops, &entity.SyncOperation{
			ID:         uuid.New().String(),
			CompanyID:  m.CompanyID,
			Kind:       entity.SyncKindUpdate,
			Collection: "product_batches",
			DocumentID: batch.ID,
			Payload:    batchPayload,
			Status:     entity.SyncStatusPending,
			CreatedAt:  m.CreatedAt,
		})
	}
	return ops, nil
}
