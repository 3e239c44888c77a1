package inventory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

type productionEnv struct {
	state *memState
	uc    *inventory.ProductionUseCase
	queue *fakeSyncQueue
}

func newProductionEnv() *productionEnv {
	state := newMemState()
	queue := &fakeSyncQueue{}
	runner := &fakeTxRunner{s: state}
	ledger := inventory.NewStockLedger(runner, queue, &fakeCompanyRepo{s: state}, logger.Nop())
	return &productionEnv{
		state: state,
		uc:    inventory.NewProductionUseCase(ledger, runner, logger.Nop()),
		queue: queue,
	}
}

func (e *productionEnv) seedCompany(id string, mutate func(*entity.Company)) {
	c := &entity.Company{ID: id, Name: "Panadería Test", Status: "active"}
	if mutate != nil {
		mutate(c)
	}
	e.state.companies[id] = c
}

func (e *productionEnv) seedProduct(id, companyID, stock, cost string) {
	e.state.products[id] = &entity.Product{
		ID:            id,
		CompanyID:     companyID,
		SKU:           "SKU-" + id,
		Name:          "Producto " + id,
		Category:      "grocery",
		Unit:          "pcs",
		StockQuantity: d(stock),
		CostPrice:     d(cost),
		TracksStock:   true,
	}
}

func (e *productionEnv) seedRecipeLine(finishedID, rawID, qtyPerUnit string) {
	e.state.bomLines = append(e.state.bomLines, &entity.BillOfMaterial{
		ID:                "bom-" + finishedID + "-" + rawID,
		CompanyID:         "c1",
		FinishedProductID: finishedID,
		RawProductID:      rawID,
		QuantityPerUnit:   d(qtyPerUnit),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Produce
// ──────────────────────────────────────────────────────────────────────────────

// Receta de pan: 1 unidad = 0.5 de harina (a 20) + 2 huevos (a 3).
// 10 panes → 5 harina (100) + 20 huevos (60) → costo total 160, unitario 16.
func TestProduce_ConsumeMateriasYProduceAlCostoMezclado(t *testing.T) {
	env := newProductionEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("pan", "c1", "0", "0")
	env.seedProduct("harina", "c1", "50", "20")
	env.seedProduct("huevo", "c1", "100", "3")
	env.seedRecipeLine("pan", "harina", "0.5")
	env.seedRecipeLine("pan", "huevo", "2")

	entry, err := env.uc.Produce(context.Background(), inventory.ProduceInput{
		CompanyID:         "c1",
		UserID:            "u1",
		FinishedProductID: "pan",
		Quantity:          d("10"),
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	// Materias primas consumidas.
	assert.True(t, env.state.products["harina"].StockQuantity.Equal(d("45")))
	assert.True(t, env.state.products["huevo"].StockQuantity.Equal(d("80")))

	// Terminado producido al costo mezclado.
	pan := env.state.products["pan"]
	assert.True(t, pan.StockQuantity.Equal(d("10")))
	assert.True(t, pan.CostPrice.Equal(d("16")), "costo unitario esperado 16, obtuve %s", pan.CostPrice)

	// Registro de la corrida.
	assert.True(t, entry.TotalMaterialCost.Equal(d("160")))
	assert.True(t, entry.LaborCost.IsZero())
	assert.Equal(t, "c1", entry.CompanyID)

	var consumed []entity.ConsumedItem
	require.NoError(t, json.Unmarshal(entry.ConsumedItems, &consumed))
	require.Len(t, consumed, 2)
	assert.True(t, consumed[0].Quantity.Equal(d("5")))
	assert.True(t, consumed[0].TotalCost.Equal(d("100")))
	assert.True(t, consumed[1].Quantity.Equal(d("20")))
	assert.True(t, consumed[1].TotalCost.Equal(d("60")))

	require.Len(t, env.state.production, 1)
	assert.Equal(t, entry.ID, env.state.production[0].ID)
}

func TestProduce_TodosLosMovimientosRefierenLaCorrida(t *testing.T) {
	env := newProductionEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("pan", "c1", "0", "0")
	env.seedProduct("harina", "c1", "50", "20")
	env.seedRecipeLine("pan", "harina", "1")

	entry, err := env.uc.Produce(context.Background(), inventory.ProduceInput{
		CompanyID: "c1", UserID: "u1", FinishedProductID: "pan", Quantity: d("5"),
	})
	require.NoError(t, err)

	// 1 consumo + 1 producción, todos ligados al ID de la corrida.
	require.Len(t, env.state.movements, 2)
	reasons := map[string]int{}
	for _, m := range env.state.movements {
		assert.Equal(t, entry.ID, m.ReferenceID)
		reasons[m.Reason]++
	}
	assert.Equal(t, 1, reasons[entity.ReasonProductionConsumption])
	assert.Equal(t, 1, reasons[entity.ReasonProductionOutput])

	// Propagación encolada tras el commit.
	assert.NotEmpty(t, env.queue.ops)
}

func TestProduce_SinReceta_Rechaza(t *testing.T) {
	env := newProductionEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("pan", "c1", "0", "0")

	_, err := env.uc.Produce(context.Background(), inventory.ProduceInput{
		CompanyID: "c1", UserID: "u1", FinishedProductID: "pan", Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.Empty(t, env.state.movements)
	assert.Empty(t, env.state.production)
}

func TestProduce_CantidadNoPositiva_Rechaza(t *testing.T) {
	env := newProductionEnv()
	_, err := env.uc.Produce(context.Background(), inventory.ProduceInput{
		CompanyID: "c1", UserID: "u1", FinishedProductID: "pan", Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Si una materia prima no alcanza, la corrida completa se revierte:
// ni consumos parciales, ni terminado, ni registro de producción.
func TestProduce_MateriaInsuficiente_RevierteTodo(t *testing.T) {
	env := newProductionEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("pan", "c1", "0", "0")
	env.seedProduct("harina", "c1", "50", "20")
	env.seedProduct("huevo", "c1", "5", "3") // se necesitan 20
	env.seedRecipeLine("pan", "harina", "0.5")
	env.seedRecipeLine("pan", "huevo", "2")

	_, err := env.uc.Produce(context.Background(), inventory.ProduceInput{
		CompanyID: "c1", UserID: "u1", FinishedProductID: "pan", Quantity: d("10"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback total: la harina (que sí alcanzaba) tampoco se consumió.
	assert.True(t, env.state.products["harina"].StockQuantity.Equal(d("50")))
	assert.True(t, env.state.products["huevo"].StockQuantity.Equal(d("5")))
	assert.True(t, env.state.products["pan"].StockQuantity.IsZero())
	assert.Empty(t, env.state.movements)
	assert.Empty(t, env.state.production)
	assert.Empty(t, env.queue.ops)
}

func TestProduce_ConNumeroDeLote_CreaLoteDelTerminado(t *testing.T) {
	env := newProductionEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("jarabe", "c1", "0", "0")
	env.seedProduct("base", "c1", "100", "2")
	env.seedRecipeLine("jarabe", "base", "4")

	entry, err := env.uc.Produce(context.Background(), inventory.ProduceInput{
		CompanyID:         "c1",
		UserID:            "u1",
		FinishedProductID: "jarabe",
		Quantity:          d("25"),
		BatchNumber:       "PROD-2026-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "PROD-2026-001", entry.BatchNumber)

	var batch *entity.ProductBatch
	for _, b := range env.state.batches {
		if b.ProductID == "jarabe" && b.BatchNumber == "PROD-2026-001" {
			batch = b
		}
	}
	require.NotNil(t, batch, "la corrida debe crear el lote del terminado")
	assert.True(t, batch.StockQuantity.Equal(d("25")))
}

// ──────────────────────────────────────────────────────────────────────────────
// SaveRecipeLine
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveRecipeLine_GuardaYActualiza(t *testing.T) {
	env := newProductionEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("pan", "c1", "0", "0")
	env.seedProduct("harina", "c1", "50", "20")

	line := &entity.BillOfMaterial{
		FinishedProductID: "pan",
		RawProductID:      "harina",
		QuantityPerUnit:   d("0.5"),
		Unit:              "kg",
	}
	require.NoError(t, env.uc.SaveRecipeLine(context.Background(), "c1", line))
	require.Len(t, env.state.bomLines, 1)
	assert.NotEmpty(t, line.ID)
	assert.Equal(t, "c1", line.CompanyID)

	// Upsert: misma pareja (terminado, materia) reemplaza, no duplica.
	update := &entity.BillOfMaterial{
		FinishedProductID: "pan",
		RawProductID:      "harina",
		QuantityPerUnit:   d("0.6"),
	}
	require.NoError(t, env.uc.SaveRecipeLine(context.Background(), "c1", update))
	require.Len(t, env.state.bomLines, 1)
	assert.True(t, env.state.bomLines[0].QuantityPerUnit.Equal(d("0.6")))
}

func TestSaveRecipeLine_Validaciones(t *testing.T) {
	env := newProductionEnv()
	env.seedCompany("c1", nil)
	env.seedProduct("pan", "c1", "0", "0")
	env.seedProduct("harina", "c1", "50", "20")
	ctx := context.Background()

	// Producto que se consume a sí mismo.
	err := env.uc.SaveRecipeLine(ctx, "c1", &entity.BillOfMaterial{
		FinishedProductID: "pan", RawProductID: "pan", QuantityPerUnit: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	err = env.uc.SaveRecipeLine(ctx, "c1", &entity.BillOfMaterial{
		FinishedProductID: "pan", RawProductID: "harina", QuantityPerUnit: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Materia prima inexistente.
	err = env.uc.SaveRecipeLine(ctx, "c1", &entity.BillOfMaterial{
		FinishedProductID: "pan", RawProductID: "no-existe", QuantityPerUnit: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Producto de otra empresa.
	env.seedProduct("ajeno", "c2", "10", "1")
	err = env.uc.SaveRecipeLine(ctx, "c1", &entity.BillOfMaterial{
		FinishedProductID: "pan", RawProductID: "ajeno", QuantityPerUnit: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Empty(t, env.state.bomLines)
}
