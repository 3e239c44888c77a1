package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a UNA transacción de BD.
// El kardex usa Movements/Products/Batches/Journal; producción añade BOM y Production.
type TxRepos struct {
	Movements  repository.StockMovementRepository
	Products   repository.ProductRepository
	Batches    repository.BatchRepository
	Journal    repository.JournalRepository
	BOM        repository.BillOfMaterialRepository
	Production repository.ProductionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: si fn retorna error se
// hace Rollback, si no Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// SyncQueue acepta operaciones idempotentes de propagación hacia el backend
// remoto. NUNCA se invoca dentro de una transacción sin commit: encolar antes
// del commit propagaría movimientos que después pueden revertirse.
type SyncQueue interface {
	Enqueue(ops []*entity.SyncOperation) error
}
