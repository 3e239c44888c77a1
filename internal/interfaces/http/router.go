package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC    *usecase.CompanyUseCase
	ProductUC    *usecase.ProductUseCase
	Ledger       *inventory.StockLedger
	Allocator    *inventory.BatchAllocator
	ProductionUC *inventory.ProductionUseCase
	Movements    repository.StockMovementRepository
	Production   repository.ProductionRepository
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (creación y lectura públicas para el alta inicial)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Corte del período contable (solo admin)
	protected.Put("/companies/:id/period-lock", RequireRole(entity.RoleAdmin), companyHandler.LockPeriod)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Get("/:id/batches", productHandler.ListBatches)

	// Kardex (protegido)
	invGroup := protected.Group("/inventory")
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Movements)
	invGroup.Post("/movements", ledgerHandler.RegisterMovement)
	invGroup.Get("/products/:id/movements", ledgerHandler.ListMovements)

	// Asignación FEFO (protegido)
	allocationHandler := NewAllocationHandler(deps.Allocator)
	invGroup.Post("/allocate", allocationHandler.Allocate)

	// Producción (protegido; registrar corridas requiere admin o bodeguero)
	productionHandler := NewProductionHandler(deps.ProductionUC, deps.Production)
	production := protected.Group("/production")
	production.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productionHandler.Produce)
	production.Get("/", productionHandler.ListEntries)
	protected.Put("/products/:id/recipe", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productionHandler.SaveRecipeLine)
}
