package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-inventario/internal/application/auth"
	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/application/usecase"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	Engine       *inventory.MovementEngine
	Costs        *inventory.CostEngine
	Kits         *inventory.KitResolver
	Kardex       *inventory.KardexUseCase
	Stock        *inventory.StockQuery
	Serials      *inventory.SerialRegistry
	Transfers    *inventory.TransferCoordinator
	TransferRepo repository.TransferRepository
	JWTSecret    string
}

// Router registra las rutas de la API. Las mutaciones de catálogo son de
// admin; las operaciones de inventario son de admin y bodeguero; las
// consultas y la venta de seriales incluyen al vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	soloAdmin := RequireRole(entity.RoleAdmin)
	bodega := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	venta := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", soloAdmin, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", soloAdmin, productHandler.Update)
	products.Delete("/:id", soloAdmin, productHandler.Delete)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", soloAdmin, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", soloAdmin, warehouseHandler.Update)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Costs, deps.Kits, deps.Kardex, deps.Stock)
	invGroup.Post("/entradas", bodega, inventoryHandler.Entrada)
	invGroup.Post("/salidas", bodega, inventoryHandler.Salida)
	invGroup.Get("/costo", inventoryHandler.Costo)
	invGroup.Post("/kits/:id/disponibilidad", inventoryHandler.KitDisponibilidad)
	invGroup.Get("/kits/:id/costo", inventoryHandler.KitCosto)
	invGroup.Get("/kardex/:id", inventoryHandler.Kardex)
	invGroup.Get("/kardex/:id/pdf", inventoryHandler.KardexPDF)
	invGroup.Get("/stock/:id", inventoryHandler.StockDisponibilidad)
	invGroup.Get("/bodegas/:id/stock", inventoryHandler.StockPorBodega)

	// Serials
	serials := protected.Group("/serials")
	serialHandler := NewSerialHandler(deps.Serials)
	serials.Post("/", bodega, serialHandler.Registrar)
	serials.Post("/vender", venta, serialHandler.Vender)
	serials.Post("/devolver", venta, serialHandler.Devolver)

	// Transfers
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Transfers, deps.TransferRepo)
	transfers.Post("/", bodega, transferHandler.Create)
	transfers.Post("/:id/revert", bodega, transferHandler.Revert)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
}
