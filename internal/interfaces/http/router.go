package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	Ledger      *inventory.LedgerUseCase
	Resolver    *inventory.StockResolver
	CreateSale  *sales.CreateSaleUseCase
	SaleQuery   *sales.QueryUseCase
	Receipt     *sales.ReceiptUseCase
	AnalyticsUC *analytics.AnalyticsUseCase
	JWTSecret   string
	JWTIssuer   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(RoleAdmin, RoleWarehouse), productHandler.Create)
	products.Put("/:id", RequireRole(RoleAdmin, RoleWarehouse), productHandler.Update)

	// Inventory ledger
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Resolver, deps.AnalyticsUC)
	invGroup.Post("/stock-in", RequireRole(RoleAdmin, RoleWarehouse), inventoryHandler.StockIn)
	invGroup.Post("/adjustments", RequireRole(RoleAdmin), inventoryHandler.Adjustment)
	invGroup.Get("/transactions", inventoryHandler.ListTransactions)
	invGroup.Get("/stock/:product_id", inventoryHandler.GetStock)
	invGroup.Get("/valuation", RequireRole(RoleAdmin), inventoryHandler.Valuation)

	// Sales. Analytics se registra antes de /:id para que no lo capture.
	salesGroup := protected.Group("/sales")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	reports := salesGroup.Group("/analytics", RequireRole(RoleAdmin))
	reports.Get("/overview", analyticsHandler.Overview)
	reports.Get("/product-performance", analyticsHandler.ProductPerformance)
	reports.Get("/sales-trend", analyticsHandler.SalesTrend)
	reports.Get("/monthly-trend", analyticsHandler.MonthlyTrend)
	reports.Get("/profit-summary", analyticsHandler.ProfitSummary)
	reports.Get("/category-performance", analyticsHandler.CategoryPerformance)
	reports.Get("/brand-performance", analyticsHandler.BrandPerformance)

	saleHandler := NewSaleHandler(deps.CreateSale, deps.SaleQuery, deps.Receipt)
	salesGroup.Post("/", RequireRole(RoleAdmin, RoleCashier), saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}
