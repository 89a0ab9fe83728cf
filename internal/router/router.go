package router

import (
	"time"

	"shoperp/internal/config"
	"shoperp/internal/handler"
	"shoperp/internal/middleware"
	"shoperp/internal/repository"
	"shoperp/internal/service"
	"shoperp/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
//
// db may be nil when postgres was unreachable at startup: the probe endpoints
// still come up and report the degraded state, the /api surface does not.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMin, time.Minute))

	r.GET("/", handler.Root())
	r.GET("/test", handler.StoreProbe(db, rdb))

	if db == nil {
		return r
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogSvc := service.NewCatalogService(productRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	ledgerSvc := service.NewLedgerService(saleRepo, purchaseRepo, productRepo, movementRepo, dispatcher)
	statsSvc := service.NewStatsService(productRepo, customerRepo, supplierRepo, saleRepo, purchaseRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(catalogSvc, ledgerSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc, rdb)
	statsH := handler.NewStatsHandler(statsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	api := r.Group("/api")
	{
		api.POST("/products", productsH.Create)
		api.GET("/products", productsH.List)
		api.GET("/products/:id", productsH.Get)
		api.PUT("/products/:id", productsH.Update)
		api.DELETE("/products/:id", productsH.Delete)
		api.POST("/products/:id/adjust", productsH.AdjustStock)

		api.POST("/customers", customersH.Create)
		api.GET("/customers", customersH.List)

		api.POST("/suppliers", suppliersH.Create)
		api.GET("/suppliers", suppliersH.List)

		api.POST("/sales", ledgerH.RecordSale)
		api.GET("/sales", ledgerH.ListSales)
		api.GET("/sales/:id", ledgerH.GetSale)

		api.POST("/purchases", ledgerH.RecordPurchase)
		api.GET("/purchases", ledgerH.ListPurchases)
		api.GET("/purchases/:id", ledgerH.GetPurchase)

		api.GET("/movements", ledgerH.ListMovements)
		api.GET("/stock/alerts", ledgerH.StockAlerts)

		api.GET("/stats", statsH.Overview)
	}

	return r
}
