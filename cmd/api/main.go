package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/ports"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	infracache "github.com/jhoicas/pos-inventario/internal/infrastructure/cache"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-inventario/internal/interfaces/http"
	"github.com/jhoicas/pos-inventario/pkg/config"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// storage repositorios y transacciones del driver elegido.
type storage struct {
	tx interface {
		inventory.TxRunner
		sales.TxRunner
	}
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	sales     repository.SaleRepository
	analytics repository.AnalyticsRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	reportCache := openReportCache(ctx, cfg, log)

	ledgerUC := inventory.NewLedgerUseCase(store.tx, store.movements, reportCache, log)
	resolver := inventory.NewStockResolver(store.movements, store.products)
	productUC := usecase.NewProductUseCase(store.products, store.movements)
	createSaleUC := sales.NewCreateSaleUseCase(store.tx, reportCache, log, sales.SaleConfig{
		Location:        loc,
		InvoiceAttempts: cfg.Sales.InvoiceRetries,
	})
	saleQueryUC := sales.NewQueryUseCase(store.sales)
	receiptUC := sales.NewReceiptUseCase(saleQueryUC, infrapdf.NewMarotoReceiptGenerator(), sales.ReceiptInfo{
		StoreName: cfg.App.Name,
		Timezone:  cfg.App.Timezone,
	})
	analyticsUC := analytics.NewAnalyticsUseCase(store.analytics, store.movements, reportCache, log, analytics.Config{
		Location:          loc,
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.StorageDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		Ledger:      ledgerUC,
		Resolver:    resolver,
		CreateSale:  createSaleUC,
		SaleQuery:   saleQueryUC,
		Receipt:     receiptUC,
		AnalyticsUC: analyticsUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta PostgreSQL (aplicando el esquema) o crea el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.New()
		return &storage{
			tx:        mem,
			products:  mem.Products(),
			movements: mem.Movements(),
			sales:     mem.Sales(),
			analytics: mem.Analytics(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		tx:        postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		close:     pool.Close,
	}, nil
}

// openReportCache usa Redis si REDIS_ADDR está definido y responde; si no, reportes sin caché.
func openReportCache(ctx context.Context, cfg *config.Config, log *logger.Logger) ports.ReportCache {
	if cfg.Redis.Addr == "" {
		return ports.NoopReportCache{}
	}
	rc := infracache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL())
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, reportes sin caché")
		_ = rc.Close()
		return ports.NoopReportCache{}
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de reportes en redis")
	return rc
}
