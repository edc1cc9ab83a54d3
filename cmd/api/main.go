package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
	"github.com/jhoicas/Inventario-lotes/internal/infrastructure/events"
	"github.com/jhoicas/Inventario-lotes/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-lotes/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-lotes/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-lotes/internal/interfaces/http"
	"github.com/jhoicas/Inventario-lotes/pkg/config"
	"github.com/jhoicas/Inventario-lotes/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// ledger repositorios fuera de transacción más el runner transaccional del driver elegido.
type ledger struct {
	txRunner  inventory.TxRunner
	products  repository.ProductRepository
	slots     repository.StockSlotRepository
	slips     repository.ExitSlipRepository
	movements repository.StockMovementRepository
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
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openLedger(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("libro de inventario")
	}
	defer store.close()

	recorder := metrics.NewRecorder(cfg.Metrics.Namespace)

	var publisher inventory.EventPublisher
	if cfg.NATS.Enabled() {
		nc, err := events.Connect(cfg.NATS.URL, cfg.App.Name, log.Component("nats"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer nc.Drain()
		publisher = events.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix, log.Component("events"))
	} else {
		log.Warn().Msg("NATS_URL vacío: eventos de validación desactivados")
	}

	productUC := usecase.NewProductUseCase(store.products, store.slots)
	receiveUC := inventory.NewReceiveLotUseCase(store.txRunner, recorder, log.Component("reception"))
	exitSlipUC := inventory.NewExitSlipUseCase(store.txRunner, store.slips)
	validateUC := inventory.NewValidateExitSlipUseCase(store.txRunner, publisher, recorder, log.Component("fifo"))
	searchUC := inventory.NewSearchMovementsUseCase(store.movements)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(recorder.Middleware())

	// Swagger UI en http://localhost:<port>/docs, solo si el documento fue generado.
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario por lotes API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:       productUC,
		ReceiveLot:      receiveUC,
		ExitSlipUC:      exitSlipUC,
		ValidateSlip:    validateUC,
		SearchMovements: searchUC,
		JWTSecret:       cfg.JWT.Secret,
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

// openLedger abre PostgreSQL (con migraciones opcionales) o el libro en memoria.
func openLedger(ctx context.Context, cfg *config.Config, log *logger.Logger) (*ledger, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &ledger{
			txRunner:  s,
			products:  s.Products(),
			slots:     s.StockSlots(),
			slips:     s.ExitSlips(),
			movements: s.StockMovements(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		mg, err := postgres.NewMigrator(pool, log.Component("migrate"))
		if err != nil {
			pool.Close()
			return nil, err
		}
		err = mg.Up()
		_ = mg.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &ledger{
		txRunner:  postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		slots:     postgres.NewStockSlotRepository(pool),
		slips:     postgres.NewExitSlipRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		close:     pool.Close,
	}, nil
}
