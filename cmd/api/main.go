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
	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/internal/domain/repository"
	"github.com/jhoicas/inventario-scan/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-scan/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-scan/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-scan/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/inventario-scan/internal/interfaces/http"
	"github.com/jhoicas/inventario-scan/pkg/config"
	"github.com/jhoicas/inventario-scan/pkg/logger"
	"github.com/jhoicas/inventario-scan/pkg/telemetry"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("storage", cfg.Storage.Driver).
		Bool("audit_strict", cfg.Audit.Strict).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	// Almacenamiento: PostgreSQL en producción, memoria para demos y desarrollo local.
	var (
		txRunner inventory.TxRunner
		repos    repository.TxRepos
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.New()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.SchemaFile != "" {
			ddl, err := os.ReadFile(cfg.DB.SchemaFile)
			if err != nil {
				log.Fatal().Err(err).Str("file", cfg.DB.SchemaFile).Msg("leer esquema")
			}
			if err := postgres.ApplySchema(ctx, pool, string(ddl)); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
			log.Info().Str("file", cfg.DB.SchemaFile).Msg("esquema aplicado")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	auditLog := inventory.NewAuditLog(cfg.Audit.Strict, log.Component("audit"))
	ledger := inventory.NewStockLedger(txRunner)
	cartUC := inventory.NewCartUseCase(repos.Carts())
	confirmUC := inventory.NewConfirmMovementUseCase(txRunner, ledger, auditLog, log.Component("confirm"))
	pendingReviewUC := inventory.NewPendingReviewUseCase(txRunner, ledger, auditLog, log.Component("pending_review"))
	queryUC := inventory.NewQueryUseCase(
		repos.Movements(), repos.PendingReviews(), repos.Audit(),
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
	)

	var sched *scheduler.Scheduler
	if cfg.Reconcile.Enabled {
		reconcileUC := inventory.NewReconcileUseCase(repos.Movements(), pendingReviewUC, cfg.Reconcile.BatchSize, log.Component("reconcile"))
		sched = scheduler.New(cfg.Reconcile.Cron, reconcileUC, log.Component("scheduler"))
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("agendar reconciliación")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Scan API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CartUC:          cartUC,
		ConfirmUC:       confirmUC,
		PendingReviewUC: pendingReviewUC,
		QueryUC:         queryUC,
		JWTSecret:       cfg.JWT.Secret,
		JWTIssuer:       cfg.JWT.Issuer,
		Logger:          log.Component("http"),
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

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
