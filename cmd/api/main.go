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
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/LibroOro-api/internal/application/analytics"
	"github.com/jhoicas/LibroOro-api/internal/application/auth"
	appledger "github.com/jhoicas/LibroOro-api/internal/application/ledger"
	domledger "github.com/jhoicas/LibroOro-api/internal/domain/ledger"
	"github.com/jhoicas/LibroOro-api/internal/infrastructure/localstore"
	infrapdf "github.com/jhoicas/LibroOro-api/internal/infrastructure/pdf"
	"github.com/jhoicas/LibroOro-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/LibroOro-api/internal/interfaces/http"
	"github.com/jhoicas/LibroOro-api/pkg/config"
	"github.com/jhoicas/LibroOro-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	remoteRepo := postgres.NewTransactionRepository(pool)
	localStore := localstore.NewFileStore(cfg.Ledger.LocalCachePath)

	// Motor FIFO: la tolerancia en gramos es configurable; vacía usa el valor por defecto.
	engine := domledger.NewEngine()
	if cfg.Ledger.EpsilonGrams != "" {
		eps, err := decimal.NewFromString(cfg.Ledger.EpsilonGrams)
		if err != nil {
			log.Fatal().Err(err).Str("valor", cfg.Ledger.EpsilonGrams).Msg("tolerancia FIFO inválida")
		}
		engine = domledger.NewEngineWithTolerance(eps)
	}

	registerUC := appledger.NewRegisterTransactionUseCase(remoteRepo, localStore, log)
	reconcileUC := appledger.NewReconcileUseCase(remoteRepo, localStore, engine, log)
	syncUC := appledger.NewSyncUseCase(remoteRepo, localStore, log)
	dashboardUC := appanalytics.NewDashboardUseCase(reconcileUC)

	pdfGenerator := infrapdf.NewValuationReportGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "LibroOro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Register:     registerUC,
		Reconcile:    reconcileUC,
		Sync:         syncUC,
		AnalyticsUC:  dashboardUC,
		AuthUC:       authUC,
		PDFGenerator: pdfGenerator,
		BusinessName: cfg.App.Name,
		JWTSecret:    cfg.JWT.Secret,
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
