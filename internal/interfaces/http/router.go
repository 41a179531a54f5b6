package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/LibroOro-api/internal/application/analytics"
	"github.com/jhoicas/LibroOro-api/internal/application/auth"
	appledger "github.com/jhoicas/LibroOro-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Register     *appledger.RegisterTransactionUseCase
	Reconcile    *appledger.ReconcileUseCase
	Sync         *appledger.SyncUseCase
	AnalyticsUC  *analytics.DashboardUseCase
	AuthUC       *auth.AuthUseCase
	PDFGenerator ValuationPDFGenerator
	BusinessName string
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

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Transacciones y libro (protegido)
	ledgerHandler := NewLedgerHandler(deps.Register, deps.Reconcile, deps.Sync)
	protected.Post("/transactions", ledgerHandler.CreateTransaction)

	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Get("/reconcile", ledgerHandler.Reconcile)
	ledgerGroup.Get("/lots", ledgerHandler.Lots)
	ledgerGroup.Post("/sync", ledgerHandler.Sync)

	// Analytics (protegido)
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analyticsGroup.Get("/dashboard", analyticsHandler.Dashboard)

	// Reportes (protegido, solo admin descarga valoración)
	reports := protected.Group("/reports", RequireRole("admin"))
	reportHandler := NewReportHandler(deps.Reconcile, deps.PDFGenerator, deps.BusinessName)
	reports.Get("/valuation", reportHandler.ValuationPDF)
}
