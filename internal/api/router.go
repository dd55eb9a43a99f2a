package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tregeagle/finagle/internal/api/handlers"
	custommiddleware "github.com/tregeagle/finagle/internal/api/middleware"
	"github.com/tregeagle/finagle/internal/config"
	"github.com/tregeagle/finagle/internal/service"
)

// Services bundles the services the router exposes.
type Services struct {
	System       *service.SystemService
	Users        *service.UserService
	Transactions *service.TransactionService
	Imports      *service.ImportService
	Exports      *service.ExportService
	Reports      *service.ReportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.SecurityHeaders)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	userHandler := handlers.NewUserHandler(svc.Users)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	importHandler := handlers.NewImportHandler(svc.Imports)
	exportHandler := handlers.NewExportHandler(svc.Exports)
	reportHandler := handlers.NewReportHandler(svc.Reports)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// System namespace stays open for health probes
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.APIKey(cfg.Security.APIKey))

			r.Get("/import/template", importHandler.Template)

			r.Route("/users", func(r chi.Router) {
				r.Post("/", userHandler.CreateUser)

				r.Route("/{userId}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDParam("userId"))
					r.Get("/", userHandler.GetUser)
					r.Delete("/", userHandler.DeleteUser)
					r.Get("/export", exportHandler.Export)
					r.Post("/import", importHandler.Import)

					r.Route("/transactions", func(r chi.Router) {
						r.Get("/", transactionHandler.ListTransactions)
						r.Post("/", transactionHandler.CreateTransaction)

						r.Route("/{transactionId}", func(r chi.Router) {
							r.Use(custommiddleware.ValidateUUIDParam("transactionId"))
							r.Get("/", transactionHandler.GetTransaction)
							r.Delete("/", transactionHandler.DeleteTransaction)
						})
					})

					r.Route("/reports/cgt", func(r chi.Router) {
						r.Get("/", reportHandler.Overview)
						r.Get("/{fy}", reportHandler.Detail)
					})
				})
			})
		})
	})

	return r
}
