package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fundrecords/fund-records-backend/internal/api/handlers"
	custommiddleware "github.com/fundrecords/fund-records-backend/internal/api/middleware"
	"github.com/fundrecords/fund-records-backend/internal/config"
	"github.com/fundrecords/fund-records-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	ledgerService *service.LedgerService,
	syncService *service.SyncService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(ledgerService)
			r.Get("/", transactionHandler.AllTransactions)
			r.Post("/", transactionHandler.CreateTransaction)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/fee", transactionHandler.UpdateFee)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/fund", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(ledgerService)
			r.Get("/holdings", fundHandler.Holdings)
			r.Get("/summary", fundHandler.Summary)
			r.Get("/{code}/transactions", fundHandler.FundTransactions)
			r.Put("/{code}/price", fundHandler.SetPrice)
		})

		r.Route("/data", func(r chi.Router) {
			dataHandler := handlers.NewDataHandler(ledgerService)
			r.Get("/export", dataHandler.ExportJSON)
			r.Post("/import", dataHandler.ImportJSON)
			r.Get("/export/xlsx", dataHandler.ExportWorkbook)
			r.Post("/import/xlsx", dataHandler.ImportWorkbook)
			r.Post("/reset", dataHandler.Reset)
		})

		r.Route("/sync", func(r chi.Router) {
			syncHandler := handlers.NewSyncHandler(syncService)
			r.Post("/config", syncHandler.Configure)
			r.Get("/config", syncHandler.Status)
			r.Delete("/config", syncHandler.ClearConfig)
			r.Post("/upload", syncHandler.Upload)
			r.Post("/download", syncHandler.Download)
		})
	})

	return r
}
