package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	httphandlers "bizledger/internal/interfaces/http"
	"bizledger/internal/shared/config"
	"bizledger/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.Server.AllowedHosts))
	r.Use(middleware.SecurityHeaders(cfg.TLS.Enabled))
	if cfg.Telemetry.Enabled {
		r.Use(middleware.Tracing)
	}

	r.Get("/health", httphandlers.HandleHealth(deps.DB))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(deps.JWT))

		// Onboarding runs before the caller has a business to resolve.
		r.Post("/business", deps.BusinessHandler.HandleCreate)

		r.Group(func(r chi.Router) {
			r.Use(httphandlers.ResolveBusiness(deps.Business))

			r.Get("/business", deps.BusinessHandler.HandleGet)
			r.Patch("/business", deps.BusinessHandler.HandleUpdate)
			r.Get("/dashboard", deps.ReportHandler.HandleDashboard)
			r.Get("/reports", deps.ReportHandler.HandleReport)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", deps.TransactionHandler.HandleList)
				r.Post("/", deps.TransactionHandler.HandleCreate)
				r.Delete("/{id}", deps.TransactionHandler.HandleDelete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", deps.InvoiceHandler.HandleList)
				r.Post("/", deps.InvoiceHandler.HandleCreate)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deps.InvoiceHandler.HandleGet)
					r.Patch("/", deps.InvoiceHandler.HandleUpdate)
					r.Delete("/", deps.InvoiceHandler.HandleDelete)
					r.Get("/payments", deps.InvoiceHandler.HandleListPayments)
					r.Post("/payments", deps.InvoiceHandler.HandleRecordPayment)
					r.Post("/mark-paid", deps.InvoiceHandler.HandleMarkPaid)
					r.Post("/send", deps.InvoiceHandler.HandleSend)
					r.Get("/messages", deps.InvoiceHandler.HandleListMessages)
				})
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", deps.ProductHandler.HandleList)
				r.Post("/", deps.ProductHandler.HandleCreate)
				r.Get("/{id}", deps.ProductHandler.HandleGet)
				r.Get("/{id}/movements", deps.ProductHandler.HandleListMovements)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", deps.CustomerHandler.HandleList)
				r.Post("/", deps.CustomerHandler.HandleCreate)
				r.Get("/{id}", deps.CustomerHandler.HandleGet)
				r.Delete("/{id}", deps.CustomerHandler.HandleDelete)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", deps.AccountHandler.HandleList)
				r.Post("/", deps.AccountHandler.HandleCreate)
				r.Get("/balances", deps.AccountHandler.HandleBalances)
				r.Get("/{id}", deps.AccountHandler.HandleGet)
				r.Patch("/{id}", deps.AccountHandler.HandleUpdate)
				r.Delete("/{id}", deps.AccountHandler.HandleDelete)
			})
		})
	})

	var handler http.Handler = r
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(handler)
	}
	if cfg.TLS.Enabled {
		log.Info().Msg("TLS security headers enabled")
	}
	return handler
}
