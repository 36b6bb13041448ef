package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"bizledger/internal/domain/account"
	"bizledger/internal/domain/business"
	"bizledger/internal/domain/customer"
	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/ledger"
	"bizledger/internal/domain/notification"
	"bizledger/internal/domain/product"
	"bizledger/internal/domain/report"
	"bizledger/internal/domain/transaction"
	"bizledger/internal/infrastructure/postgres"
	"bizledger/internal/infrastructure/postgres/listener"
	"bizledger/internal/infrastructure/whatsapp"
	httphandlers "bizledger/internal/interfaces/http"
	"bizledger/internal/shared/auth"
	"bizledger/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	TransactionHandler *httphandlers.TransactionHandler
	InvoiceHandler     *httphandlers.InvoiceHandler
	ProductHandler     *httphandlers.ProductHandler
	CustomerHandler    *httphandlers.CustomerHandler
	AccountHandler     *httphandlers.AccountHandler
	ReportHandler      *httphandlers.ReportHandler
	BusinessHandler    *httphandlers.BusinessHandler

	// Auth
	JWT      *auth.JWT
	Business *business.Service

	// Paid-invoice listener, nil when disabled
	Listener *listener.InvoiceListener
}

// NewDependencies connects to the database, applies pending migrations and
// builds every service and handler.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// Repositories
	businessRepo := postgres.NewBusinessRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	productRepo := postgres.NewProductRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Domain services
	businessService := business.NewService(businessRepo)
	transactionService := transaction.NewService(transactionRepo, accountRepo)
	invoiceService := invoice.NewService(invoiceRepo, productRepo, customerRepo)
	reconciler := invoice.NewReconciler(invoiceRepo)
	productService := product.NewService(productRepo, accountRepo)
	customerService := customer.NewService(customerRepo)
	accountService := account.NewService(accountRepo)
	reportService := report.NewService(
		transactionRepo,
		invoiceRepo,
		productRepo,
		customerRepo,
		ledger.Options{IncludeIncomeTransactions: cfg.Reporting.IncludeIncomeTransactions},
		cfg.Reporting.Location,
	)

	var messenger notification.Messenger
	if cfg.WhatsApp.APIURL != "" {
		messenger = whatsapp.NewClient(cfg.WhatsApp.APIURL, cfg.WhatsApp.APIToken, cfg.WhatsApp.Timeout)
	} else {
		log.Warn().Msg("WHATSAPP_API_URL not set, invoice messaging disabled")
	}
	notificationService := notification.NewService(
		messageRepo,
		invoiceRepo,
		customerRepo,
		businessRepo,
		messenger,
		cfg.Reporting.CurrencySymbol,
	)

	deps := &Dependencies{
		DB:                 db,
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService),
		InvoiceHandler:     httphandlers.NewInvoiceHandler(invoiceService, reconciler, notificationService),
		ProductHandler:     httphandlers.NewProductHandler(productService),
		CustomerHandler:    httphandlers.NewCustomerHandler(customerService),
		AccountHandler:     httphandlers.NewAccountHandler(accountService),
		ReportHandler:      httphandlers.NewReportHandler(reportService, cfg.Reporting.CurrencySymbol),
		BusinessHandler:    httphandlers.NewBusinessHandler(businessService),
		JWT:                auth.NewJWT(cfg.JWT.Secret),
		Business:           businessService,
	}

	if cfg.Listener.Enabled {
		deps.Listener = listener.NewInvoiceListener(cfg.Database.ConnectionString(), notificationService)
	}

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
