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

	appbilling "github.com/pharmstock/pharmstock-api/internal/application/billing"
	appcatalog "github.com/pharmstock/pharmstock-api/internal/application/catalog"
	appinventory "github.com/pharmstock/pharmstock-api/internal/application/inventory"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	appordering "github.com/pharmstock/pharmstock-api/internal/application/ordering"
	apppurchasing "github.com/pharmstock/pharmstock-api/internal/application/purchasing"
	"github.com/pharmstock/pharmstock-api/internal/domain/stock"
	inframail "github.com/pharmstock/pharmstock-api/internal/infrastructure/mail"
	infrapdf "github.com/pharmstock/pharmstock-api/internal/infrastructure/pdf"
	"github.com/pharmstock/pharmstock-api/internal/infrastructure/postgres"
	httpRouter "github.com/pharmstock/pharmstock-api/internal/interfaces/http"
	"github.com/pharmstock/pharmstock-api/pkg/config"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	priceRepo := postgres.NewProductPriceRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	lowStockRepo := postgres.NewLowStockItemRepository(pool)
	purchaseOrderRepo := postgres.NewPurchaseOrderRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := notify.New(notificationRepo, log)
	pdfGenerator := infrapdf.NewMarotoInvoiceGenerator()
	mailer := inframail.NewGomailMailer(cfg.SMTP)

	numberer, err := appbilling.NewNumberer(cfg.Billing.Numbering)
	if err != nil {
		log.Fatal().Err(err).Msg("invoice numbering strategy")
	}

	billingOpts := appbilling.Options{
		CompanyProfileID: cfg.Billing.CompanyProfileID,
		Currency:         cfg.Billing.Currency,
		DueDays:          cfg.Billing.DueDays,
	}
	invoiceUC := appbilling.NewUseCase(
		invoiceRepo, customerRepo, txRunner, numberer, notifier,
		pdfGenerator, mailer, billingOpts, log,
	)

	orderUC := appordering.NewUseCase(
		orderRepo, invoiceRepo, txRunner, numberer, notifier,
		appordering.Options{
			CompanyProfileID: cfg.Billing.CompanyProfileID,
			Currency:         cfg.Billing.Currency,
			DueDays:          cfg.Billing.DueDays,
			StockPolicy:      stock.ParsePolicy(cfg.Stock.OverdraftPolicy),
		}, log,
	)

	catalogUC := appcatalog.NewUseCase(
		productRepo, batchRepo, priceRepo, txRunner, notifier, log,
	)

	lowStockUC := appinventory.NewUseCase(
		lowStockRepo, productRepo, supplierRepo, purchaseOrderRepo,
		txRunner, mailer, notifier, cfg.Stock.LowStockThreshold, log,
	)

	purchasingUC := apppurchasing.NewUseCase(
		purchaseOrderRepo, txRunner, notifier, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PharmStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:       orderUC,
		InvoiceUC:     invoiceUC,
		CatalogUC:     catalogUC,
		LowStockUC:    lowStockUC,
		PurchasingUC:  purchasingUC,
		Notifications: notificationRepo,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
