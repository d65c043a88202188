// One-shot replenishment scan, for cron. Same logic the API exposes at
// POST /api/low-stock/generate.
package main

import (
	"context"
	"time"

	appinventory "github.com/pharmstock/pharmstock-api/internal/application/inventory"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	inframail "github.com/pharmstock/pharmstock-api/internal/infrastructure/mail"
	"github.com/pharmstock/pharmstock-api/internal/infrastructure/postgres"
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	lowStockRepo := postgres.NewLowStockItemRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	purchaseOrderRepo := postgres.NewPurchaseOrderRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	uc := appinventory.NewUseCase(
		lowStockRepo, productRepo, supplierRepo, purchaseOrderRepo,
		txRunner, inframail.NewGomailMailer(cfg.SMTP),
		notify.New(notificationRepo, log),
		cfg.Stock.LowStockThreshold, log,
	)

	out, err := uc.Generate(ctx, entity.Actor{ID: 0, Name: "Scheduler"})
	if err != nil {
		log.Fatal().Err(err).Msg("replenishment scan")
	}

	log.Info().
		Int("created", out.Created).
		Int("flagged", len(out.IDs)).
		Msg("replenishment scan complete")
}
