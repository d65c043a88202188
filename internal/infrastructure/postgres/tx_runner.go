package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmstock/pharmstock-api/internal/application/billing"
	"github.com/pharmstock/pharmstock-api/internal/application/catalog"
	"github.com/pharmstock/pharmstock-api/internal/application/inventory"
	"github.com/pharmstock/pharmstock-api/internal/application/ordering"
	"github.com/pharmstock/pharmstock-api/internal/application/purchasing"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

var (
	_ ordering.TxRunner   = (*TxRunner)(nil)
	_ billing.TxRunner    = (*TxRunner)(nil)
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ catalog.TxRunner    = (*TxRunner)(nil)
	_ purchasing.TxRunner = (*TxRunner)(nil)
)

// TxRunner executes callbacks inside a PostgreSQL transaction, handing the
// callback repositories bound to that transaction. Commit on success,
// rollback on any error.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner on the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run covers order creation: header, addresses, items, stock deductions and
// the derived invoice in one transaction.
func (r *TxRunner) Run(ctx context.Context, fn func(
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	batches repository.BatchRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	companies repository.CompanyProfileRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(
			NewOrderRepository(q),
			NewInvoiceRepository(q),
			NewBatchRepository(q),
			NewProductRepository(q),
			NewCustomerRepository(q),
			NewCompanyProfileRepository(q),
		)
	})
}

// RunBilling covers standalone invoice creation.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	invoices repository.InvoiceRepository,
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	companies repository.CompanyProfileRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(
			NewInvoiceRepository(q),
			NewOrderRepository(q),
			NewCustomerRepository(q),
			NewCompanyProfileRepository(q),
		)
	})
}

// RunProcurement covers raising a purchase order and flipping its low-stock
// rows to Sent.
func (r *TxRunner) RunProcurement(ctx context.Context, fn func(
	lowStock repository.LowStockItemRepository,
	purchaseOrders repository.PurchaseOrderRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(
			NewLowStockItemRepository(q),
			NewPurchaseOrderRepository(q),
		)
	})
}

// RunCatalog covers writing a product together with its batch set.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	products repository.ProductRepository,
	batches repository.BatchRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewProductRepository(q), NewBatchRepository(q))
	})
}

// RunPurchasing covers recording a receipt and completing its purchase order.
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	purchases repository.PurchaseRepository,
	purchaseOrders repository.PurchaseOrderRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewPurchaseRepository(q), NewPurchaseOrderRepository(q))
	})
}
