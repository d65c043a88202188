package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// ReplenishmentCandidate is one row of the low-stock scan: a product with
// its aggregate stock across batches and the buy price of its current price
// record (zero when the product has no price yet).
type ReplenishmentCandidate struct {
	ProductID    int64
	ProductName  string
	SupplierID   *int64
	CurrentStock decimal.Decimal
	BuyPrice     decimal.Decimal
}

// ProductRepository is the persistence port for products.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error

	// ListReplenishmentCandidates aggregates batch stock per product for the
	// low-stock scan. Read-mostly; a slightly stale snapshot is acceptable.
	ListReplenishmentCandidates(ctx context.Context) ([]ReplenishmentCandidate, error)
}

// ProductPriceRepository is the persistence port for a product's price
// history. The current price is the latest record by effective date.
type ProductPriceRepository interface {
	Create(ctx context.Context, price *entity.ProductPrice) error
	CurrentByProduct(ctx context.Context, productID int64) (*entity.ProductPrice, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductPrice, error)
}
