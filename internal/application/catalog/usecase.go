// Package catalog implements product maintenance: CRUD, the replace-all
// batch reconciliation and the append-only price history.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/reconcile"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
	"github.com/pharmstock/pharmstock-api/internal/domain/stock"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

// UseCase drives product maintenance.
type UseCase struct {
	products repository.ProductRepository
	batches  repository.BatchRepository
	prices   repository.ProductPriceRepository
	txRunner TxRunner
	notifier *notify.Notifier
	log      *logger.Logger
}

// NewUseCase builds the catalog use case.
func NewUseCase(
	products repository.ProductRepository,
	batches repository.BatchRepository,
	prices repository.ProductPriceRepository,
	txRunner TxRunner,
	notifier *notify.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		products: products,
		batches:  batches,
		prices:   prices,
		txRunner: txRunner,
		notifier: notifier,
		log:      log,
	}
}

// Create inserts the product with its initial batches. Batch statuses are
// classified against the product's max stock before the write.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	if !req.MaxStock.IsPositive() {
		return nil, fmt.Errorf("max_stock must be positive: %w", domain.ErrInvalidInput)
	}

	product := &entity.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		ProductCode: req.ProductCode,
		MaxStock:    req.MaxStock,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
		HSNCode:     req.HSNCode,
		GSTRate:     req.GSTRate,
	}
	var created []*entity.Batch
	err := uc.txRunner.RunCatalog(ctx, func(
		products repository.ProductRepository,
		batches repository.BatchRepository,
	) error {
		if err := products.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		for _, in := range req.Batches {
			batch := batchFromInput(product.ID, product.MaxStock, in)
			if err := batches.Create(ctx, batch); err != nil {
				return fmt.Errorf("create batch %s: %w", in.BatchNumber, err)
			}
			created = append(created, batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Emit(ctx, actor, notify.EventProductCreated,
		"Product Added",
		"{{performer_name}} added product {{product}} at {{timestamp}}.",
		map[string]string{"product": product.Name})

	return toProductResponse(product, created, nil), nil
}

// Update rewrites product fields and reconciles its batch set against the
// request: unknown ids are created, known ids updated, missing ids deleted.
// All of it commits together.
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	if !req.MaxStock.IsPositive() {
		return nil, fmt.Errorf("max_stock must be positive: %w", domain.ErrInvalidInput)
	}

	var (
		product *entity.Product
		final   []*entity.Batch
	)
	err := uc.txRunner.RunCatalog(ctx, func(
		products repository.ProductRepository,
		batches repository.BatchRepository,
	) error {
		var err error
		product, err = products.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("product %d: %w", id, err)
		}
		product.Name = req.Name
		product.MaxStock = req.MaxStock
		product.CategoryID = req.CategoryID
		product.SupplierID = req.SupplierID
		product.HSNCode = req.HSNCode
		product.GSTRate = req.GSTRate
		if err := products.Update(ctx, product); err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}

		existing, err := batches.ListByProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product %d batches: %w", id, err)
		}
		incoming := make([]*entity.Batch, 0, len(req.Batches))
		for _, in := range req.Batches {
			incoming = append(incoming, batchFromInput(id, product.MaxStock, in))
		}

		diff := reconcile.Diff(existing, incoming)
		for _, batch := range diff.Added {
			if err := batches.Create(ctx, batch); err != nil {
				return fmt.Errorf("create batch %s: %w", batch.BatchNumber, err)
			}
		}
		for _, batch := range diff.Updated {
			if err := batches.Update(ctx, batch); err != nil {
				return fmt.Errorf("update batch %d: %w", batch.ID, err)
			}
		}
		if len(diff.Removed) > 0 {
			if err := batches.Delete(ctx, diff.Removed); err != nil {
				return fmt.Errorf("delete batches %v: %w", diff.Removed, err)
			}
		}
		final = append(diff.Updated, diff.Added...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.Emit(ctx, actor, notify.EventProductUpdated,
		"Product Updated",
		"{{performer_name}} updated product {{product}} at {{timestamp}}.",
		map[string]string{"product": product.Name})

	return toProductResponse(product, final, nil), nil
}

// Get loads the product with its batches and current price.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	batches, err := uc.batches.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d batches: %w", id, err)
	}
	price, err := uc.prices.CurrentByProduct(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("product %d price: %w", id, err)
	}
	return toProductResponse(product, batches, price), nil
}

// List returns a page of products without children.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p, nil, nil))
	}
	return out, nil
}

// Delete removes the product; batches go with it.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.products.GetByID(ctx, id); err != nil {
		return fmt.Errorf("product %d: %w", id, err)
	}
	if err := uc.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// SetPrice appends a price record effective now. History is append-only;
// the latest record wins.
func (uc *UseCase) SetPrice(ctx context.Context, actor entity.Actor, productID int64, req dto.SetPriceRequest) (*dto.PriceResponse, error) {
	if req.BuyPrice.IsNegative() || req.SellPrice.IsNegative() || req.DiscountValue.IsNegative() {
		return nil, fmt.Errorf("prices cannot be negative: %w", domain.ErrInvalidInput)
	}
	switch req.DiscountType {
	case "", entity.DiscountTypePercentage, entity.DiscountTypeFixed:
	default:
		return nil, fmt.Errorf("unknown discount type %q: %w", req.DiscountType, domain.ErrInvalidInput)
	}
	if _, err := uc.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, err)
	}

	price := &entity.ProductPrice{
		ProductID:     productID,
		BuyPrice:      req.BuyPrice,
		SellPrice:     req.SellPrice,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		EffectiveDate: time.Now(),
	}
	if err := uc.prices.Create(ctx, price); err != nil {
		return nil, fmt.Errorf("set price for product %d: %w", productID, err)
	}

	uc.notifier.Emit(ctx, actor, notify.EventPriceSet,
		"Price Updated",
		"{{performer_name}} set a new price for product #{{product_id}} at {{timestamp}}.",
		map[string]string{"product_id": fmt.Sprintf("%d", productID)})

	return toPriceResponse(price), nil
}

func batchFromInput(productID int64, maxStock decimal.Decimal, in dto.BatchInput) *entity.Batch {
	batch := &entity.Batch{
		ID:          in.ID,
		ProductID:   productID,
		BatchNumber: in.BatchNumber,
		StockLevel:  in.StockLevel,
		HasExpiry:   in.HasExpiry,
		Status:      stock.Classify(in.StockLevel, maxStock),
	}
	if in.HasExpiry {
		batch.ExpiryDate = in.ExpiryDate
	}
	return batch
}

func toProductResponse(p *entity.Product, batches []*entity.Batch, price *entity.ProductPrice) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		ProductCode: p.ProductCode,
		MaxStock:    p.MaxStock,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		HSNCode:     p.HSNCode,
		GSTRate:     p.GSTRate,
	}
	for _, b := range batches {
		resp.Batches = append(resp.Batches, dto.BatchResponse{
			ID:          b.ID,
			BatchNumber: b.BatchNumber,
			StockLevel:  b.StockLevel,
			ExpiryDate:  b.ExpiryDate,
			HasExpiry:   b.HasExpiry,
			Status:      b.Status,
		})
	}
	if price != nil {
		resp.Price = toPriceResponse(price)
	}
	return resp
}

func toPriceResponse(p *entity.ProductPrice) *dto.PriceResponse {
	return &dto.PriceResponse{
		BuyPrice:      p.BuyPrice,
		SellPrice:     p.SellPrice,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		FinalPrice:    p.FinalPrice(),
	}
}
