package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.ProductPriceRepository = (*ProductPriceRepo)(nil)
)

// ProductRepo implements the ProductRepository port on PostgreSQL (usable
// with pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the product persistence adapter. Pass pool or tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, COALESCE(sku, ''), COALESCE(product_code, ''), max_stock, COALESCE(category_id, 0),
	supplier_id, COALESCE(hsn_code, ''), gst_rate, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.ProductCode, &p.MaxStock, &p.CategoryID,
		&p.SupplierID, &p.HSNCode, &p.GSTRate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts one product.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (name, sku, product_code, max_stock, category_id, supplier_id, hsn_code, gst_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0), $6, $7, $8, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		product.Name, nullIfEmpty(product.SKU), nullIfEmpty(product.ProductCode), product.MaxStock,
		product.CategoryID, product.SupplierID, nullIfEmpty(product.HSNCode), product.GSTRate,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID loads one product.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU loads one product by its SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update rewrites the mutable product fields.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products
		SET name = $2, max_stock = $3, category_id = NULLIF($4, 0), supplier_id = $5, hsn_code = $6, gst_rate = $7, updated_at = now()
		WHERE id = $1`,
		product.ID, product.Name, product.MaxStock, product.CategoryID, product.SupplierID,
		nullIfEmpty(product.HSNCode), product.GSTRate)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns a page of products, newest first.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Delete removes the product; its batches cascade.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListReplenishmentCandidates aggregates batch stock per product and joins
// the latest price record for its buy price. Products without batches count
// as zero stock; products without prices as zero buy price.
func (r *ProductRepo) ListReplenishmentCandidates(ctx context.Context) ([]repository.ReplenishmentCandidate, error) {
	query := `
		SELECT p.id, p.name, p.supplier_id,
		       COALESCE(b.total_stock, 0) AS current_stock,
		       COALESCE(pp.buy_price, 0) AS buy_price
		FROM products p
		LEFT JOIN (
			SELECT product_id, SUM(stock_level) AS total_stock
			FROM batches GROUP BY product_id
		) b ON b.product_id = p.id
		LEFT JOIN LATERAL (
			SELECT buy_price FROM product_prices
			WHERE product_id = p.id
			ORDER BY effective_date DESC, id DESC
			LIMIT 1
		) pp ON true
		ORDER BY p.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list replenishment candidates: %w", err)
	}
	defer rows.Close()
	var out []repository.ReplenishmentCandidate
	for rows.Next() {
		var c repository.ReplenishmentCandidate
		if err := rows.Scan(&c.ProductID, &c.ProductName, &c.SupplierID, &c.CurrentStock, &c.BuyPrice); err != nil {
			return nil, fmt.Errorf("scan replenishment candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ProductPriceRepo implements the ProductPriceRepository port on PostgreSQL.
type ProductPriceRepo struct {
	q Querier
}

// NewProductPriceRepository builds the price persistence adapter. Pass pool or tx.
func NewProductPriceRepository(q Querier) *ProductPriceRepo {
	return &ProductPriceRepo{q: q}
}

const priceColumns = `id, product_id, buy_price, sell_price, COALESCE(discount_type, ''), discount_value, effective_date, created_at`

func scanPrice(row pgx.Row) (*entity.ProductPrice, error) {
	var p entity.ProductPrice
	err := row.Scan(&p.ID, &p.ProductID, &p.BuyPrice, &p.SellPrice, &p.DiscountType,
		&p.DiscountValue, &p.EffectiveDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create appends one price record.
func (r *ProductPriceRepo) Create(ctx context.Context, price *entity.ProductPrice) error {
	query := `
		INSERT INTO product_prices (product_id, buy_price, sell_price, discount_type, discount_value, effective_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		price.ProductID, price.BuyPrice, price.SellPrice, nullIfEmpty(price.DiscountType),
		price.DiscountValue, price.EffectiveDate,
	).Scan(&price.ID, &price.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product price: %w", err)
	}
	return nil
}

// CurrentByProduct returns the latest price record by effective date.
func (r *ProductPriceRepo) CurrentByProduct(ctx context.Context, productID int64) (*entity.ProductPrice, error) {
	query := `SELECT ` + priceColumns + ` FROM product_prices WHERE product_id = $1 ORDER BY effective_date DESC, id DESC LIMIT 1`
	p, err := scanPrice(r.q.QueryRow(ctx, query, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("current price: %w", err)
	}
	return p, nil
}

// ListByProduct returns the full price history, newest first.
func (r *ProductPriceRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductPrice, error) {
	query := `SELECT ` + priceColumns + ` FROM product_prices WHERE product_id = $1 ORDER BY effective_date DESC, id DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()
	var prices []*entity.ProductPrice
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
