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

var _ repository.LowStockItemRepository = (*LowStockItemRepo)(nil)

// LowStockItemRepo implements the LowStockItemRepository port on PostgreSQL
// (usable with pool or tx). The unique (product_id, supplier_id) constraint
// carries the idempotence.
type LowStockItemRepo struct {
	q Querier
}

// NewLowStockItemRepository builds the low-stock persistence adapter. Pass
// pool or tx.
func NewLowStockItemRepository(q Querier) *LowStockItemRepo {
	return &LowStockItemRepo{q: q}
}

// FirstOrCreate inserts the item unless the (product, supplier) pair already
// has a row; ON CONFLICT DO NOTHING keeps the race on the constraint, not in
// application code. Returns the surviving row's id and whether this call
// created it.
func (r *LowStockItemRepo) FirstOrCreate(ctx context.Context, item *entity.LowStockItem) (int64, bool, error) {
	insert := `
		INSERT INTO low_stock_items (product_id, supplier_id, requested_qty, buy_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (product_id, supplier_id) DO NOTHING
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, insert,
		item.ProductID, item.SupplierID, item.RequestedQty, item.BuyPrice, item.Status,
	).Scan(&id)
	if err == nil {
		item.ID = id
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("insert low stock item: %w", err)
	}

	// conflict path: the pair exists, read the surviving row
	err = r.q.QueryRow(ctx,
		`SELECT id FROM low_stock_items WHERE product_id = $1 AND supplier_id = $2`,
		item.ProductID, item.SupplierID,
	).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("get low stock item: %w", err)
	}
	item.ID = id
	return id, false, nil
}

// Create inserts the item; duplicate pairs are rejected.
func (r *LowStockItemRepo) Create(ctx context.Context, item *entity.LowStockItem) error {
	query := `
		INSERT INTO low_stock_items (product_id, supplier_id, requested_qty, buy_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		item.ProductID, item.SupplierID, item.RequestedQty, item.BuyPrice, item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product %d already requested from supplier %d: %w",
				item.ProductID, item.SupplierID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert low stock item: %w", err)
	}
	return nil
}

// List returns every replenishment request, newest first.
func (r *LowStockItemRepo) List(ctx context.Context) ([]*entity.LowStockItem, error) {
	query := `
		SELECT id, product_id, supplier_id, requested_qty, buy_price, status, created_at, updated_at
		FROM low_stock_items ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	defer rows.Close()
	var items []*entity.LowStockItem
	for rows.Next() {
		var it entity.LowStockItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.SupplierID, &it.RequestedQty, &it.BuyPrice,
			&it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// MarkSent flips the pair's row to Sent, inserting one as Sent when no row
// exists yet.
func (r *LowStockItemRepo) MarkSent(ctx context.Context, item *entity.LowStockItem) error {
	query := `
		INSERT INTO low_stock_items (product_id, supplier_id, requested_qty, buy_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (product_id, supplier_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = now()
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.ProductID, item.SupplierID, item.RequestedQty, item.BuyPrice, entity.LowStockStatusSent,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("mark low stock item sent: %w", err)
	}
	return nil
}
