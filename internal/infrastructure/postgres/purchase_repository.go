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
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.PurchaseRepository      = (*PurchaseRepo)(nil)
)

// PurchaseOrderRepo implements the PurchaseOrderRepository port on
// PostgreSQL (usable with pool or tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository builds the purchase order adapter. Pass pool or tx.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, po_number, supplier_id, delivery_deadline, status, created_at, updated_at`

func scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.SupplierID, &po.DeliveryDeadline, &po.Status,
		&po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// Create inserts the purchase order header.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (po_number, supplier_id, delivery_deadline, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		po.PONumber, po.SupplierID, po.DeliveryDeadline, po.Status,
	).Scan(&po.ID, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("po number %s: %w", po.PONumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// CreateItem inserts one requested line.
func (r *PurchaseOrderRepo) CreateItem(ctx context.Context, item *entity.PurchaseOrderItem) error {
	query := `
		INSERT INTO purchase_order_items (purchase_order_id, product_id, requested_qty, buy_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.PurchaseOrderID, item.ProductID, item.RequestedQty, item.BuyPrice,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert purchase order item: %w", err)
	}
	return nil
}

// GetByID loads one purchase order header.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	po, err := scanPO(r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

// GetByNumber loads one purchase order by its PO number.
func (r *PurchaseOrderRepo) GetByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	po, err := scanPO(r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE po_number = $1`, poNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase order by number: %w", err)
	}
	return po, nil
}

// ListItems loads the order's lines.
func (r *PurchaseOrderRepo) ListItems(ctx context.Context, poID int64) ([]*entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, purchase_order_id, product_id, requested_qty, buy_price
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.RequestedQty, &it.BuyPrice); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// List returns every purchase order, newest first.
func (r *PurchaseOrderRepo) List(ctx context.Context) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, `SELECT `+poColumns+` FROM purchase_orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var pos []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		pos = append(pos, po)
	}
	return pos, rows.Err()
}

// UpdateStatus sets the order status.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the order; items cascade.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurchaseRepo implements the PurchaseRepository port on PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository builds the purchase adapter. Pass pool or tx.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create records one goods receipt.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (po_number, supplier_id, purchase_date, amount, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		nullIfEmpty(purchase.PONumber), purchase.SupplierID, purchase.Date, purchase.Amount,
	).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}
