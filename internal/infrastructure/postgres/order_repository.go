package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implements the OrderRepository port on PostgreSQL (usable with
// pool or tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository builds the order persistence adapter. Pass pool or tx.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserts the order header and fills in the generated id.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (customer_id, order_date, amount, payment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		order.CustomerID, order.Date, order.Amount, order.Payment, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("customer %d: %w", order.CustomerID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem inserts one order line.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, batch_id, quantity, unit_price, subtotal, hsn_code, gst_rate, cgst_rate, sgst_rate, igst_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.BatchID, item.Quantity, item.UnitPrice,
		item.Subtotal, item.HSNCode, item.GSTRate, item.CGSTRate, item.SGSTRate, item.IGSTRate,
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("product %d: %w", item.ProductID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// CreateAddress inserts a billing or shipping address for the order.
func (r *OrderRepo) CreateAddress(ctx context.Context, addr *entity.OrderAddress) error {
	query := `
		INSERT INTO order_addresses (order_id, type, name, email, phone, address_line1, address_line2, city, state, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		addr.OrderID, addr.Type, addr.Name, nullIfEmpty(addr.Email), nullIfEmpty(addr.Phone),
		addr.AddressLine1, nullIfEmpty(addr.AddressLine2), addr.City, addr.State,
		nullIfEmpty(addr.PostalCode), nullIfEmpty(addr.Country),
	).Scan(&addr.ID)
	if err != nil {
		return fmt.Errorf("insert order address: %w", err)
	}
	return nil
}

const orderColumns = `id, customer_id, order_date, amount, payment, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Date, &o.Amount, &o.Payment, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID loads one order header.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListItems loads the order's lines in insertion order.
func (r *OrderRepo) ListItems(ctx context.Context, orderID int64) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, batch_id, quantity, unit_price, subtotal, hsn_code, gst_rate, cgst_rate, sgst_rate, igst_rate
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.BatchID, &it.Quantity, &it.UnitPrice,
			&it.Subtotal, &it.HSNCode, &it.GSTRate, &it.CGSTRate, &it.SGSTRate, &it.IGSTRate); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListAddresses loads the order's addresses.
func (r *OrderRepo) ListAddresses(ctx context.Context, orderID int64) ([]*entity.OrderAddress, error) {
	query := `
		SELECT id, order_id, type, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(address_line1, ''), COALESCE(address_line2, ''), COALESCE(city, ''),
		       COALESCE(state, ''), COALESCE(postal_code, ''), COALESCE(country, '')
		FROM order_addresses WHERE order_id = $1 ORDER BY type`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order addresses: %w", err)
	}
	defer rows.Close()
	var addrs []*entity.OrderAddress
	for rows.Next() {
		var a entity.OrderAddress
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Type, &a.Name, &a.Email, &a.Phone,
			&a.AddressLine1, &a.AddressLine2, &a.City, &a.State, &a.PostalCode, &a.Country); err != nil {
			return nil, fmt.Errorf("scan order address: %w", err)
		}
		addrs = append(addrs, &a)
	}
	return addrs, rows.Err()
}

// List returns a page of order headers, newest first.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListByCustomer returns every order of one customer, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders by customer: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*entity.Order, error) {
	var orders []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateAmount sets the derived order amount.
func (r *OrderRepo) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET amount = $2, updated_at = now() WHERE id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("update order amount: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatusPayment sets the fulfillment status and payment method.
func (r *OrderRepo) UpdateStatusPayment(ctx context.Context, id int64, status, payment string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, payment = $3, updated_at = now() WHERE id = $1`,
		id, status, payment)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the order; items and addresses cascade. Invoices keep their
// frozen copy with order_id set NULL by the schema.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
