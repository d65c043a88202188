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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements the InvoiceRepository port on PostgreSQL (usable
// with pool or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the invoice persistence adapter. Pass pool or tx.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create inserts the invoice header and fills in the generated id.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (invoice_number, customer_id, order_id, company_profile_id, issue_date, due_date,
		                      currency, sub_total, discount_amount, tax_amount, shipping_amount, total_amount,
		                      amount_paid, status, notes, terms, company_name, company_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		inv.InvoiceNumber, inv.CustomerID, inv.OrderID, inv.CompanyProfileID, inv.IssueDate, inv.DueDate,
		inv.Currency, inv.SubTotal, inv.DiscountAmount, inv.TaxAmount, inv.ShippingAmount, inv.TotalAmount,
		inv.AmountPaid, inv.Status, nullIfEmpty(inv.Notes), nullIfEmpty(inv.Terms),
		inv.CompanyName, nullIfEmpty(inv.CompanyAddress),
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem inserts one frozen invoice line.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (invoice_id, product_id, batch_id, description, hsn_code, quantity, unit_price,
		                           discount, cgst_rate, sgst_rate, igst_rate, tax_rate, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.InvoiceID, item.ProductID, item.BatchID, nullIfEmpty(item.Description), item.HSNCode,
		item.Quantity, item.UnitPrice, item.Discount, item.CGSTRate, item.SGSTRate, item.IGSTRate,
		item.TaxRate, item.LineTotal,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

const invoiceColumns = `id, invoice_number, customer_id, order_id, company_profile_id, issue_date, due_date,
	currency, sub_total, discount_amount, tax_amount, shipping_amount, total_amount, amount_paid, status,
	COALESCE(notes, ''), COALESCE(terms, ''), company_name, COALESCE(company_address, ''), created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.OrderID, &inv.CompanyProfileID,
		&inv.IssueDate, &inv.DueDate, &inv.Currency, &inv.SubTotal, &inv.DiscountAmount, &inv.TaxAmount,
		&inv.ShippingAmount, &inv.TotalAmount, &inv.AmountPaid, &inv.Status, &inv.Notes, &inv.Terms,
		&inv.CompanyName, &inv.CompanyAddress, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID loads one invoice header.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListItems loads the invoice's frozen lines in insertion order.
func (r *InvoiceRepo) ListItems(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, batch_id, COALESCE(description, ''), hsn_code, quantity, unit_price,
		       discount, cgst_rate, sgst_rate, igst_rate, tax_rate, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.BatchID, &it.Description, &it.HSNCode,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.CGSTRate, &it.SGSTRate, &it.IGSTRate,
			&it.TaxRate, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// List returns a page of invoice headers, newest first.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var invoices []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateStatus sets the invoice status.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LatestNumberForPrefix reads the highest matching invoice number under a
// row lock; run it inside the transaction that inserts the invoice.
func (r *InvoiceRepo) LatestNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT invoice_number FROM invoices
		WHERE invoice_number LIKE $1 || '%'
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE`
	var number string
	err := r.q.QueryRow(ctx, query, prefix).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest invoice number: %w", err)
	}
	return number, nil
}
