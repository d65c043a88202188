package repository

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// InvoiceRepository is the persistence port for invoices and their frozen
// line items.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	ListItems(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status string) error

	// LatestNumberForPrefix returns the highest invoice_number matching
	// prefix+"%" while holding a row lock, so that concurrent numbering
	// inside the same month cannot read the same sequence. Must run inside
	// the transaction that inserts the invoice. Empty string when none.
	LatestNumberForPrefix(ctx context.Context, prefix string) (string, error)
}
