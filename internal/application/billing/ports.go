package billing

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

// TxRunner runs a function inside one DB transaction with repositories
// bound to that transaction. Numbering and the invoice insert must share
// the transaction or two invoices can draw the same number.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoices repository.InvoiceRepository,
		orders repository.OrderRepository,
		customers repository.CustomerRepository,
		companies repository.CompanyProfileRepository,
	) error) error
}

// PDFGenerator renders a printable invoice document.
type PDFGenerator interface {
	InvoicePDF(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem, customer *entity.Customer) ([]byte, error)
}

// Mailer delivers an invoice to the customer. Called strictly after the
// status transition commits.
type Mailer interface {
	SendInvoice(ctx context.Context, to string, inv *entity.Invoice, pdf []byte) error
}
