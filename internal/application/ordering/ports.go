package ordering

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

// TxRunner runs a function inside one DB transaction, passing repositories
// bound to that transaction. Order creation is all-or-nothing: header,
// addresses, items, stock deductions and the derived invoice commit together
// or not at all.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orders repository.OrderRepository,
		invoices repository.InvoiceRepository,
		batches repository.BatchRepository,
		products repository.ProductRepository,
		customers repository.CustomerRepository,
		companies repository.CompanyProfileRepository,
	) error) error
}
