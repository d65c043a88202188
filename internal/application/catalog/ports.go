package catalog

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

// TxRunner runs a function inside one DB transaction with repositories
// bound to that transaction. A product and its batch set are written
// together or not at all.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		products repository.ProductRepository,
		batches repository.BatchRepository,
	) error) error
}
