package repository

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// LowStockItemRepository is the persistence port for replenishment requests.
// The (product, supplier) pair is unique; FirstOrCreate relies on that
// constraint to stay race-free.
type LowStockItemRepository interface {
	// FirstOrCreate inserts the item unless a row for its
	// (product, supplier) pair already exists, and returns the id of the
	// surviving row plus whether it was created by this call.
	FirstOrCreate(ctx context.Context, item *entity.LowStockItem) (id int64, created bool, err error)
	Create(ctx context.Context, item *entity.LowStockItem) error
	List(ctx context.Context) ([]*entity.LowStockItem, error)
	// MarkSent flips every item for the pair to Sent, creating one with the
	// given quantity and price when none exists yet.
	MarkSent(ctx context.Context, item *entity.LowStockItem) error
}
