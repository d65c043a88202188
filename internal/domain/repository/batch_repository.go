package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// BatchRepository is the persistence port for product stock lots.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id int64) (*entity.Batch, error)
	// GetForUpdate loads the batch under SELECT ... FOR UPDATE; stock
	// mutations must go through it so concurrent orders serialize on the row.
	GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error)
	// UpdateStock persists level and derived status together; writing one
	// without the other is an invariant violation.
	UpdateStock(ctx context.Context, id int64, level decimal.Decimal, status string) error
	Update(ctx context.Context, batch *entity.Batch) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Batch, error)
	Delete(ctx context.Context, ids []int64) error
}
