package repository

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// PurchaseOrderRepository is the persistence port for supplier purchase
// orders and their items.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	CreateItem(ctx context.Context, item *entity.PurchaseOrderItem) error
	GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	GetByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error)
	ListItems(ctx context.Context, poID int64) ([]*entity.PurchaseOrderItem, error)
	List(ctx context.Context) ([]*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// PurchaseRepository records received goods.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
}
