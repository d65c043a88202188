package inventory

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

// TxRunner runs a function inside one DB transaction with repositories
// bound to that transaction. Raising a purchase order and flipping its
// low-stock rows to Sent is all-or-nothing per supplier.
type TxRunner interface {
	RunProcurement(ctx context.Context, fn func(
		lowStock repository.LowStockItemRepository,
		purchaseOrders repository.PurchaseOrderRepository,
	) error) error
}

// Mailer delivers a purchase order to a supplier. Called strictly after
// the purchase order commits.
type Mailer interface {
	SendPurchaseOrder(ctx context.Context, to string, supplier *entity.Supplier, po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem, productNames map[int64]string) error
}
