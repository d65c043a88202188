package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order statuses.
const (
	POStatusPending      = "Pending"
	POStatusOrderCreated = "Order Created"
	POStatusCompleted    = "Completed"
)

// PurchaseOrder is a supplier-facing request document. It transitions to
// Completed when a Purchase is recorded against its PONumber.
type PurchaseOrder struct {
	ID               int64
	PONumber         string
	SupplierID       int64
	DeliveryDeadline *time.Time
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PurchaseOrderItem is one requested product line on a purchase order.
type PurchaseOrderItem struct {
	ID              int64
	PurchaseOrderID int64
	ProductID       int64
	RequestedQty    decimal.Decimal
	BuyPrice        decimal.Decimal
}
