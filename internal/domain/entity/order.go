package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order fulfillment statuses.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// Order is a customer sales order. Amount is derived from its items
// (sub total + tax), never taken from the client.
type Order struct {
	ID         int64
	CustomerID int64
	Date       time.Time
	Amount     decimal.Decimal
	Payment    string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidOrderStatus reports whether s is a known fulfillment status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
