package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Low-stock request statuses.
const (
	LowStockStatusPending = "Pending"
	LowStockStatusSent    = "Sent"
)

// LowStockItem is a replenishment request keyed by (product, supplier).
// The generator creates it once and leaves it alone on re-runs.
type LowStockItem struct {
	ID           int64
	ProductID    int64
	SupplierID   int64
	RequestedQty decimal.Decimal
	BuyPrice     decimal.Decimal
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
