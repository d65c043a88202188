package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch stock status classification. Derived from stock level vs. the
// product's max stock but persisted for query efficiency; must be
// recomputed on every stock mutation.
const (
	BatchStatusInStock    = "In Stock"
	BatchStatusLowStock   = "Low Stock"
	BatchStatusOutOfStock = "Out of Stock"
)

// Batch is a physical stock lot of a product. ExpiryDate is nil when
// HasExpiry is false.
type Batch struct {
	ID          int64
	ProductID   int64
	BatchNumber string
	StockLevel  decimal.Decimal
	ExpiryDate  *time.Time
	HasExpiry   bool
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key is the persistent id, for set reconciliation.
func (b *Batch) Key() int64 { return b.ID }
