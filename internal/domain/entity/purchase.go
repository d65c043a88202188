package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records goods received from a supplier, optionally against a
// purchase order (matched by PONumber).
type Purchase struct {
	ID         int64
	PONumber   string
	SupplierID int64
	Date       time.Time
	Amount     decimal.Decimal
	CreatedAt  time.Time
}
