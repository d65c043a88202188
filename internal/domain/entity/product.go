package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a pharmaceutical SKU. Stock lives in its batches; pricing in
// its price history (latest by effective date wins).
type Product struct {
	ID          int64
	Name        string
	SKU         string
	ProductCode string
	MaxStock    decimal.Decimal
	CategoryID  int64
	SupplierID  *int64
	HSNCode     string
	GSTRate     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
