package entity

import "github.com/shopspring/decimal"

// InvoiceItem is a frozen invoice line. Rates and LineTotal are persisted
// at creation time and never recomputed; an invoice is a financial record,
// not a live view.
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	ProductID   int64
	BatchID     *int64
	Description string
	HSNCode     string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	CGSTRate    decimal.Decimal
	SGSTRate    decimal.Decimal
	IGSTRate    decimal.Decimal
	TaxRate     decimal.Decimal
	LineTotal   decimal.Decimal
}
