package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoiceStatusDraft         = "Draft"
	InvoiceStatusSent          = "Sent"
	InvoiceStatusPartiallyPaid = "Partially Paid"
	InvoiceStatusPaid          = "Paid"
	InvoiceStatusVoid          = "Void"
)

// Invoice is an immutable financial document, either derived from an order
// or built standalone from a line-item list. Totals obey:
//
//	TotalAmount == max(SubTotal - DiscountAmount, 0) + TaxAmount + ShippingAmount
type Invoice struct {
	ID               int64
	InvoiceNumber    string
	CustomerID       int64
	OrderID          *int64
	CompanyProfileID int64
	IssueDate        time.Time
	DueDate          *time.Time
	Currency         string
	SubTotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxAmount        decimal.Decimal
	ShippingAmount   decimal.Decimal
	TotalAmount      decimal.Decimal
	AmountPaid       decimal.Decimal
	Status           string
	Notes            string
	Terms            string
	CompanyName      string
	CompanyAddress   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
