package entity

import "github.com/shopspring/decimal"

// OrderItem is a live transactional order line. Only the rates and the
// subtotal are stored; tax amounts are computed on read so that the line
// always reflects its stored rates (unlike InvoiceItem, which freezes them).
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	BatchID   *int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	HSNCode   string
	GSTRate   decimal.Decimal
	CGSTRate  decimal.Decimal
	SGSTRate  decimal.Decimal
	IGSTRate  decimal.Decimal
}

// CGSTAmount derives the CGST amount from the stored subtotal and rate,
// rounded to 2 decimal places.
func (i *OrderItem) CGSTAmount() decimal.Decimal {
	return i.Subtotal.Mul(i.CGSTRate).Div(hundred).Round(2)
}

// SGSTAmount derives the SGST amount, rounded to 2 decimal places.
func (i *OrderItem) SGSTAmount() decimal.Decimal {
	return i.Subtotal.Mul(i.SGSTRate).Div(hundred).Round(2)
}

// IGSTAmount derives the IGST amount, rounded to 2 decimal places.
func (i *OrderItem) IGSTAmount() decimal.Decimal {
	return i.Subtotal.Mul(i.IGSTRate).Div(hundred).Round(2)
}

// TaxAmount is the sum of the independently rounded component amounts.
func (i *OrderItem) TaxAmount() decimal.Decimal {
	return i.CGSTAmount().Add(i.SGSTAmount()).Add(i.IGSTAmount())
}

// Total is subtotal plus derived tax.
func (i *OrderItem) Total() decimal.Decimal {
	return i.Subtotal.Add(i.TaxAmount())
}

var hundred = decimal.NewFromInt(100)
