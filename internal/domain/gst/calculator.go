// Package gst implements the split GST line computation (domain service).
//
// Intra-state supply is assumed throughout: the GST rate splits evenly into
// CGST and SGST, and IGST stays 0. Each component amount is rounded to 2
// decimal places independently, never once on the sum; the result is
// deterministic but not necessarily sum-exact, and that policy is load-bearing
// for reproducing historical invoices.
package gst

import "github.com/shopspring/decimal"

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// MaxRate is the highest GST slab; a valid line rate lies in [0, MaxRate].
var MaxRate = decimal.NewFromInt(28)

// LineInput are pre-validated, non-negative numerics for one line.
type LineInput struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	GSTRate   decimal.Decimal
}

// Line is the computed tax breakdown of one line.
type Line struct {
	Base       decimal.Decimal
	CGSTRate   decimal.Decimal
	SGSTRate   decimal.Decimal
	IGSTRate   decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTAmount decimal.Decimal
	IGSTAmount decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
}

// ComputeLine prices one line. The line discount cannot drive the base
// negative; it clamps at 0.
func ComputeLine(in LineInput) Line {
	base := in.Quantity.Mul(in.UnitPrice).Sub(in.Discount)
	if base.IsNegative() {
		base = decimal.Zero
	}

	cgstRate := in.GSTRate.Div(two)
	sgstRate := cgstRate
	igstRate := decimal.Zero

	cgst := base.Mul(cgstRate).Div(hundred).Round(2)
	sgst := base.Mul(sgstRate).Div(hundred).Round(2)
	igst := base.Mul(igstRate).Div(hundred).Round(2)

	tax := cgst.Add(sgst).Add(igst)
	return Line{
		Base:       base,
		CGSTRate:   cgstRate,
		SGSTRate:   sgstRate,
		IGSTRate:   igstRate,
		CGSTAmount: cgst,
		SGSTAmount: sgst,
		IGSTAmount: igst,
		Tax:        tax,
		Total:      base.Add(tax),
	}
}

// GrandTotal aggregates header-level totals. The header discount applies
// only to the base, never to tax, and cannot drive the base negative.
func GrandTotal(subTotal, headerDiscount, taxTotal, shipping decimal.Decimal) decimal.Decimal {
	net := subTotal.Sub(headerDiscount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return net.Add(taxTotal).Add(shipping)
}
