package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount types on a price record.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// ProductPrice is one record in a product's price history. The current
// price is the latest by EffectiveDate.
type ProductPrice struct {
	ID            int64
	ProductID     int64
	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	DiscountType  string
	DiscountValue decimal.Decimal
	EffectiveDate time.Time
	CreatedAt     time.Time
}

// FinalPrice is the sell price minus the configured discount, floored at 0.
func (p *ProductPrice) FinalPrice() decimal.Decimal {
	price := p.SellPrice
	switch {
	case p.DiscountType == DiscountTypePercentage && p.DiscountValue.IsPositive():
		price = price.Sub(price.Mul(p.DiscountValue).Div(decimal.NewFromInt(100)))
	case p.DiscountType == DiscountTypeFixed && p.DiscountValue.IsPositive():
		price = price.Sub(p.DiscountValue)
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}
