// Package stock implements the batch stock ledger (domain service): applying
// a signed quantity delta and deriving the persisted status classification.
package stock

import (
	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// OverdraftPolicy decides what happens when a deduction exceeds the
// available level.
type OverdraftPolicy int

const (
	// ClampToZero silently floors the level at 0 on over-deduction. This is
	// the historical behavior and the default.
	ClampToZero OverdraftPolicy = iota
	// RejectInsufficient fails the operation with ErrInsufficientStock.
	RejectInsufficient
)

// ParsePolicy maps a config string to a policy; unknown values fall back to
// ClampToZero.
func ParsePolicy(s string) OverdraftPolicy {
	if s == "reject" {
		return RejectInsufficient
	}
	return ClampToZero
}

// lowStockFraction of the product's max stock marks the Low Stock boundary.
var lowStockFraction = decimal.NewFromFloat(0.2)

// Apply computes the new stock level and its status classification for a
// signed delta against maxStock. Level and status must be persisted together
// in the caller's transaction; a partial write is an invariant violation.
func Apply(level, delta, maxStock decimal.Decimal, policy OverdraftPolicy) (decimal.Decimal, string, error) {
	newLevel := level.Add(delta)
	if newLevel.IsNegative() {
		if policy == RejectInsufficient {
			return decimal.Decimal{}, "", domain.ErrInsufficientStock
		}
		newLevel = decimal.Zero
	}
	return newLevel, Classify(newLevel, maxStock), nil
}

// Classify derives the three-state status: 0 is Out of Stock, anything
// below 20% of maxStock is Low Stock, the rest is In Stock.
func Classify(level, maxStock decimal.Decimal) string {
	switch {
	case level.LessThanOrEqual(decimal.Zero):
		return entity.BatchStatusOutOfStock
	case level.LessThan(maxStock.Mul(lowStockFraction)):
		return entity.BatchStatusLowStock
	default:
		return entity.BatchStatusInStock
	}
}
