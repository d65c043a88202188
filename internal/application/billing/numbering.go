package billing

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

// Numbering strategy names (config values). A deployment picks exactly one;
// the formats are incompatible and must never be mixed for one invoice.
const (
	NumberingMonthly = "monthly"
	NumberingOrder   = "order"
)

// trailingSeq extracts the 4-digit sequence at the end of a monthly invoice
// number (INV-YYYYMM-NNNN).
var trailingSeq = regexp.MustCompile(`-(\d{4})$`)

// InvoiceNumberer issues the next invoice number. Implementations that read
// existing numbers must be called inside the transaction that inserts the
// invoice row, with the repo bound to that transaction.
type InvoiceNumberer interface {
	Next(ctx context.Context, invoices repository.InvoiceRepository, orderID *int64, issueDate time.Time) (string, error)
}

// NewNumberer maps a configured strategy name to its implementation.
func NewNumberer(strategy string) (InvoiceNumberer, error) {
	switch strategy {
	case NumberingMonthly:
		return MonthlySequence{}, nil
	case NumberingOrder:
		return OrderDerived{}, nil
	default:
		return nil, fmt.Errorf("billing: unknown numbering strategy %q", strategy)
	}
}

// MonthlySequence issues INV-<YYYYMM>-<NNNN> with a zero-padded 4-digit
// counter that restarts each calendar month. The read of the highest
// existing number holds a row lock, so two invoices in the same month
// cannot draw the same sequence.
type MonthlySequence struct{}

func (MonthlySequence) Next(ctx context.Context, invoices repository.InvoiceRepository, _ *int64, issueDate time.Time) (string, error) {
	prefix := MonthlyPrefix(issueDate)
	last, err := invoices.LatestNumberForPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("numbering: read latest for %s: %w", prefix, err)
	}
	seq := 1
	if last != "" {
		if m := trailingSeq.FindStringSubmatch(last); m != nil {
			n, _ := strconv.Atoi(m[1])
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// MonthlyPrefix is the month-scoped number prefix, e.g. "INV-202511-".
func MonthlyPrefix(t time.Time) string {
	return "INV-" + t.Format("200601") + "-"
}

// OrderDerived is the legacy scheme: the number is the zero-padded backing
// order id (INV-00042). Only usable for invoices derived from an order.
type OrderDerived struct{}

func (OrderDerived) Next(_ context.Context, _ repository.InvoiceRepository, orderID *int64, _ time.Time) (string, error) {
	if orderID == nil {
		return "", fmt.Errorf("numbering: order-derived scheme needs a backing order: %w", domain.ErrInvalidInput)
	}
	return fmt.Sprintf("INV-%05d", *orderID), nil
}
