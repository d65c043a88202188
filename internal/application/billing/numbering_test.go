package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

type stubInvoiceRepo struct {
	repository.InvoiceRepository

	latest     string
	seenPrefix string
}

func (s *stubInvoiceRepo) LatestNumberForPrefix(_ context.Context, prefix string) (string, error) {
	s.seenPrefix = prefix
	return s.latest, nil
}

func TestMonthlySequence_FirstOfMonth(t *testing.T) {
	repo := &stubInvoiceRepo{latest: ""}
	issueDate := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	got, err := MonthlySequence{}.Next(context.Background(), repo, nil, issueDate)

	require.NoError(t, err)
	assert.Equal(t, "INV-202511-0001", got)
	assert.Equal(t, "INV-202511-", repo.seenPrefix)
}

func TestMonthlySequence_Increments(t *testing.T) {
	repo := &stubInvoiceRepo{latest: "INV-202511-0041"}
	issueDate := time.Date(2025, time.November, 30, 23, 59, 0, 0, time.UTC)

	got, err := MonthlySequence{}.Next(context.Background(), repo, nil, issueDate)

	require.NoError(t, err)
	assert.Equal(t, "INV-202511-0042", got)
}

func TestMonthlySequence_RestartsEachMonth(t *testing.T) {
	repo := &stubInvoiceRepo{latest: ""}
	issueDate := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	got, err := MonthlySequence{}.Next(context.Background(), repo, nil, issueDate)

	require.NoError(t, err)
	assert.Equal(t, "INV-202512-0001", got)
	assert.Equal(t, "INV-202512-", repo.seenPrefix)
}

func TestMonthlySequence_MalformedLatestFallsBackToOne(t *testing.T) {
	repo := &stubInvoiceRepo{latest: "INV-202511-X"}

	got, err := MonthlySequence{}.Next(context.Background(), repo, nil, time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, "INV-202511-0001", got)
}

func TestMonthlySequence_PadsBeyondFourDigits(t *testing.T) {
	repo := &stubInvoiceRepo{latest: "INV-202511-9999"}

	got, err := MonthlySequence{}.Next(context.Background(), repo, nil, time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, "INV-202511-10000", got)
}

func TestOrderDerived_PadsOrderID(t *testing.T) {
	orderID := int64(42)

	got, err := OrderDerived{}.Next(context.Background(), nil, &orderID, time.Now())

	require.NoError(t, err)
	assert.Equal(t, "INV-00042", got)
}

func TestOrderDerived_RequiresOrder(t *testing.T) {
	_, err := OrderDerived{}.Next(context.Background(), nil, nil, time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewNumberer(t *testing.T) {
	monthly, err := NewNumberer(NumberingMonthly)
	require.NoError(t, err)
	assert.IsType(t, MonthlySequence{}, monthly)

	order, err := NewNumberer(NumberingOrder)
	require.NoError(t, err)
	assert.IsType(t, OrderDerived{}, order)

	_, err = NewNumberer("quarterly")
	assert.Error(t, err)
}
