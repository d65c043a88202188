package purchasing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type memPurchases struct{ stored []*entity.Purchase }

func (m *memPurchases) Create(_ context.Context, p *entity.Purchase) error {
	p.ID = int64(len(m.stored) + 1)
	m.stored = append(m.stored, p)
	return nil
}

type memPOs struct {
	repository.PurchaseOrderRepository

	pos map[int64]*entity.PurchaseOrder
}

func (m *memPOs) GetByID(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	po, ok := m.pos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

func (m *memPOs) GetByNumber(_ context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	for _, po := range m.pos {
		if po.PONumber == poNumber {
			return po, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPOs) UpdateStatus(_ context.Context, id int64, status string) error {
	po, ok := m.pos[id]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	return nil
}

func (m *memPOs) Delete(_ context.Context, id int64) error {
	delete(m.pos, id)
	return nil
}

func (m *memPOs) ListItems(_ context.Context, _ int64) ([]*entity.PurchaseOrderItem, error) {
	return nil, nil
}

type memNotifications struct{ stored []*entity.Notification }

func (m *memNotifications) Create(_ context.Context, n *entity.Notification) error {
	m.stored = append(m.stored, n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, _ int64, _, _ int) ([]*entity.Notification, error) {
	return m.stored, nil
}

func (m *memNotifications) MarkRead(_ context.Context, _ string) error { return nil }

type fixture struct {
	purchases     *memPurchases
	pos           *memPOs
	notifications *memNotifications
	uc            *UseCase
}

func (fx *fixture) RunPurchasing(_ context.Context, fn func(
	purchases repository.PurchaseRepository,
	purchaseOrders repository.PurchaseOrderRepository,
) error) error {
	return fn(fx.purchases, fx.pos)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		purchases:     &memPurchases{},
		pos:           &memPOs{pos: map[int64]*entity.PurchaseOrder{}},
		notifications: &memNotifications{},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	fx.uc = NewUseCase(fx.pos, fx, notify.New(fx.notifications, log), log)
	return fx
}

func TestRecordPurchase_CompletesMatchingPO(t *testing.T) {
	fx := newFixture(t)
	fx.pos.pos[1] = &entity.PurchaseOrder{ID: 1, PONumber: "PO-A1B2C3", SupplierID: 5, Status: entity.POStatusOrderCreated}

	err := fx.uc.RecordPurchase(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, dto.RecordPurchaseRequest{
		PONumber:   "PO-A1B2C3",
		SupplierID: 5,
		Amount:     dec("2125.00"),
	})
	require.NoError(t, err)

	require.Len(t, fx.purchases.stored, 1)
	assert.Equal(t, entity.POStatusCompleted, fx.pos.pos[1].Status)
	require.Len(t, fx.notifications.stored, 1)
	assert.Equal(t, notify.EventPOCompleted, fx.notifications.stored[0].Type)
}

func TestRecordPurchase_WithoutPONumberStillRecorded(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.RecordPurchase(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, dto.RecordPurchaseRequest{
		SupplierID: 5,
		Amount:     dec("500.00"),
	})
	require.NoError(t, err)
	assert.Len(t, fx.purchases.stored, 1)
	assert.Empty(t, fx.notifications.stored)
}

func TestRecordPurchase_UnknownPONumberRejected(t *testing.T) {
	fx := newFixture(t)

	err := fx.uc.RecordPurchase(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, dto.RecordPurchaseRequest{
		PONumber:   "PO-ZZZZZZ",
		SupplierID: 5,
		Amount:     dec("500.00"),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, fx.notifications.stored)
}

func TestRecordPurchase_AlreadyCompletedNotReemitted(t *testing.T) {
	fx := newFixture(t)
	fx.pos.pos[1] = &entity.PurchaseOrder{ID: 1, PONumber: "PO-A1B2C3", Status: entity.POStatusCompleted}

	err := fx.uc.RecordPurchase(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, dto.RecordPurchaseRequest{
		PONumber:   "PO-A1B2C3",
		SupplierID: 5,
		Amount:     dec("100.00"),
	})
	require.NoError(t, err)
	assert.Empty(t, fx.notifications.stored)
}

func TestRecordPurchase_Validation(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}

	err := fx.uc.RecordPurchase(context.Background(), actor, dto.RecordPurchaseRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = fx.uc.RecordPurchase(context.Background(), actor, dto.RecordPurchaseRequest{SupplierID: 5, Amount: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeletePurchaseOrder(t *testing.T) {
	fx := newFixture(t)
	fx.pos.pos[1] = &entity.PurchaseOrder{ID: 1, PONumber: "PO-A1B2C3"}

	require.NoError(t, fx.uc.DeletePurchaseOrder(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, 1))
	assert.Empty(t, fx.pos.pos)

	err := fx.uc.DeletePurchaseOrder(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
