package inventory

import (
	"context"
	"testing"
	"time"

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

type pairKey struct{ product, supplier int64 }

type memLowStock struct {
	nextID int64
	byPair map[pairKey]*entity.LowStockItem
}

func newMemLowStock() *memLowStock {
	return &memLowStock{byPair: map[pairKey]*entity.LowStockItem{}}
}

func (m *memLowStock) FirstOrCreate(_ context.Context, item *entity.LowStockItem) (int64, bool, error) {
	key := pairKey{item.ProductID, item.SupplierID}
	if existing, ok := m.byPair[key]; ok {
		return existing.ID, false, nil
	}
	m.nextID++
	item.ID = m.nextID
	m.byPair[key] = item
	return item.ID, true, nil
}

func (m *memLowStock) Create(_ context.Context, item *entity.LowStockItem) error {
	key := pairKey{item.ProductID, item.SupplierID}
	if _, ok := m.byPair[key]; ok {
		return domain.ErrDuplicate
	}
	m.nextID++
	item.ID = m.nextID
	m.byPair[key] = item
	return nil
}

func (m *memLowStock) List(_ context.Context) ([]*entity.LowStockItem, error) {
	out := make([]*entity.LowStockItem, 0, len(m.byPair))
	for _, item := range m.byPair {
		out = append(out, item)
	}
	return out, nil
}

func (m *memLowStock) MarkSent(_ context.Context, item *entity.LowStockItem) error {
	key := pairKey{item.ProductID, item.SupplierID}
	if existing, ok := m.byPair[key]; ok {
		existing.Status = entity.LowStockStatusSent
		return nil
	}
	m.nextID++
	item.ID = m.nextID
	item.Status = entity.LowStockStatusSent
	m.byPair[key] = item
	return nil
}

type memProducts struct {
	repository.ProductRepository

	products   map[int64]*entity.Product
	candidates []repository.ReplenishmentCandidate
}

func (m *memProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) ListReplenishmentCandidates(_ context.Context) ([]repository.ReplenishmentCandidate, error) {
	return m.candidates, nil
}

type memSuppliers struct{ suppliers map[int64]*entity.Supplier }

func (m *memSuppliers) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type memPurchaseOrders struct {
	repository.PurchaseOrderRepository

	nextID int64
	pos    map[int64]*entity.PurchaseOrder
	items  map[int64][]*entity.PurchaseOrderItem
}

func newMemPurchaseOrders() *memPurchaseOrders {
	return &memPurchaseOrders{pos: map[int64]*entity.PurchaseOrder{}, items: map[int64][]*entity.PurchaseOrderItem{}}
}

func (m *memPurchaseOrders) Create(_ context.Context, po *entity.PurchaseOrder) error {
	m.nextID++
	po.ID = m.nextID
	m.pos[po.ID] = po
	return nil
}

func (m *memPurchaseOrders) CreateItem(_ context.Context, item *entity.PurchaseOrderItem) error {
	m.items[item.PurchaseOrderID] = append(m.items[item.PurchaseOrderID], item)
	return nil
}

func (m *memPurchaseOrders) GetByNumber(_ context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	for _, po := range m.pos {
		if po.PONumber == poNumber {
			return po, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPurchaseOrders) ListItems(_ context.Context, poID int64) ([]*entity.PurchaseOrderItem, error) {
	return m.items[poID], nil
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

type stubMailer struct {
	sent []string // recipient emails in order
	pos  []*entity.PurchaseOrder
}

func (s *stubMailer) SendPurchaseOrder(_ context.Context, to string, _ *entity.Supplier, po *entity.PurchaseOrder, _ []*entity.PurchaseOrderItem, _ map[int64]string) error {
	s.sent = append(s.sent, to)
	s.pos = append(s.pos, po)
	return nil
}

type fixture struct {
	lowStock       *memLowStock
	products       *memProducts
	suppliers      *memSuppliers
	purchaseOrders *memPurchaseOrders
	notifications  *memNotifications
	mailer         *stubMailer
	uc             *UseCase
}

func (fx *fixture) RunProcurement(_ context.Context, fn func(
	lowStock repository.LowStockItemRepository,
	purchaseOrders repository.PurchaseOrderRepository,
) error) error {
	return fn(fx.lowStock, fx.purchaseOrders)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		lowStock:       newMemLowStock(),
		products:       &memProducts{products: map[int64]*entity.Product{}},
		suppliers:      &memSuppliers{suppliers: map[int64]*entity.Supplier{}},
		purchaseOrders: newMemPurchaseOrders(),
		notifications:  &memNotifications{},
		mailer:         &stubMailer{},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	fx.uc = NewUseCase(
		fx.lowStock, fx.products, fx.suppliers, fx.purchaseOrders,
		fx, fx.mailer, notify.New(fx.notifications, log), 20, log,
	)
	fx.suppliers.suppliers[5] = &entity.Supplier{ID: 5, Name: "MedSupply Co", Email: "po@medsupply.example"}
	fx.products.products[10] = &entity.Product{ID: 10, Name: "Paracetamol 500mg"}
	fx.products.products[11] = &entity.Product{ID: 11, Name: "Ibuprofen 400mg"}
	return fx
}

func sup(id int64) *int64 { return &id }

func TestGenerate_FlagsProductsBelowThreshold(t *testing.T) {
	fx := newFixture(t)
	fx.products.candidates = []repository.ReplenishmentCandidate{
		{ProductID: 10, ProductName: "Paracetamol 500mg", SupplierID: sup(5), CurrentStock: dec("8"), BuyPrice: dec("42.50")},
		{ProductID: 11, ProductName: "Ibuprofen 400mg", SupplierID: sup(5), CurrentStock: dec("20"), BuyPrice: dec("30")},
	}

	resp, err := fx.uc.Generate(context.Background(), entity.Actor{ID: 1, Name: "Asha"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Created)
	require.Len(t, resp.IDs, 1)

	item := fx.lowStock.byPair[pairKey{10, 5}]
	require.NotNil(t, item)
	assert.Equal(t, entity.LowStockStatusPending, item.Status)
	assert.True(t, item.RequestedQty.Equal(dec("8")), "requested qty snapshots current stock")
	assert.True(t, item.BuyPrice.Equal(dec("42.50")))

	assert.Nil(t, fx.lowStock.byPair[pairKey{11, 5}], "stock at the threshold is not low")
}

func TestGenerate_SkipsProductsWithoutSupplier(t *testing.T) {
	fx := newFixture(t)
	fx.products.candidates = []repository.ReplenishmentCandidate{
		{ProductID: 10, CurrentStock: dec("3")},
	}

	resp, err := fx.uc.Generate(context.Background(), entity.Actor{ID: 1, Name: "Asha"})
	require.NoError(t, err)
	assert.Empty(t, resp.IDs)
	assert.Zero(t, resp.Created)
}

func TestGenerate_SecondRunIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	fx.products.candidates = []repository.ReplenishmentCandidate{
		{ProductID: 10, SupplierID: sup(5), CurrentStock: dec("8"), BuyPrice: dec("42.50")},
	}
	actor := entity.Actor{ID: 1, Name: "Asha"}

	first, err := fx.uc.Generate(context.Background(), actor)
	require.NoError(t, err)

	// stock drifted between runs; the existing request must not change
	fx.products.candidates[0].CurrentStock = dec("5")

	second, err := fx.uc.Generate(context.Background(), actor)
	require.NoError(t, err)

	assert.Equal(t, first.IDs, second.IDs, "existing row ids are still reported")
	assert.Zero(t, second.Created)
	item := fx.lowStock.byPair[pairKey{10, 5}]
	assert.True(t, item.RequestedQty.Equal(dec("8")), "existing request untouched on re-run")
}

func TestGenerate_ZeroStockStillFlagged(t *testing.T) {
	fx := newFixture(t)
	fx.products.candidates = []repository.ReplenishmentCandidate{
		{ProductID: 10, SupplierID: sup(5), CurrentStock: dec("0"), BuyPrice: dec("42.50")},
	}

	resp, err := fx.uc.Generate(context.Background(), entity.Actor{ID: 1, Name: "Asha"})
	require.NoError(t, err)
	require.Len(t, resp.IDs, 1)
	assert.True(t, fx.lowStock.byPair[pairKey{10, 5}].RequestedQty.IsZero())
}

func TestCreateManual_Validation(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}

	_, err := fx.uc.CreateManual(context.Background(), actor, dto.CreateLowStockRequest{ProductID: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.uc.CreateManual(context.Background(), actor, dto.CreateLowStockRequest{
		ProductID: 404, SupplierID: 5, RequestedQty: dec("10"), BuyPrice: dec("42.50"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := fx.uc.CreateManual(context.Background(), actor, dto.CreateLowStockRequest{
		ProductID: 10, SupplierID: 5, RequestedQty: dec("10"), BuyPrice: dec("42.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LowStockStatusPending, resp.Status)
}

func TestSendToSuppliers_RaisesPOAndMarksSent(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	_, err := fx.uc.CreateManual(context.Background(), actor, dto.CreateLowStockRequest{
		ProductID: 10, SupplierID: 5, RequestedQty: dec("50"), BuyPrice: dec("42.50"),
	})
	require.NoError(t, err)

	deadline := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	resp, err := fx.uc.SendToSuppliers(context.Background(), actor, dto.SendLowStockRequest{
		Suppliers: []dto.SendLowStockSupplier{{
			SupplierID:       5,
			DeliveryDeadline: deadline,
			Items: []dto.SendLowStockItemInput{{
				ProductID: 10, RequestedQty: dec("50"), BuyPrice: dec("42.50"),
			}},
		}},
	})
	require.NoError(t, err)

	require.Len(t, resp.PONumbers, 1)
	assert.Regexp(t, `^PO-[A-Z0-9]{6}$`, resp.PONumbers[0])

	po, err := fx.purchaseOrders.GetByNumber(context.Background(), resp.PONumbers[0])
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusOrderCreated, po.Status)
	require.NotNil(t, po.DeliveryDeadline)
	assert.True(t, po.DeliveryDeadline.Equal(deadline))

	items := fx.purchaseOrders.items[po.ID]
	require.Len(t, items, 1)
	assert.True(t, items[0].RequestedQty.Equal(dec("50")))

	assert.Equal(t, entity.LowStockStatusSent, fx.lowStock.byPair[pairKey{10, 5}].Status)
	assert.Equal(t, []string{"po@medsupply.example"}, fx.mailer.sent)
}

func TestSendToSuppliers_CreatesSentRowWhenNoneExists(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.SendToSuppliers(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, dto.SendLowStockRequest{
		Suppliers: []dto.SendLowStockSupplier{{
			SupplierID: 5,
			Items: []dto.SendLowStockItemInput{{
				ProductID: 11, RequestedQty: dec("30"), BuyPrice: dec("30"),
			}},
		}},
	})
	require.NoError(t, err)

	item := fx.lowStock.byPair[pairKey{11, 5}]
	require.NotNil(t, item)
	assert.Equal(t, entity.LowStockStatusSent, item.Status)
}

func TestSendToSuppliers_UnknownSupplierRejected(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.SendToSuppliers(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, dto.SendLowStockRequest{
		Suppliers: []dto.SendLowStockSupplier{{
			SupplierID: 404,
			Items:      []dto.SendLowStockItemInput{{ProductID: 10, RequestedQty: dec("1")}},
		}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, fx.purchaseOrders.pos)
}
