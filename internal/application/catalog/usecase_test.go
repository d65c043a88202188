package catalog

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

type memProducts struct {
	repository.ProductRepository

	nextID   int64
	products map[int64]*entity.Product
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *memProducts) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) Delete(_ context.Context, id int64) error {
	delete(m.products, id)
	return nil
}

type memBatches struct {
	nextID  int64
	batches map[int64]*entity.Batch
}

func (m *memBatches) Create(_ context.Context, b *entity.Batch) error {
	m.nextID++
	b.ID = m.nextID
	m.batches[b.ID] = b
	return nil
}

func (m *memBatches) GetByID(_ context.Context, id int64) (*entity.Batch, error) {
	b, ok := m.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (m *memBatches) GetForUpdate(ctx context.Context, id int64) (*entity.Batch, error) {
	return m.GetByID(ctx, id)
}

func (m *memBatches) UpdateStock(_ context.Context, id int64, level decimal.Decimal, status string) error {
	b, ok := m.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.StockLevel, b.Status = level, status
	return nil
}

func (m *memBatches) Update(_ context.Context, b *entity.Batch) error {
	if _, ok := m.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	m.batches[b.ID] = b
	return nil
}

func (m *memBatches) ListByProduct(_ context.Context, productID int64) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for id := int64(1); id <= m.nextID; id++ {
		if b, ok := m.batches[id]; ok && b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBatches) Delete(_ context.Context, ids []int64) error {
	for _, id := range ids {
		delete(m.batches, id)
	}
	return nil
}

type memPrices struct {
	prices map[int64][]*entity.ProductPrice
}

func (m *memPrices) Create(_ context.Context, p *entity.ProductPrice) error {
	p.ID = int64(len(m.prices[p.ProductID]) + 1)
	m.prices[p.ProductID] = append(m.prices[p.ProductID], p)
	return nil
}

func (m *memPrices) CurrentByProduct(_ context.Context, productID int64) (*entity.ProductPrice, error) {
	history := m.prices[productID]
	if len(history) == 0 {
		return nil, domain.ErrNotFound
	}
	return history[len(history)-1], nil
}

func (m *memPrices) ListByProduct(_ context.Context, productID int64) ([]*entity.ProductPrice, error) {
	return m.prices[productID], nil
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
	products *memProducts
	batches  *memBatches
	prices   *memPrices
	uc       *UseCase
}

func (fx *fixture) RunCatalog(_ context.Context, fn func(
	products repository.ProductRepository,
	batches repository.BatchRepository,
) error) error {
	return fn(fx.products, fx.batches)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		products: &memProducts{products: map[int64]*entity.Product{}},
		batches:  &memBatches{batches: map[int64]*entity.Batch{}},
		prices:   &memPrices{prices: map[int64][]*entity.ProductPrice{}},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	fx.uc = NewUseCase(fx.products, fx.batches, fx.prices, fx, notify.New(&memNotifications{}, log), log)
	return fx
}

func createRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:     "Paracetamol 500mg",
		SKU:      "PARA-500",
		MaxStock: dec("100"),
		HSNCode:  "3004",
		GSTRate:  dec("18"),
		Batches: []dto.BatchInput{
			{BatchNumber: "B-001", StockLevel: dec("50")},
			{BatchNumber: "B-002", StockLevel: dec("15")},
			{BatchNumber: "B-003", StockLevel: dec("0")},
		},
	}
}

func TestCreate_ClassifiesBatchStatuses(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, createRequest())
	require.NoError(t, err)
	require.Len(t, resp.Batches, 3)

	assert.Equal(t, entity.BatchStatusInStock, resp.Batches[0].Status)
	assert.Equal(t, entity.BatchStatusLowStock, resp.Batches[1].Status)
	assert.Equal(t, entity.BatchStatusOutOfStock, resp.Batches[2].Status)
}

func TestCreate_Validation(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}

	req := createRequest()
	req.Name = ""
	_, err := fx.uc.Create(context.Background(), actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = createRequest()
	req.MaxStock = dec("0")
	_, err = fx.uc.Create(context.Background(), actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_ReconcilesBatchSet(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	created, err := fx.uc.Create(context.Background(), actor, createRequest())
	require.NoError(t, err)

	keepID := created.Batches[0].ID
	req := dto.UpdateProductRequest{
		Name:     "Paracetamol 500mg",
		MaxStock: dec("100"),
		HSNCode:  "3004",
		GSTRate:  dec("18"),
		Batches: []dto.BatchInput{
			{ID: keepID, BatchNumber: "B-001", StockLevel: dec("80")}, // update
			{BatchNumber: "B-004", StockLevel: dec("10")},            // add
			// B-002 and B-003 omitted: delete
		},
	}
	_, err = fx.uc.Update(context.Background(), actor, created.ID, req)
	require.NoError(t, err)

	remaining, err := fx.batches.ListByProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)

	assert.Equal(t, keepID, remaining[0].ID)
	assert.True(t, remaining[0].StockLevel.Equal(dec("80")))
	assert.Equal(t, entity.BatchStatusInStock, remaining[0].Status)
	assert.Equal(t, "B-004", remaining[1].BatchNumber)
	assert.Equal(t, entity.BatchStatusLowStock, remaining[1].Status)
}

func TestUpdate_ReclassifiesAgainstNewMaxStock(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	created, err := fx.uc.Create(context.Background(), actor, dto.CreateProductRequest{
		Name:     "Paracetamol 500mg",
		MaxStock: dec("100"),
		Batches:  []dto.BatchInput{{BatchNumber: "B-001", StockLevel: dec("25")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusInStock, created.Batches[0].Status)

	// doubling max stock pushes the same level under the 20% line
	updated, err := fx.uc.Update(context.Background(), actor, created.ID, dto.UpdateProductRequest{
		Name:     "Paracetamol 500mg",
		MaxStock: dec("200"),
		Batches:  []dto.BatchInput{{ID: created.Batches[0].ID, BatchNumber: "B-001", StockLevel: dec("25")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusLowStock, updated.Batches[0].Status)
}

func TestSetPrice_AppendsAndComputesFinalPrice(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	created, err := fx.uc.Create(context.Background(), actor, createRequest())
	require.NoError(t, err)

	price, err := fx.uc.SetPrice(context.Background(), actor, created.ID, dto.SetPriceRequest{
		BuyPrice:      dec("42.50"),
		SellPrice:     dec("100.00"),
		DiscountType:  entity.DiscountTypePercentage,
		DiscountValue: dec("10"),
	})
	require.NoError(t, err)
	assert.True(t, price.FinalPrice.Equal(dec("90.00")), "final = %s", price.FinalPrice)

	// second record wins
	_, err = fx.uc.SetPrice(context.Background(), actor, created.ID, dto.SetPriceRequest{
		BuyPrice: dec("45.00"), SellPrice: dec("110.00"),
	})
	require.NoError(t, err)

	got, err := fx.uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Price)
	assert.True(t, got.Price.SellPrice.Equal(dec("110.00")))
}

func TestSetPrice_Validation(t *testing.T) {
	fx := newFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	created, err := fx.uc.Create(context.Background(), actor, createRequest())
	require.NoError(t, err)

	_, err = fx.uc.SetPrice(context.Background(), actor, created.ID, dto.SetPriceRequest{
		SellPrice: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.uc.SetPrice(context.Background(), actor, created.ID, dto.SetPriceRequest{
		SellPrice: dec("100"), DiscountType: "bogus",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.uc.SetPrice(context.Background(), actor, 404, dto.SetPriceRequest{SellPrice: dec("100")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_WithoutPrice(t *testing.T) {
	fx := newFixture(t)
	created, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, createRequest())
	require.NoError(t, err)

	got, err := fx.uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Price)
	assert.Len(t, got.Batches, 3)
}
