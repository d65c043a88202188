package billing

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

type memInvoices struct {
	repository.InvoiceRepository

	nextID   int64
	invoices map[int64]*entity.Invoice
	items    map[int64][]*entity.InvoiceItem
}

func newMemInvoices() *memInvoices {
	return &memInvoices{invoices: map[int64]*entity.Invoice{}, items: map[int64][]*entity.InvoiceItem{}}
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.nextID++
	inv.ID = m.nextID
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memInvoices) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	m.items[item.InvoiceID] = append(m.items[item.InvoiceID], item)
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (m *memInvoices) ListItems(_ context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	return m.items[invoiceID], nil
}

func (m *memInvoices) UpdateStatus(_ context.Context, id int64, status string) error {
	inv, ok := m.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (m *memInvoices) LatestNumberForPrefix(_ context.Context, prefix string) (string, error) {
	latest := ""
	for _, inv := range m.invoices {
		n := inv.InvoiceNumber
		if len(n) >= len(prefix) && n[:len(prefix)] == prefix && n > latest {
			latest = n
		}
	}
	return latest, nil
}

type memOrders struct {
	repository.OrderRepository

	orders map[int64]*entity.Order
	items  map[int64][]*entity.OrderItem
}

func (m *memOrders) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) ListItems(_ context.Context, orderID int64) ([]*entity.OrderItem, error) {
	return m.items[orderID], nil
}

type memCustomers struct{ customers map[int64]*entity.Customer }

func (m *memCustomers) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

type memCompanies struct{ profiles map[int64]*entity.CompanyProfile }

func (m *memCompanies) GetByID(_ context.Context, id int64) (*entity.CompanyProfile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
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

type stubPDF struct{ rendered int }

func (s *stubPDF) InvoicePDF(_ context.Context, _ *entity.Invoice, _ []*entity.InvoiceItem, _ *entity.Customer) ([]byte, error) {
	s.rendered++
	return []byte("%PDF-1.7 stub"), nil
}

type stubMailer struct {
	to   string
	sent int
}

func (s *stubMailer) SendInvoice(_ context.Context, to string, _ *entity.Invoice, _ []byte) error {
	s.to = to
	s.sent++
	return nil
}

type billingFixture struct {
	invoices      *memInvoices
	orders        *memOrders
	customers     *memCustomers
	companies     *memCompanies
	notifications *memNotifications
	pdf           *stubPDF
	mailer        *stubMailer
	uc            *UseCase
}

func (fx *billingFixture) RunBilling(_ context.Context, fn func(
	invoices repository.InvoiceRepository,
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	companies repository.CompanyProfileRepository,
) error) error {
	return fn(fx.invoices, fx.orders, fx.customers, fx.companies)
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	fx := &billingFixture{
		invoices:      newMemInvoices(),
		orders:        &memOrders{orders: map[int64]*entity.Order{}, items: map[int64][]*entity.OrderItem{}},
		customers:     &memCustomers{customers: map[int64]*entity.Customer{}},
		companies:     &memCompanies{profiles: map[int64]*entity.CompanyProfile{}},
		notifications: &memNotifications{},
		pdf:           &stubPDF{},
		mailer:        &stubMailer{},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	fx.uc = NewUseCase(
		fx.invoices, fx.customers, fx, MonthlySequence{},
		notify.New(fx.notifications, log), fx.pdf, fx.mailer,
		Options{CompanyProfileID: 1, Currency: "INR", DueDays: 7}, log,
	)
	fx.customers.customers[7] = &entity.Customer{ID: 7, Name: "Apollo Pharmacy", Email: "orders@apollo.example"}
	fx.companies.profiles[1] = &entity.CompanyProfile{ID: 1, Name: "PharmStock Distributors", Address: "12 MG Road, Bengaluru"}
	return fx
}

func standaloneRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID: 7,
		IssueDate:  time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC),
		Items: []dto.InvoiceItemInput{{
			ProductID: 10,
			Quantity:  dec("3"),
			SellPrice: dec("100.00"),
			HSNCode:   "3004",
			GSTRate:   dec("18"),
		}},
	}
}

func TestCreate_StandaloneInvoiceMath(t *testing.T) {
	fx := newBillingFixture(t)

	resp, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, standaloneRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-202511-0001", resp.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusDraft, resp.Status)
	assert.True(t, resp.SubTotal.Equal(dec("300.00")))
	assert.True(t, resp.TaxAmount.Equal(dec("54.00")))
	assert.True(t, resp.TotalAmount.Equal(dec("354.00")))
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "2025-11-12", resp.DueDate)

	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].CGSTRate.Equal(dec("9")))
	assert.True(t, resp.Items[0].SGSTRate.Equal(dec("9")))
	assert.True(t, resp.Items[0].IGSTRate.IsZero())
	assert.True(t, resp.Items[0].LineTotal.Equal(dec("354.00")))
}

func TestCreate_HeaderDiscountAndShipping(t *testing.T) {
	fx := newBillingFixture(t)
	req := standaloneRequest()
	req.DiscountAmount = dec("50.00")
	req.ShippingAmount = dec("40.00")

	resp, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, req)
	require.NoError(t, err)

	// header discount hits the base only: (300-50) + 54 + 40
	assert.True(t, resp.TotalAmount.Equal(dec("344.00")), "total = %s", resp.TotalAmount)
	assert.True(t, resp.TaxAmount.Equal(dec("54.00")), "tax unaffected by header discount")
}

func TestCreate_LineDiscountReducesTaxBase(t *testing.T) {
	fx := newBillingFixture(t)
	req := standaloneRequest()
	req.Items[0].Discount = dec("100.00")

	resp, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, req)
	require.NoError(t, err)

	// base 300-100=200, tax 18% split on 200
	assert.True(t, resp.SubTotal.Equal(dec("200.00")))
	assert.True(t, resp.TaxAmount.Equal(dec("36.00")))
	assert.True(t, resp.TotalAmount.Equal(dec("236.00")))
}

func TestCreate_FromOrderMirrorsItems(t *testing.T) {
	fx := newBillingFixture(t)
	orderID := int64(42)
	fx.orders.orders[orderID] = &entity.Order{ID: orderID, CustomerID: 7}
	fx.orders.items[orderID] = []*entity.OrderItem{{
		OrderID:   orderID,
		ProductID: 10,
		Quantity:  dec("2"),
		UnitPrice: dec("250.00"),
		Subtotal:  dec("500.00"),
		HSNCode:   "3004",
		GSTRate:   dec("12"),
	}}

	req := dto.CreateInvoiceRequest{CustomerID: 7, OrderID: &orderID}
	resp, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, req)
	require.NoError(t, err)

	require.NotNil(t, resp.OrderID)
	assert.Equal(t, orderID, *resp.OrderID)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.Equal(dec("250.00")))
	assert.True(t, resp.Items[0].TaxRate.Equal(dec("12")))
	assert.True(t, resp.SubTotal.Equal(dec("500.00")))
	assert.True(t, resp.TaxAmount.Equal(dec("60.00")))
}

func TestCreate_FromOrderRejectsForeignCustomer(t *testing.T) {
	fx := newBillingFixture(t)
	orderID := int64(42)
	fx.orders.orders[orderID] = &entity.Order{ID: orderID, CustomerID: 99}
	fx.customers.customers[7] = &entity.Customer{ID: 7, Name: "Apollo Pharmacy"}

	req := dto.CreateInvoiceRequest{CustomerID: 7, OrderID: &orderID}
	_, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_NumbersIncrementWithinMonth(t *testing.T) {
	fx := newBillingFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}

	first, err := fx.uc.Create(context.Background(), actor, standaloneRequest())
	require.NoError(t, err)
	second, err := fx.uc.Create(context.Background(), actor, standaloneRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-202511-0001", first.InvoiceNumber)
	assert.Equal(t, "INV-202511-0002", second.InvoiceNumber)
}

func TestCreate_Validation(t *testing.T) {
	fx := newBillingFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}

	req := standaloneRequest()
	req.Items = nil
	_, err := fx.uc.Create(context.Background(), actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = standaloneRequest()
	req.Items[0].Quantity = dec("-1")
	_, err = fx.uc.Create(context.Background(), actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = standaloneRequest()
	req.DiscountAmount = dec("-5")
	_, err = fx.uc.Create(context.Background(), actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = standaloneRequest()
	req.Items[0].GSTRate = dec("29") // above the top slab
	_, err = fx.uc.Create(context.Background(), actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSend_MailsAndMarksSent(t *testing.T) {
	fx := newBillingFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	created, err := fx.uc.Create(context.Background(), actor, standaloneRequest())
	require.NoError(t, err)

	require.NoError(t, fx.uc.Send(context.Background(), actor, created.ID))

	assert.Equal(t, entity.InvoiceStatusSent, fx.invoices.invoices[created.ID].Status)
	assert.Equal(t, 1, fx.mailer.sent)
	assert.Equal(t, "orders@apollo.example", fx.mailer.to)
}

func TestSend_RequiresCustomerEmail(t *testing.T) {
	fx := newBillingFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	fx.customers.customers[7].Email = ""
	created, err := fx.uc.Create(context.Background(), actor, standaloneRequest())
	require.NoError(t, err)

	err = fx.uc.Send(context.Background(), actor, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, fx.mailer.sent)
}

func TestDownloadPDF_NamesFileAfterInvoiceNumber(t *testing.T) {
	fx := newBillingFixture(t)
	actor := entity.Actor{ID: 1, Name: "Asha"}
	created, err := fx.uc.Create(context.Background(), actor, standaloneRequest())
	require.NoError(t, err)

	doc, name, err := fx.uc.DownloadPDF(context.Background(), actor, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
	assert.Equal(t, created.InvoiceNumber+".pdf", name)
	assert.Equal(t, 1, fx.pdf.rendered)
}

func TestUpdateStatus_RejectsUnknown(t *testing.T) {
	fx := newBillingFixture(t)
	created, err := fx.uc.Create(context.Background(), entity.Actor{ID: 1, Name: "Asha"}, standaloneRequest())
	require.NoError(t, err)

	assert.ErrorIs(t, fx.uc.UpdateStatus(context.Background(), created.ID, "Shredded"), domain.ErrInvalidInput)
	require.NoError(t, fx.uc.UpdateStatus(context.Background(), created.ID, entity.InvoiceStatusPaid))
	assert.Equal(t, entity.InvoiceStatusPaid, fx.invoices.invoices[created.ID].Status)
}
