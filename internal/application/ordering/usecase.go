// Package ordering implements the order/invoice orchestrator: a customer
// order is captured together with its addresses, priced line by line, its
// batch stock deducted and a Draft invoice derived, all in one unit of work.
package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/application/billing"
	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/gst"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
	"github.com/pharmstock/pharmstock-api/internal/domain/stock"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

const orderInvoiceNotes = "Auto-generated invoice from order"

// Options pins the deployment-level billing and stock conventions the
// orchestrator needs.
type Options struct {
	CompanyProfileID int64
	Currency         string
	DueDays          int
	StockPolicy      stock.OverdraftPolicy
}

// UseCase orchestrates the order aggregate.
type UseCase struct {
	orders   repository.OrderRepository
	invoices repository.InvoiceRepository
	txRunner TxRunner
	numberer billing.InvoiceNumberer
	notifier *notify.Notifier
	opts     Options
	log      *logger.Logger
}

// NewUseCase builds the orchestrator. The plain repositories serve reads;
// all writes go through txRunner.
func NewUseCase(
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	txRunner TxRunner,
	numberer billing.InvoiceNumberer,
	notifier *notify.Notifier,
	opts Options,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		orders:   orders,
		invoices: invoices,
		txRunner: txRunner,
		numberer: numberer,
		notifier: notifier,
		opts:     opts,
		log:      log,
	}
}

// Create captures the order, prices its items, deducts batch stock and
// derives the Draft invoice in a single transaction. The notification is
// emitted only after the commit.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.Order{
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Amount:     decimal.Zero,
		Payment:    req.Payment,
		Status:     req.Status,
	}
	if order.Date.IsZero() {
		order.Date = now
	}

	var (
		items   []*entity.OrderItem
		lines   []gst.Line
		invoice *entity.Invoice
	)

	err := uc.txRunner.Run(ctx, func(
		orders repository.OrderRepository,
		invoices repository.InvoiceRepository,
		batches repository.BatchRepository,
		products repository.ProductRepository,
		customers repository.CustomerRepository,
		companies repository.CompanyProfileRepository,
	) error {
		if _, err := customers.GetByID(ctx, req.CustomerID); err != nil {
			return fmt.Errorf("customer %d: %w", req.CustomerID, err)
		}
		company, err := companies.GetByID(ctx, uc.opts.CompanyProfileID)
		if err != nil {
			return fmt.Errorf("company profile %d: %w", uc.opts.CompanyProfileID, err)
		}

		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, addr := range buildAddresses(order.ID, req.Billing, req.Shipping) {
			if err := orders.CreateAddress(ctx, addr); err != nil {
				return fmt.Errorf("create %s address: %w", addr.Type, err)
			}
		}

		subTotal, taxTotal := decimal.Zero, decimal.Zero
		items = items[:0]
		lines = lines[:0]
		for _, in := range req.Items {
			product, err := products.GetByID(ctx, in.ProductID)
			if err != nil {
				return fmt.Errorf("product %d: %w", in.ProductID, err)
			}
			line := gst.ComputeLine(gst.LineInput{
				Quantity:  in.Quantity,
				UnitPrice: in.UnitPrice,
				GSTRate:   in.GSTRate,
			})
			item := &entity.OrderItem{
				OrderID:   order.ID,
				ProductID: in.ProductID,
				BatchID:   in.BatchID,
				Quantity:  in.Quantity,
				UnitPrice: in.UnitPrice,
				Subtotal:  line.Base,
				HSNCode:   in.HSNCode,
				GSTRate:   in.GSTRate,
				CGSTRate:  line.CGSTRate,
				SGSTRate:  line.SGSTRate,
				IGSTRate:  line.IGSTRate,
			}
			if err := orders.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("create order item (product %d): %w", in.ProductID, err)
			}
			if in.BatchID != nil {
				if err := uc.deductBatch(ctx, batches, product, *in.BatchID, in.Quantity); err != nil {
					return err
				}
			}
			items = append(items, item)
			lines = append(lines, line)
			subTotal = subTotal.Add(line.Base)
			taxTotal = taxTotal.Add(line.Tax)
		}

		order.Amount = subTotal.Add(taxTotal)
		if err := orders.UpdateAmount(ctx, order.ID, order.Amount); err != nil {
			return fmt.Errorf("update order amount: %w", err)
		}

		invoice, err = uc.deriveInvoice(ctx, invoices, order, company, items, lines, subTotal, taxTotal, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("order_id", order.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Str("amount", order.Amount.String()).
		Msg("order created")

	uc.notifier.Emit(ctx, actor, notify.EventOrderCreated,
		"New Order Created",
		"{{performer_name}} created order #{{order_id}} for {{amount}} at {{timestamp}}.",
		map[string]string{
			"order_id": fmt.Sprintf("%d", order.ID),
			"amount":   notify.FormatAmount(order.Amount),
		})
	uc.notifier.Emit(ctx, actor, notify.EventInvoiceCreated,
		"Invoice Created",
		"Invoice {{invoice_number}} was generated for order #{{order_id}} at {{timestamp}}.",
		map[string]string{
			"invoice_number": invoice.InvoiceNumber,
			"order_id":       fmt.Sprintf("%d", order.ID),
		})

	resp := toOrderResponse(order, items)
	inv := dto.NewInvoiceResponse(invoice, nil)
	resp.Invoice = &inv
	return resp, nil
}

// deductBatch locks the batch row, applies the deduction and persists level
// and status together.
func (uc *UseCase) deductBatch(
	ctx context.Context,
	batches repository.BatchRepository,
	product *entity.Product,
	batchID int64,
	quantity decimal.Decimal,
) error {
	batch, err := batches.GetForUpdate(ctx, batchID)
	if err != nil {
		return fmt.Errorf("batch %d: %w", batchID, err)
	}
	if batch.ProductID != product.ID {
		return fmt.Errorf("batch %d does not belong to product %d: %w", batchID, product.ID, domain.ErrInvalidInput)
	}

	level, status, err := stock.Apply(batch.StockLevel, quantity.Neg(), product.MaxStock, uc.opts.StockPolicy)
	if err != nil {
		return fmt.Errorf("deduct %s from batch %d: %w", quantity.String(), batchID, err)
	}
	if err := batches.UpdateStock(ctx, batchID, level, status); err != nil {
		return fmt.Errorf("update batch %d stock: %w", batchID, err)
	}
	return nil
}

// deriveInvoice freezes the priced lines into a Draft invoice for the order,
// numbered inside the same transaction.
func (uc *UseCase) deriveInvoice(
	ctx context.Context,
	invoices repository.InvoiceRepository,
	order *entity.Order,
	company *entity.CompanyProfile,
	items []*entity.OrderItem,
	lines []gst.Line,
	subTotal, taxTotal decimal.Decimal,
	now time.Time,
) (*entity.Invoice, error) {
	number, err := uc.numberer.Next(ctx, invoices, &order.ID, now)
	if err != nil {
		return nil, err
	}
	due := now.AddDate(0, 0, uc.opts.DueDays)
	invoice := &entity.Invoice{
		InvoiceNumber:    number,
		CustomerID:       order.CustomerID,
		OrderID:          &order.ID,
		CompanyProfileID: company.ID,
		IssueDate:        now,
		DueDate:          &due,
		Currency:         uc.opts.Currency,
		SubTotal:         subTotal,
		DiscountAmount:   decimal.Zero,
		TaxAmount:        taxTotal,
		ShippingAmount:   decimal.Zero,
		TotalAmount:      gst.GrandTotal(subTotal, decimal.Zero, taxTotal, decimal.Zero),
		AmountPaid:       decimal.Zero,
		Status:           entity.InvoiceStatusDraft,
		Notes:            orderInvoiceNotes,
		CompanyName:      company.Name,
		CompanyAddress:   company.Address,
	}
	if err := invoices.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	for idx, item := range items {
		line := lines[idx]
		invItem := &entity.InvoiceItem{
			InvoiceID: invoice.ID,
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			HSNCode:   item.HSNCode,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  decimal.Zero,
			CGSTRate:  line.CGSTRate,
			SGSTRate:  line.SGSTRate,
			IGSTRate:  line.IGSTRate,
			TaxRate:   item.GSTRate,
			LineTotal: line.Total,
		}
		if err := invoices.CreateItem(ctx, invItem); err != nil {
			return nil, fmt.Errorf("create invoice item (product %d): %w", item.ProductID, err)
		}
	}
	return invoice, nil
}

// Get loads the order with its items.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	items, err := uc.orders.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %d items: %w", id, err)
	}
	return toOrderResponse(order, items), nil
}

// List returns a page of order headers without items.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.OrderResponse, error) {
	page.DefaultPage()
	orders, err := uc.orders.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, nil
}

// ListByCustomer returns every order header for one customer.
func (uc *UseCase) ListByCustomer(ctx context.Context, customerID int64) ([]*dto.OrderResponse, error) {
	orders, err := uc.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("orders for customer %d: %w", customerID, err)
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, nil
}

// Update changes status and/or payment. It never touches amounts, items,
// stock or the derived invoice.
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id int64, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	status := order.Status
	if req.Status != "" {
		if !entity.ValidOrderStatus(req.Status) {
			return nil, fmt.Errorf("unknown order status %q: %w", req.Status, domain.ErrInvalidInput)
		}
		status = req.Status
	}
	payment := order.Payment
	if req.Payment != "" {
		payment = req.Payment
	}
	if err := uc.orders.UpdateStatusPayment(ctx, id, status, payment); err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	order.Status, order.Payment = status, payment

	uc.notifier.Emit(ctx, actor, notify.EventOrderUpdated,
		"Order Updated",
		"{{performer_name}} updated order #{{order_id}} to {{status}} at {{timestamp}}.",
		map[string]string{
			"order_id": fmt.Sprintf("%d", id),
			"status":   status,
		})
	return toOrderResponse(order, nil), nil
}

// Delete removes the order with its items and addresses. The derived
// invoice survives as a standalone financial record.
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, id int64) error {
	if _, err := uc.orders.GetByID(ctx, id); err != nil {
		return fmt.Errorf("order %d: %w", id, err)
	}
	if err := uc.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	uc.notifier.Emit(ctx, actor, notify.EventOrderDeleted,
		"Order Deleted",
		"{{performer_name}} deleted order #{{order_id}} at {{timestamp}}.",
		map[string]string{"order_id": fmt.Sprintf("%d", id)})
	return nil
}

func validateCreate(req dto.CreateOrderRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("customer_id is required: %w", domain.ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("order needs at least one item: %w", domain.ErrInvalidInput)
	}
	if req.Status != "" && !entity.ValidOrderStatus(req.Status) {
		return fmt.Errorf("unknown order status %q: %w", req.Status, domain.ErrInvalidInput)
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("items[%d]: product_id is required: %w", i, domain.ErrInvalidInput)
		}
		if !item.Quantity.IsPositive() {
			return fmt.Errorf("items[%d]: quantity must be positive: %w", i, domain.ErrInvalidInput)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("items[%d]: unit_price cannot be negative: %w", i, domain.ErrInvalidInput)
		}
		if item.GSTRate.IsNegative() || item.GSTRate.GreaterThan(gst.MaxRate) {
			return fmt.Errorf("items[%d]: gst_rate must be between 0 and %s: %w", i, gst.MaxRate, domain.ErrInvalidInput)
		}
	}
	return nil
}

func buildAddresses(orderID int64, billing, shipping dto.AddressInput) []*entity.OrderAddress {
	return []*entity.OrderAddress{
		addressFromInput(orderID, entity.AddressTypeBilling, billing),
		addressFromInput(orderID, entity.AddressTypeShipping, shipping),
	}
}

func addressFromInput(orderID int64, addrType string, in dto.AddressInput) *entity.OrderAddress {
	return &entity.OrderAddress{
		OrderID:      orderID,
		Type:         addrType,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
	}
}

func toOrderResponse(order *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Date:       order.Date.Format("2006-01-02"),
		Amount:     order.Amount,
		Payment:    order.Payment,
		Status:     order.Status,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			BatchID:    item.BatchID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Subtotal:   item.Subtotal,
			HSNCode:    item.HSNCode,
			GSTRate:    item.GSTRate,
			CGSTAmount: item.CGSTAmount(),
			SGSTAmount: item.SGSTAmount(),
			IGSTAmount: item.IGSTAmount(),
			TaxAmount:  item.TaxAmount(),
			Total:      item.Total(),
		})
	}
	return resp
}

