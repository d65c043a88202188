// Package billing implements invoice creation, numbering, rendering and
// delivery. Invoices are pure financial documents: nothing in this package
// touches stock.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/notify"
	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/gst"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
	"github.com/pharmstock/pharmstock-api/pkg/logger"
)

// Options pins the deployment-level billing conventions.
type Options struct {
	CompanyProfileID int64
	Currency         string
	DueDays          int
}

// UseCase drives the invoice lifecycle.
type UseCase struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	txRunner  TxRunner
	numberer  InvoiceNumberer
	notifier  *notify.Notifier
	pdf       PDFGenerator
	mailer    Mailer
	opts      Options
	log       *logger.Logger
}

// NewUseCase builds the billing use case. The plain repositories serve
// reads; writes go through txRunner.
func NewUseCase(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	txRunner TxRunner,
	numberer InvoiceNumberer,
	notifier *notify.Notifier,
	pdf PDFGenerator,
	mailer Mailer,
	opts Options,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		invoices:  invoices,
		customers: customers,
		txRunner:  txRunner,
		numberer:  numberer,
		notifier:  notifier,
		pdf:       pdf,
		mailer:    mailer,
		opts:      opts,
		log:       log,
	}
}

// Create builds an invoice either from an existing order's items (OrderID
// set, Items empty) or from the request's item list. Numbering, the header
// and the frozen items commit in one transaction.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateCreateInvoice(req); err != nil {
		return nil, err
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	currency := req.Currency
	if currency == "" {
		currency = uc.opts.Currency
	}

	var (
		invoice *entity.Invoice
		frozen  []*entity.InvoiceItem
	)
	err := uc.txRunner.RunBilling(ctx, func(
		invoices repository.InvoiceRepository,
		orders repository.OrderRepository,
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

		items, err := uc.buildItems(ctx, orders, req)
		if err != nil {
			return err
		}

		subTotal, taxTotal := decimal.Zero, decimal.Zero
		for _, it := range items {
			line := gst.ComputeLine(gst.LineInput{
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Discount:  it.Discount,
				GSTRate:   it.TaxRate,
			})
			it.CGSTRate = line.CGSTRate
			it.SGSTRate = line.SGSTRate
			it.IGSTRate = line.IGSTRate
			it.LineTotal = line.Total
			subTotal = subTotal.Add(line.Base)
			taxTotal = taxTotal.Add(line.Tax)
		}

		number, err := uc.numberer.Next(ctx, invoices, req.OrderID, issueDate)
		if err != nil {
			return err
		}
		due := req.DueDate
		if due == nil {
			d := issueDate.AddDate(0, 0, uc.opts.DueDays)
			due = &d
		}

		invoice = &entity.Invoice{
			InvoiceNumber:    number,
			CustomerID:       req.CustomerID,
			OrderID:          req.OrderID,
			CompanyProfileID: company.ID,
			IssueDate:        issueDate,
			DueDate:          due,
			Currency:         currency,
			SubTotal:         subTotal,
			DiscountAmount:   req.DiscountAmount,
			TaxAmount:        taxTotal,
			ShippingAmount:   req.ShippingAmount,
			TotalAmount:      gst.GrandTotal(subTotal, req.DiscountAmount, taxTotal, req.ShippingAmount),
			AmountPaid:       decimal.Zero,
			Status:           entity.InvoiceStatusDraft,
			Notes:            req.Notes,
			Terms:            req.Terms,
			CompanyName:      company.Name,
			CompanyAddress:   company.Address,
		}
		if err := invoices.Create(ctx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		for _, it := range items {
			it.InvoiceID = invoice.ID
			if err := invoices.CreateItem(ctx, it); err != nil {
				return fmt.Errorf("create invoice item (product %d): %w", it.ProductID, err)
			}
		}
		frozen = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_number", invoice.InvoiceNumber).
		Str("total", invoice.TotalAmount.String()).
		Msg("invoice created")

	uc.notifier.Emit(ctx, actor, notify.EventInvoiceCreated,
		"Invoice Created",
		"{{performer_name}} created invoice {{invoice_number}} for {{amount}} at {{timestamp}}.",
		map[string]string{
			"invoice_number": invoice.InvoiceNumber,
			"amount":         notify.FormatAmount(invoice.TotalAmount),
		})

	resp := dto.NewInvoiceResponse(invoice, frozen)
	return &resp, nil
}

// buildItems freezes the request items, or mirrors the backing order's
// items when the request carries none.
func (uc *UseCase) buildItems(ctx context.Context, orders repository.OrderRepository, req dto.CreateInvoiceRequest) ([]*entity.InvoiceItem, error) {
	if len(req.Items) > 0 {
		items := make([]*entity.InvoiceItem, 0, len(req.Items))
		for _, in := range req.Items {
			items = append(items, &entity.InvoiceItem{
				ProductID:   in.ProductID,
				BatchID:     in.BatchID,
				Description: in.Description,
				HSNCode:     in.HSNCode,
				Quantity:    in.Quantity,
				UnitPrice:   in.SellPrice,
				Discount:    in.Discount,
				TaxRate:     in.GSTRate,
			})
		}
		return items, nil
	}

	order, err := orders.GetByID(ctx, *req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", *req.OrderID, err)
	}
	if order.CustomerID != req.CustomerID {
		return nil, fmt.Errorf("order %d belongs to another customer: %w", order.ID, domain.ErrInvalidInput)
	}
	orderItems, err := orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("order %d items: %w", order.ID, err)
	}
	if len(orderItems) == 0 {
		return nil, fmt.Errorf("order %d has no items: %w", order.ID, domain.ErrInvalidInput)
	}

	items := make([]*entity.InvoiceItem, 0, len(orderItems))
	for _, oi := range orderItems {
		items = append(items, &entity.InvoiceItem{
			ProductID: oi.ProductID,
			BatchID:   oi.BatchID,
			HSNCode:   oi.HSNCode,
			Quantity:  oi.Quantity,
			UnitPrice: oi.UnitPrice,
			Discount:  decimal.Zero,
			TaxRate:   oi.GSTRate,
		})
	}
	return items, nil
}

// Get loads the invoice with its frozen items.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	invoice, items, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewInvoiceResponse(invoice, items)
	return &resp, nil
}

// List returns a page of invoice headers without items.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoices.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp := dto.NewInvoiceResponse(inv, nil)
		out = append(out, &resp)
	}
	return out, nil
}

// UpdateStatus transitions the invoice status.
func (uc *UseCase) UpdateStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case entity.InvoiceStatusDraft, entity.InvoiceStatusSent,
		entity.InvoiceStatusPartiallyPaid, entity.InvoiceStatusPaid,
		entity.InvoiceStatusVoid:
	default:
		return fmt.Errorf("unknown invoice status %q: %w", status, domain.ErrInvalidInput)
	}
	if err := uc.invoices.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update invoice %d: %w", id, err)
	}
	return nil
}

// DownloadPDF renders the invoice document.
func (uc *UseCase) DownloadPDF(ctx context.Context, actor entity.Actor, id int64) ([]byte, string, error) {
	invoice, items, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.customers.GetByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("customer %d: %w", invoice.CustomerID, err)
	}
	doc, err := uc.pdf.InvoicePDF(ctx, invoice, items, customer)
	if err != nil {
		return nil, "", fmt.Errorf("render invoice %s: %w", invoice.InvoiceNumber, err)
	}

	uc.notifier.Emit(ctx, actor, notify.EventInvoiceDownload,
		"Invoice Downloaded",
		"{{performer_name}} downloaded invoice {{invoice_number}} at {{timestamp}}.",
		map[string]string{"invoice_number": invoice.InvoiceNumber})

	return doc, invoice.InvoiceNumber + ".pdf", nil
}

// Send renders the invoice, emails it to the customer and marks the
// invoice Sent. The mail goes out only after the status write succeeds.
func (uc *UseCase) Send(ctx context.Context, actor entity.Actor, id int64) error {
	invoice, items, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	customer, err := uc.customers.GetByID(ctx, invoice.CustomerID)
	if err != nil {
		return fmt.Errorf("customer %d: %w", invoice.CustomerID, err)
	}
	if customer.Email == "" {
		return fmt.Errorf("customer %d has no email: %w", customer.ID, domain.ErrInvalidInput)
	}

	doc, err := uc.pdf.InvoicePDF(ctx, invoice, items, customer)
	if err != nil {
		return fmt.Errorf("render invoice %s: %w", invoice.InvoiceNumber, err)
	}
	if err := uc.invoices.UpdateStatus(ctx, id, entity.InvoiceStatusSent); err != nil {
		return fmt.Errorf("mark invoice %d sent: %w", id, err)
	}
	if err := uc.mailer.SendInvoice(ctx, customer.Email, invoice, doc); err != nil {
		// status already flipped; surface the delivery failure
		return fmt.Errorf("mail invoice %s to %s: %w", invoice.InvoiceNumber, customer.Email, err)
	}

	uc.notifier.Emit(ctx, actor, notify.EventInvoiceSent,
		"Invoice Sent",
		"Invoice {{invoice_number}} was emailed to {{customer}} at {{timestamp}}.",
		map[string]string{
			"invoice_number": invoice.InvoiceNumber,
			"customer":       customer.Name,
		})
	return nil
}

func (uc *UseCase) load(ctx context.Context, id int64) (*entity.Invoice, []*entity.InvoiceItem, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("invoice %d: %w", id, err)
	}
	items, err := uc.invoices.ListItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("invoice %d items: %w", id, err)
	}
	return invoice, items, nil
}

func validateCreateInvoice(req dto.CreateInvoiceRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("customer_id is required: %w", domain.ErrInvalidInput)
	}
	if len(req.Items) == 0 && req.OrderID == nil {
		return fmt.Errorf("invoice needs items or a backing order: %w", domain.ErrInvalidInput)
	}
	if req.DiscountAmount.IsNegative() || req.ShippingAmount.IsNegative() {
		return fmt.Errorf("discount and shipping cannot be negative: %w", domain.ErrInvalidInput)
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("items[%d]: product_id is required: %w", i, domain.ErrInvalidInput)
		}
		if !item.Quantity.IsPositive() {
			return fmt.Errorf("items[%d]: quantity must be positive: %w", i, domain.ErrInvalidInput)
		}
		if item.SellPrice.IsNegative() || item.Discount.IsNegative() {
			return fmt.Errorf("items[%d]: price and discount cannot be negative: %w", i, domain.ErrInvalidInput)
		}
		if item.GSTRate.IsNegative() || item.GSTRate.GreaterThan(gst.MaxRate) {
			return fmt.Errorf("items[%d]: gst_rate must be between 0 and %s: %w", i, gst.MaxRate, domain.ErrInvalidInput)
		}
	}
	return nil
}
