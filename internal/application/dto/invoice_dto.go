package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// InvoiceItemInput is one line for a standalone invoice.
type InvoiceItemInput struct {
	ProductID   int64           `json:"product_id"`
	BatchID     *int64          `json:"batch_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Discount    decimal.Decimal `json:"discount"`
	HSNCode     string          `json:"hsn_code"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
}

// CreateInvoiceRequest builds an invoice either from an existing order's
// items (OrderID set, Items empty) or from an arbitrary item list. Pure
// billing document: it never mutates stock.
type CreateInvoiceRequest struct {
	CustomerID     int64              `json:"customer_id"`
	OrderID        *int64             `json:"order_id"`
	IssueDate      time.Time          `json:"issue_date"`
	DueDate        *time.Time         `json:"due_date"`
	Currency       string             `json:"currency"`
	ShippingAmount decimal.Decimal    `json:"shipping_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Notes          string             `json:"notes"`
	Terms          string             `json:"terms"`
	Items          []InvoiceItemInput `json:"items"`
}

// InvoiceItemResponse is a frozen invoice line.
type InvoiceItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	BatchID     *int64          `json:"batch_id,omitempty"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	CGSTRate    decimal.Decimal `json:"cgst_rate"`
	SGSTRate    decimal.Decimal `json:"sgst_rate"`
	IGSTRate    decimal.Decimal `json:"igst_rate"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse is the invoice aggregate.
type InvoiceResponse struct {
	ID             int64                 `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     int64                 `json:"customer_id"`
	OrderID        *int64                `json:"order_id,omitempty"`
	IssueDate      string                `json:"issue_date"`
	DueDate        string                `json:"due_date,omitempty"`
	Currency       string                `json:"currency"`
	SubTotal       decimal.Decimal       `json:"sub_total"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	ShippingAmount decimal.Decimal       `json:"shipping_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	Status         string                `json:"status"`
	Items          []InvoiceItemResponse `json:"items"`
}

// NewInvoiceResponse maps the invoice aggregate to its response shape.
// items may be nil for header-only views.
func NewInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		OrderID:        inv.OrderID,
		IssueDate:      inv.IssueDate.Format("2006-01-02"),
		Currency:       inv.Currency,
		SubTotal:       inv.SubTotal,
		DiscountAmount: inv.DiscountAmount,
		TaxAmount:      inv.TaxAmount,
		ShippingAmount: inv.ShippingAmount,
		TotalAmount:    inv.TotalAmount,
		AmountPaid:     inv.AmountPaid,
		Status:         inv.Status,
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format("2006-01-02")
	}
	for _, item := range items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			BatchID:     item.BatchID,
			Description: item.Description,
			HSNCode:     item.HSNCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			CGSTRate:    item.CGSTRate,
			SGSTRate:    item.SGSTRate,
			IGSTRate:    item.IGSTRate,
			TaxRate:     item.TaxRate,
			LineTotal:   item.LineTotal,
		})
	}
	return resp
}
