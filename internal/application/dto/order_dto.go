package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	ProductID int64           `json:"product_id"`
	BatchID   *int64          `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	HSNCode   string          `json:"hsn_code"`
	GSTRate   decimal.Decimal `json:"gst_rate"`
}

// AddressInput is a billing or shipping address.
type AddressInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// CreateOrderRequest creates an order with its items, addresses and the
// derived invoice in one unit of work.
type CreateOrderRequest struct {
	CustomerID int64            `json:"customer_id"`
	Date       time.Time        `json:"date"`
	Payment    string           `json:"payment"`
	Status     string           `json:"status"`
	Items      []OrderItemInput `json:"items"`
	Billing    AddressInput     `json:"billing"`
	Shipping   AddressInput     `json:"shipping"`
}

// UpdateOrderRequest mutates status and/or payment only. It never touches
// amounts, items or stock.
type UpdateOrderRequest struct {
	Status  string `json:"status"`
	Payment string `json:"payment"`
}

// OrderItemResponse is a live order line with its derived tax amounts.
type OrderItemResponse struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	BatchID    *int64          `json:"batch_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	HSNCode    string          `json:"hsn_code"`
	GSTRate    decimal.Decimal `json:"gst_rate"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	IGSTAmount decimal.Decimal `json:"igst_amount"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Total      decimal.Decimal `json:"total"`
}

// OrderResponse is the order aggregate.
type OrderResponse struct {
	ID        int64               `json:"id"`
	CustomerID int64              `json:"customer_id"`
	Date      string              `json:"date"`
	Amount    decimal.Decimal     `json:"amount"`
	Payment   string              `json:"payment"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	Invoice   *InvoiceResponse    `json:"invoice,omitempty"`
}
