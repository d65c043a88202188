package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLowStockRequest creates a replenishment request by hand.
type CreateLowStockRequest struct {
	SupplierID   int64           `json:"supplier_id"`
	ProductID    int64           `json:"product_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
}

// SendLowStockItemInput is one product line to order from a supplier.
type SendLowStockItemInput struct {
	ProductID    int64           `json:"product_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
}

// SendLowStockSupplier groups the lines going to one supplier in one
// purchase order.
type SendLowStockSupplier struct {
	SupplierID       int64                   `json:"supplier_id"`
	DeliveryDeadline time.Time               `json:"delivery_deadline"`
	Items            []SendLowStockItemInput `json:"items"`
}

// SendLowStockRequest fans purchase orders out to suppliers.
type SendLowStockRequest struct {
	Suppliers []SendLowStockSupplier `json:"suppliers"`
}

// RecordPurchaseRequest records received goods against a purchase order.
type RecordPurchaseRequest struct {
	PONumber   string          `json:"po_number"`
	SupplierID int64           `json:"supplier_id"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
}

// LowStockItemResponse is one replenishment request row.
type LowStockItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	SupplierID   int64           `json:"supplier_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	Status       string          `json:"status"`
}

// GenerateLowStockResponse reports a scan run. IDs covers every surviving
// row for products below the threshold, created or pre-existing.
type GenerateLowStockResponse struct {
	IDs     []int64 `json:"ids"`
	Created int     `json:"created"`
}

// SendLowStockResponse lists the purchase orders raised per supplier.
type SendLowStockResponse struct {
	PONumbers []string `json:"po_numbers"`
}
