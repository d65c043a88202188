package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchInput is one desired batch in a product payload. ID zero means a new
// batch; the full set replaces the product's existing batches.
type BatchInput struct {
	ID          int64           `json:"id"`
	BatchNumber string          `json:"batch_number"`
	StockLevel  decimal.Decimal `json:"stock_level"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	HasExpiry   bool            `json:"has_expiry"`
}

// CreateProductRequest creates a product with optional initial batches.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	ProductCode string          `json:"product_code"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	CategoryID  int64           `json:"category_id"`
	SupplierID  *int64          `json:"supplier_id"`
	HSNCode     string          `json:"hsn_code"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Batches     []BatchInput    `json:"batches"`
}

// UpdateProductRequest updates product fields and reconciles its batches
// against the supplied set.
type UpdateProductRequest struct {
	Name       string          `json:"name"`
	MaxStock   decimal.Decimal `json:"max_stock"`
	CategoryID int64           `json:"category_id"`
	SupplierID *int64          `json:"supplier_id"`
	HSNCode    string          `json:"hsn_code"`
	GSTRate    decimal.Decimal `json:"gst_rate"`
	Batches    []BatchInput    `json:"batches"`
}

// SetPriceRequest appends a price record effective now.
type SetPriceRequest struct {
	BuyPrice      decimal.Decimal `json:"buy_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// BatchResponse is one stock lot with its derived status.
type BatchResponse struct {
	ID          int64           `json:"id"`
	BatchNumber string          `json:"batch_number"`
	StockLevel  decimal.Decimal `json:"stock_level"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	HasExpiry   bool            `json:"has_expiry"`
	Status      string          `json:"status"`
}

// PriceResponse is the product's current price record.
type PriceResponse struct {
	BuyPrice      decimal.Decimal `json:"buy_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	DiscountType  string          `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	FinalPrice    decimal.Decimal `json:"final_price"`
}

// ProductResponse is the product aggregate.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	ProductCode string          `json:"product_code"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	CategoryID  int64           `json:"category_id"`
	SupplierID  *int64          `json:"supplier_id,omitempty"`
	HSNCode     string          `json:"hsn_code"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Batches     []BatchResponse `json:"batches,omitempty"`
	Price       *PriceResponse  `json:"price,omitempty"`
}
