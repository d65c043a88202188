package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// PurchaseOrderItemResponse is one requested line on a purchase order.
type PurchaseOrderItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
}

// PurchaseOrderResponse is a supplier-facing purchase order.
type PurchaseOrderResponse struct {
	ID               int64                       `json:"id"`
	PONumber         string                      `json:"po_number"`
	SupplierID       int64                       `json:"supplier_id"`
	DeliveryDeadline string                      `json:"delivery_deadline,omitempty"`
	Status           string                      `json:"status"`
	Items            []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// NewPurchaseOrderResponse maps a purchase order and its lines.
func NewPurchaseOrderResponse(po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) PurchaseOrderResponse {
	out := PurchaseOrderResponse{
		ID:         po.ID,
		PONumber:   po.PONumber,
		SupplierID: po.SupplierID,
		Status:     po.Status,
	}
	if po.DeliveryDeadline != nil {
		out.DeliveryDeadline = po.DeliveryDeadline.Format("2006-01-02")
	}
	for _, it := range items {
		out.Items = append(out.Items, PurchaseOrderItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			RequestedQty: it.RequestedQty,
			BuyPrice:     it.BuyPrice,
		})
	}
	return out
}
