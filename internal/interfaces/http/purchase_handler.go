package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/purchasing"
)

// PurchaseHandler serves goods receipts and the purchase orders they
// complete.
type PurchaseHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseHandler builds the handler.
func NewPurchaseHandler(uc *purchasing.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// RecordPurchase records received goods; a matching open purchase order
// flips to Completed.
// POST /api/purchases
func (h *PurchaseHandler) RecordPurchase(c *fiber.Ctx) error {
	var in dto.RecordPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if err := h.uc.RecordPurchase(c.Context(), GetActor(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// GetPurchaseOrder returns one purchase order with its lines.
// GET /api/purchase-orders/:id
func (h *PurchaseHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	po, items, err := h.uc.GetPurchaseOrder(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po, items))
}

// ListPurchaseOrders returns purchase orders without lines.
// GET /api/purchase-orders
func (h *PurchaseHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	pos, err := h.uc.ListPurchaseOrders(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(pos))
	for _, po := range pos {
		out = append(out, dto.NewPurchaseOrderResponse(po, nil))
	}
	return c.JSON(out)
}

// DeletePurchaseOrder removes a purchase order and its lines.
// DELETE /api/purchase-orders/:id
func (h *PurchaseHandler) DeletePurchaseOrder(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeletePurchaseOrder(c.Context(), GetActor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
