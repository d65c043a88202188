package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/ordering"
)

// OrderHandler serves sales orders. Creating an order also derives its
// draft invoice in the same transaction.
type OrderHandler struct {
	uc *ordering.UseCase
}

// NewOrderHandler builds the handler.
func NewOrderHandler(uc *ordering.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create places an order, decrements batch stock and derives its invoice.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID returns one order with its lines and addresses.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List returns orders, newest first.
// GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByCustomer returns one customer's orders.
// GET /api/customers/:id/orders
func (h *OrderHandler) ListByCustomer(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListByCustomer(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update changes order status and payment mode. Financial fields are
// frozen at creation.
// PUT /api/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete removes an order. Derived invoices survive as standalone records.
// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), GetActor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
