package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/catalog"
	"github.com/pharmstock/pharmstock-api/internal/application/dto"
)

// ProductHandler serves the product catalog: products, their batch sets
// and price records.
type ProductHandler struct {
	uc *catalog.UseCase
}

// NewProductHandler builds the handler.
func NewProductHandler(uc *catalog.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create registers a product with its initial batches.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID returns one product with batches and current price.
// GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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

// List returns products.
// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
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

// Update rewrites product fields and reconciles the batch set against the
// submitted one.
// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete removes a product and, via the schema, its batches.
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPrice appends a price record; history is kept.
// POST /api/products/:id/price
func (h *ProductHandler) SetPrice(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.SetPrice(c.Context(), GetActor(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
