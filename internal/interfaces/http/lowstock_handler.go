package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/application/inventory"
)

// LowStockHandler serves the replenishment pipeline: scan, manual entry
// and the fan-out to suppliers.
type LowStockHandler struct {
	uc *inventory.UseCase
}

// NewLowStockHandler builds the handler.
func NewLowStockHandler(uc *inventory.UseCase) *LowStockHandler {
	return &LowStockHandler{uc: uc}
}

// Generate scans aggregate stock and upserts one pending row per
// (product, supplier) below the threshold. Safe to call repeatedly.
// POST /api/low-stock/generate
func (h *LowStockHandler) Generate(c *fiber.Ctx) error {
	out, err := h.uc.Generate(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create adds a replenishment request by hand.
// POST /api/low-stock
func (h *LowStockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLowStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.CreateManual(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List returns all replenishment rows.
// GET /api/low-stock
func (h *LowStockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Send raises one purchase order per supplier group and mails it out.
// POST /api/low-stock/send
func (h *LowStockHandler) Send(c *fiber.Ctx) error {
	var in dto.SendLowStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.SendToSuppliers(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
