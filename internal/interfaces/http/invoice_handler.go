package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/billing"
	"github.com/pharmstock/pharmstock-api/internal/application/dto"
)

// InvoiceHandler serves invoices: standalone creation, retrieval, status
// transitions, PDF download and mail-out.
type InvoiceHandler struct {
	uc *billing.UseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create builds an invoice, standalone or referencing an order.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID returns one invoice with its frozen lines.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
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

// List returns invoices, newest first.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
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

// UpdateStatus moves the invoice through its lifecycle.
// PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if err := h.uc.UpdateStatus(c.Context(), id, in.Status); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF streams the rendered invoice.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, filename, err := h.uc.DownloadPDF(c.Context(), GetActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}

// Send mails the invoice PDF to the customer and marks it Sent.
// POST /api/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Send(c.Context(), GetActor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
