package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

// NotificationHandler serves the stored activity feed for the calling
// actor. Thin enough to sit directly on the repository.
type NotificationHandler struct {
	repo repository.NotificationRepository
}

// NewNotificationHandler builds the handler.
func NewNotificationHandler(repo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

type notificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Icon      string `json:"icon"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func toNotificationResponse(n *entity.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Icon:      n.Icon,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// List returns the actor's notifications, newest first.
// GET /api/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	page.DefaultPage()

	actor := GetActor(c)
	rows, err := h.repo.ListByUser(c.Context(), actor.ID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]notificationResponse, 0, len(rows))
	for _, n := range rows {
		out = append(out, toNotificationResponse(n))
	}
	return c.JSON(out)
}

// MarkRead flags one notification as read.
// PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	if err := h.repo.MarkRead(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
