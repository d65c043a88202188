package repository

import (
	"context"

	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
)

// NotificationRepository stores emitted notifications. Writes happen after
// the business transaction commits and must never feed back into it.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
}
