package postgres

import (
	"context"
	"fmt"

	"github.com/pharmstock/pharmstock-api/internal/domain"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implements the NotificationRepository port on PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository builds the notification adapter. Pass pool or tx.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create stores one notification.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, icon, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Icon, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser returns a page of the user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, icon, is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Icon, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkRead flips one notification to read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
