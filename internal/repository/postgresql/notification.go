package postgresql

import (
	"context"
	"fmt"

	"github.com/printhub-store/backend/internal/db"
	"github.com/printhub-store/backend/internal/repository"
)

type NotificationRepo struct {
	db db.DB
}

func NewNotificationRepo(db db.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

const insertNotificationQuery = `
        INSERT INTO notifications (
            id, user_id, order_id, title, message, seller_mobile_numbers, is_read, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func notificationArgs(n *repository.Notification) []interface{} {
	return []interface{}{
		n.ID, n.UserID, n.OrderID, n.Title, n.Message, n.SellerMobileNumbers, n.IsRead, n.CreatedAt,
	}
}

func (r *NotificationRepo) Create(ctx context.Context, n *repository.Notification) error {
	_, err := r.db.Exec(ctx, insertNotificationQuery, notificationArgs(n)...)
	return err
}

// CreateTx inserts the notification on the same transaction as the
// order update that produced it.
func (r *NotificationRepo) CreateTx(ctx context.Context, tx db.Tx, n *repository.Notification) error {
	_, err := tx.Exec(ctx, insertNotificationQuery, notificationArgs(n)...)
	return err
}

func (r *NotificationRepo) GetByUserID(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error) {
	query := "SELECT * FROM notifications WHERE user_id = $1"
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC"

	var notifications []*repository.Notification
	err := r.db.Select(ctx, &notifications, query, userID)
	return notifications, err
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
