package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

const notificationColumns = `
	n.id, n.user_id, n.booking_id, n.channel, n.template, n.recipient,
	n.subject, n.status, n.error_message, n.sent_at, n.created_at
`

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, booking_id, channel, template, recipient, subject, status, error_message, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	n.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		n.UserID, n.BookingID, n.Channel, n.Template, n.Recipient,
		n.Subject, n.Status, n.ErrorMessage, n.SentAt, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	err := r.db.GetContext(ctx, &n, `SELECT `+notificationColumns+` FROM notifications n WHERE n.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *notificationRepository) List(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications n WHERE 1=1`
	args := []interface{}{}

	if f.UserID != nil {
		query += fmt.Sprintf(" AND n.user_id = $%d", len(args)+1)
		args = append(args, *f.UserID)
	}
	if f.BookingRef != "" {
		query += fmt.Sprintf(" AND n.booking_id = (SELECT id FROM bookings WHERE booking_ref = $%d)", len(args)+1)
		args = append(args, f.BookingRef)
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND n.status = $%d", len(args)+1)
		args = append(args, f.Status)
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY n.created_at DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// ListFailedSince returns failed entries with no later successful send of
// the same template for the same booking, i.e. the ones still worth
// retrying.
func (r *notificationRepository) ListFailedSince(ctx context.Context, since time.Time, limit int) ([]*model.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications n
		WHERE n.status = $1 AND n.created_at >= $2
		  AND NOT EXISTS (
			SELECT 1 FROM notifications s
			WHERE s.booking_id = n.booking_id
			  AND s.template = n.template
			  AND s.status = $3
			  AND s.created_at > n.created_at
		  )
		ORDER BY n.created_at ASC
		LIMIT $4
	`
	var notifications []*model.Notification
	err := r.db.SelectContext(ctx, &notifications, query,
		model.NotificationStatusFailed, since, model.NotificationStatusSent, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed notifications: %w", err)
	}
	return notifications, nil
}
