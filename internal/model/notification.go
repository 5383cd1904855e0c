package model

import "time"

type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "sent"
	NotificationStatusFailed NotificationStatus = "failed"
)

// Notification is one append-only audit row per attempted send. Rows are
// never updated; a resend produces a new row.
type Notification struct {
	ID           int64              `json:"id" db:"id"`
	UserID       int64              `json:"user_id" db:"user_id"`
	BookingID    *int64             `json:"booking_id,omitempty" db:"booking_id"`
	Channel      string             `json:"type" db:"channel"`
	Template     string             `json:"template" db:"template"`
	Recipient    string             `json:"recipient" db:"recipient"`
	Subject      string             `json:"subject" db:"subject"`
	Status       NotificationStatus `json:"status" db:"status"`
	ErrorMessage *string            `json:"error_message,omitempty" db:"error_message"`
	SentAt       *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}

type NotificationFilter struct {
	UserID     *int64
	BookingRef string
	Status     NotificationStatus
	Limit      int
}
