package model

import "time"

// ContactMessage is a public enquiry submitted through the website's
// contact form. Messages are write-only for visitors; admins read them.
type ContactMessage struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ContactRequest struct {
	Name    string  `json:"name" binding:"required,max=100"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Subject string  `json:"subject" binding:"required,max=200"`
	Message string  `json:"message" binding:"required,max=5000"`
}
