package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

func (r *contactRepository) Create(ctx context.Context, m *model.ContactMessage) error {
	m.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	query := `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1
	`
	var messages []*model.ContactMessage
	if err := r.db.SelectContext(ctx, &messages, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, nil
}
