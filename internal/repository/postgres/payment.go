package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

const paymentColumns = `
	id, gateway_order_id, gateway_payment_id, signature, amount, currency,
	method, bank, wallet, vpa, status, error_code, error_description,
	created_at, updated_at
`

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (gateway_order_id, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	p.Status = model.PaymentStatusCreated

	err := r.db.QueryRowContext(ctx, query,
		p.GatewayOrderID, p.Amount, p.Currency, p.Status, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE gateway_order_id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment by order: %w", err)
	}
	return &p, nil
}

func (r *paymentRepository) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE gateway_payment_id = $1`, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment by gateway id: %w", err)
	}
	return &p, nil
}

// MarkPaid advances a payment to paid, keyed by gateway order id. The
// status guard makes the statement a no-op when the payment is already
// paid or refunded, so replayed verifications and webhook retries cannot
// double-credit.
func (r *paymentRepository) MarkPaid(ctx context.Context, orderID, paymentID string, signature, method, bank, wallet, vpa *string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments SET
			gateway_payment_id = $1, status = $2, signature = $3, method = $4,
			bank = $5, wallet = $6, vpa = $7, updated_at = $8
		WHERE gateway_order_id = $9 AND status IN ($10, $11)
	`, paymentID, model.PaymentStatusPaid, signature, method, bank, wallet, vpa,
		time.Now(), orderID, model.PaymentStatusCreated, model.PaymentStatusFailed)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, orderID string, code, description *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $1, error_code = $2, error_description = $3, updated_at = $4
		WHERE gateway_order_id = $5 AND status = $6
	`, model.PaymentStatusFailed, code, description, time.Now(), orderID, model.PaymentStatusCreated)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return nil
}

func (r *paymentRepository) MarkRefunded(ctx context.Context, paymentID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $1, updated_at = $2
		WHERE gateway_payment_id = $3 AND status = $4
	`, model.PaymentStatusRefunded, time.Now(), paymentID, model.PaymentStatusPaid)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment refunded: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
