package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

const bookingColumns = `
	id, booking_ref, user_id, patient_name, phone, address_line1,
	address_line2, city, pincode, booking_date, time_slot, collector_id,
	total_amount, discount, status, payment_status, payment_id,
	report_url, report_file, report_notes, collected_at, completed_at,
	created_at, updated_at
`

// Create inserts the booking and its line-item snapshots in a single
// transaction so a crash can never leave a booking without tests.
func (r *bookingRepository) Create(ctx context.Context, b *model.Booking) error {
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO bookings (booking_ref, user_id, patient_name, phone, address_line1, address_line2, city, pincode, booking_date, time_slot, total_amount, discount, status, payment_status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			b.BookingRef, b.UserID, b.PatientName, b.Phone,
			b.AddressLine1, b.AddressLine2, b.City, b.Pincode,
			b.BookingDate, b.TimeSlot, b.TotalAmount, b.Discount,
			b.Status, b.PaymentStatus, b.CreatedAt, b.UpdatedAt,
		).Scan(&b.ID)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		for _, t := range b.Tests {
			t.BookingID = b.ID
			t.CreatedAt = b.CreatedAt
			err := tx.QueryRowContext(ctx, `
				INSERT INTO booking_tests (booking_id, test_id, test_name, test_price, lab_name, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, t.BookingID, t.TestID, t.TestName, t.TestPrice, t.LabName, t.CreatedAt).Scan(&t.ID)
			if err != nil {
				return fmt.Errorf("failed to create booking test: %w", err)
			}
		}
		return nil
	})
}

func (r *bookingRepository) GetByRef(ctx context.Context, ref string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE booking_ref = $1`, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) GetByPaymentID(ctx context.Context, paymentID int64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE payment_id = $1`, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64, f model.BookingFilter) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1`
	args := []interface{}{userID}
	query, args = appendBookingFilters(query, args, f)
	query += ` ORDER BY created_at DESC`

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListByCollector(ctx context.Context, collectorID int64, f model.BookingFilter) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE collector_id = $1`
	args := []interface{}{collectorID}
	query, args = appendBookingFilters(query, args, f)
	query += ` ORDER BY booking_date ASC, time_slot ASC`

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list collector bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	query, args = appendBookingFilters(query, args, f)

	if f.Search != "" {
		query += fmt.Sprintf(" AND (booking_ref ILIKE $%d OR patient_name ILIKE $%d)", len(args)+1, len(args)+2)
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.CollectorID != nil {
		query += fmt.Sprintf(" AND collector_id = $%d", len(args)+1)
		args = append(args, *f.CollectorID)
	}
	query += ` ORDER BY created_at DESC`

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func appendBookingFilters(query string, args []interface{}, f model.BookingFilter) (string, []interface{}) {
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, f.Status)
	}
	if f.Date != "" {
		query += fmt.Sprintf(" AND booking_date = $%d", len(args)+1)
		args = append(args, f.Date)
	}
	return query, args
}

func (r *bookingRepository) ListTests(ctx context.Context, bookingID int64) ([]*model.BookingTest, error) {
	var tests []*model.BookingTest
	query := `
		SELECT id, booking_id, test_id, test_name, test_price, lab_name, created_at
		FROM booking_tests
		WHERE booking_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &tests, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list booking tests: %w", err)
	}
	return tests, nil
}

func (r *bookingRepository) AssignCollector(ctx context.Context, id, collectorID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET collector_id = $1, status = $2, updated_at = $3
		WHERE id = $4
	`, collectorID, model.BookingStatusConfirmed, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to assign collector: %w", err)
	}
	return checkAffected(result)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2`
	switch status {
	case model.BookingStatusCollected:
		query += `, collected_at = NOW()`
	case model.BookingStatusCompleted:
		query += `, completed_at = NOW()`
	}
	query += ` WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return checkAffected(result)
}

func (r *bookingRepository) Cancel(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3
	`, model.BookingStatusCancelled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	return checkAffected(result)
}

func (r *bookingRepository) LinkPayment(ctx context.Context, id, paymentID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET payment_id = $1, updated_at = $2 WHERE id = $3
	`, paymentID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to link payment: %w", err)
	}
	return checkAffected(result)
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id int64) (bool, error) {
	// First statement only fires for the pending booking; it can
	// succeed at most once no matter how many verify/webhook calls
	// race, which is what makes the confirmation email single-shot.
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET payment_status = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`, model.PaymentStatePaid, model.BookingStatusConfirmed, time.Now(), id, model.BookingStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return true, nil
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE bookings SET payment_status = $1, updated_at = $2
		WHERE id = $3 AND payment_status <> $1
	`, model.PaymentStatePaid, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	return false, nil
}

func (r *bookingRepository) MarkPaymentFailed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET payment_status = $1, updated_at = $2
		WHERE id = $3 AND payment_status = $4
	`, model.PaymentStateFailed, time.Now(), id, model.PaymentStatePending)
	if err != nil {
		return fmt.Errorf("failed to mark booking payment failed: %w", err)
	}
	return nil
}

func (r *bookingRepository) MarkRefunded(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET payment_status = $1, status = $2, updated_at = $3
		WHERE id = $4
	`, model.PaymentStateRefunded, model.BookingStatusCancelled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark booking refunded: %w", err)
	}
	return checkAffected(result)
}

func (r *bookingRepository) SetReport(ctx context.Context, id int64, url, file, notes *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET
			report_url = $1, report_file = $2, report_notes = $3,
			status = $4, completed_at = NOW(), updated_at = $5
		WHERE id = $6
	`, url, file, notes, model.BookingStatusCompleted, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set report: %w", err)
	}
	return checkAffected(result)
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[model.BookingStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.BookingStatus]int)
	for rows.Next() {
		var status model.BookingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan booking count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *bookingRepository) PaidRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.GetContext(ctx, &revenue, `
		SELECT COALESCE(SUM(total_amount - discount), 0)
		FROM bookings WHERE payment_status = $1
	`, model.PaymentStatePaid)
	if err != nil {
		return 0, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return revenue, nil
}
