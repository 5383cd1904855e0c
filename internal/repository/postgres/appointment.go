package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

const appointmentColumns = `
	id, appointment_ref, user_id, doctor_id, appointment_date, time_slot,
	reason, fee, status, prescription_url, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO doctor_appointments (appointment_ref, user_id, doctor_id, appointment_date, time_slot, reason, fee, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		a.AppointmentRef, a.UserID, a.DoctorID, a.AppointmentDate,
		a.TimeSlot, a.Reason, a.Fee, a.Status, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) GetByRef(ctx context.Context, ref string) (*model.Appointment, error) {
	var a model.Appointment
	err := r.db.GetContext(ctx, &a, `SELECT `+appointmentColumns+` FROM doctor_appointments WHERE appointment_ref = $1`, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

func (r *appointmentRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM doctor_appointments WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &appointments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) List(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM doctor_appointments`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE doctor_appointments SET status = $1, updated_at = $2 WHERE id = $3
	`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return checkAffected(result)
}
