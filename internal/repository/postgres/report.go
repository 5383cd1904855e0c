package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

func (r *reportRepository) Create(ctx context.Context, rep *model.Report) error {
	query := `
		INSERT INTO reports (booking_id, file_name, original_name, file_path, file_size, mime_type, uploaded_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	rep.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		rep.BookingID, rep.FileName, rep.OriginalName, rep.FilePath,
		rep.FileSize, rep.MimeType, rep.UploadedBy, rep.Notes, rep.CreatedAt,
	).Scan(&rep.ID)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *reportRepository) LatestByBooking(ctx context.Context, bookingID int64) (*model.Report, error) {
	var rep model.Report
	query := `
		SELECT id, booking_id, file_name, original_name, file_path, file_size, mime_type, uploaded_by, notes, created_at
		FROM reports
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &rep, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return &rep, nil
}
