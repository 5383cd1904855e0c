package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

const testColumns = `
	t.id, t.name, t.description, t.price, t.original_price, t.category,
	t.lab_id, l.name AS lab_name, t.report_time, t.fasting_required,
	t.is_active, t.created_at, t.updated_at
`

func (r *testRepository) Create(ctx context.Context, t *model.Test) error {
	query := `
		INSERT INTO tests (name, description, price, original_price, category, lab_id, report_time, fasting_required, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	t.IsActive = true

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.Price, t.OriginalPrice, t.Category,
		t.LabID, t.ReportTime, t.FastingRequired, t.IsActive,
		t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}
	return nil
}

func (r *testRepository) Update(ctx context.Context, t *model.Test) error {
	query := `
		UPDATE tests SET
			name = $1, description = $2, price = $3, original_price = $4,
			category = $5, lab_id = $6, report_time = $7,
			fasting_required = $8, updated_at = $9
		WHERE id = $10
	`
	t.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.Price, t.OriginalPrice, t.Category,
		t.LabID, t.ReportTime, t.FastingRequired, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update test: %w", err)
	}
	return checkAffected(result)
}

func (r *testRepository) Get(ctx context.Context, id int64) (*model.Test, error) {
	var t model.Test
	query := `SELECT ` + testColumns + ` FROM tests t LEFT JOIN labs l ON t.lab_id = l.id WHERE t.id = $1`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return &t, nil
}

func (r *testRepository) GetActive(ctx context.Context, id int64) (*model.Test, error) {
	var t model.Test
	query := `SELECT ` + testColumns + ` FROM tests t LEFT JOIN labs l ON t.lab_id = l.id WHERE t.id = $1 AND t.is_active`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return &t, nil
}

func (r *testRepository) List(ctx context.Context, activeOnly bool) ([]*model.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests t LEFT JOIN labs l ON t.lab_id = l.id`
	if activeOnly {
		query += ` WHERE t.is_active`
	}
	query += ` ORDER BY t.name`

	var tests []*model.Test
	if err := r.db.SelectContext(ctx, &tests, query); err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}

func (r *testRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tests SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update test status: %w", err)
	}
	return checkAffected(result)
}

const labColumns = `
	id, name, accreditation, rating, address, phone, email, tests_count,
	image, is_active, created_at, updated_at
`

func (r *labRepository) Create(ctx context.Context, l *model.Lab) error {
	query := `
		INSERT INTO labs (name, accreditation, rating, address, phone, email, tests_count, image, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	l.IsActive = true

	err := r.db.QueryRowContext(ctx, query,
		l.Name, l.Accreditation, l.Rating, l.Address, l.Phone, l.Email,
		l.TestsCount, l.Image, l.IsActive, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("failed to create lab: %w", err)
	}
	return nil
}

func (r *labRepository) Update(ctx context.Context, l *model.Lab) error {
	query := `
		UPDATE labs SET
			name = $1, accreditation = $2, rating = $3, address = $4,
			phone = $5, email = $6, tests_count = $7, image = $8, updated_at = $9
		WHERE id = $10
	`
	l.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		l.Name, l.Accreditation, l.Rating, l.Address, l.Phone, l.Email,
		l.TestsCount, l.Image, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lab: %w", err)
	}
	return checkAffected(result)
}

func (r *labRepository) Get(ctx context.Context, id int64) (*model.Lab, error) {
	var l model.Lab
	if err := r.db.GetContext(ctx, &l, `SELECT `+labColumns+` FROM labs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lab: %w", err)
	}
	return &l, nil
}

func (r *labRepository) List(ctx context.Context, activeOnly bool) ([]*model.Lab, error) {
	query := `SELECT ` + labColumns + ` FROM labs`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY rating DESC, name`

	var labs []*model.Lab
	if err := r.db.SelectContext(ctx, &labs, query); err != nil {
		return nil, fmt.Errorf("failed to list labs: %w", err)
	}
	return labs, nil
}

func (r *labRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE labs SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lab status: %w", err)
	}
	return checkAffected(result)
}

const doctorColumns = `
	id, name, specialty, qualification, experience, fee, image,
	available_days, is_active, created_at, updated_at
`

func (r *doctorRepository) Create(ctx context.Context, d *model.Doctor) error {
	query := `
		INSERT INTO doctors (name, specialty, qualification, experience, fee, image, available_days, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	d.IsActive = true

	err := r.db.QueryRowContext(ctx, query,
		d.Name, d.Specialty, d.Qualification, d.Experience, d.Fee,
		d.Image, d.AvailableDays, d.IsActive, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Update(ctx context.Context, d *model.Doctor) error {
	query := `
		UPDATE doctors SET
			name = $1, specialty = $2, qualification = $3, experience = $4,
			fee = $5, image = $6, available_days = $7, updated_at = $8
		WHERE id = $9
	`
	d.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		d.Name, d.Specialty, d.Qualification, d.Experience, d.Fee,
		d.Image, d.AvailableDays, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return checkAffected(result)
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.GetContext(ctx, &d, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &d, nil
}

func (r *doctorRepository) GetActive(ctx context.Context, id int64) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.GetContext(ctx, &d, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1 AND is_active`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &d, nil
}

func (r *doctorRepository) List(ctx context.Context, activeOnly bool) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE doctors SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor status: %w", err)
	}
	return checkAffected(result)
}
