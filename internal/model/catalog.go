package model

import "time"

type Test struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Price           float64   `json:"price" db:"price"`
	OriginalPrice   *float64  `json:"original_price,omitempty" db:"original_price"`
	Category        *string   `json:"category,omitempty" db:"category"`
	LabID           *int64    `json:"lab_id,omitempty" db:"lab_id"`
	LabName         *string   `json:"lab_name,omitempty" db:"lab_name"`
	ReportTime      string    `json:"report_time" db:"report_time"`
	FastingRequired bool      `json:"fasting_required" db:"fasting_required"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type Lab struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Accreditation *string   `json:"accreditation,omitempty" db:"accreditation"`
	Rating        float64   `json:"rating" db:"rating"`
	Address       *string   `json:"address,omitempty" db:"address"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	Email         *string   `json:"email,omitempty" db:"email"`
	TestsCount    int       `json:"tests_count" db:"tests_count"`
	Image         *string   `json:"image,omitempty" db:"image"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type Doctor struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Specialty     string    `json:"specialty" db:"specialty"`
	Qualification *string   `json:"qualification,omitempty" db:"qualification"`
	Experience    int       `json:"experience" db:"experience"`
	Fee           float64   `json:"fee" db:"fee"`
	Image         *string   `json:"image,omitempty" db:"image"`
	AvailableDays *string   `json:"available_days,omitempty" db:"available_days"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type UpsertTestRequest struct {
	Name            string   `json:"name" binding:"required,max=150"`
	Description     *string  `json:"description"`
	Price           float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice   *float64 `json:"original_price"`
	Category        *string  `json:"category"`
	LabID           *int64   `json:"lab_id"`
	ReportTime      string   `json:"report_time"`
	FastingRequired bool     `json:"fasting_required"`
}

type UpsertLabRequest struct {
	Name          string  `json:"name" binding:"required,max=150"`
	Accreditation *string `json:"accreditation"`
	Rating        float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone" binding:"omitempty,max=20"`
	Email         *string `json:"email" binding:"omitempty,email"`
	TestsCount    int     `json:"tests_count" binding:"omitempty,min=0"`
	Image         *string `json:"image"`
}

type UpsertDoctorRequest struct {
	Name          string  `json:"name" binding:"required,max=150"`
	Specialty     string  `json:"specialty" binding:"required,max=100"`
	Qualification *string `json:"qualification"`
	Experience    int     `json:"experience" binding:"omitempty,min=0"`
	Fee           float64 `json:"fee" binding:"required,gt=0"`
	Image         *string `json:"image"`
	AvailableDays *string `json:"available_days"`
}
