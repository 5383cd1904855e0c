package model

import "time"

type Report struct {
	ID           int64     `json:"id" db:"id"`
	BookingID    int64     `json:"booking_id" db:"booking_id"`
	FileName     string    `json:"file_name" db:"file_name"`
	OriginalName string    `json:"original_name" db:"original_name"`
	FilePath     string    `json:"file_path" db:"file_path"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	MimeType     string    `json:"mime_type" db:"mime_type"`
	UploadedBy   int64     `json:"uploaded_by" db:"uploaded_by"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
