package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, t := range appointmentTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID              int64             `json:"id" db:"id"`
	AppointmentRef  string            `json:"appointment_id" db:"appointment_ref"`
	UserID          int64             `json:"user_id" db:"user_id"`
	DoctorID        int64             `json:"doctor_id" db:"doctor_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	TimeSlot        string            `json:"time_slot" db:"time_slot"`
	Reason          *string           `json:"reason,omitempty" db:"reason"`
	Fee             float64           `json:"fee" db:"fee"`
	Status          AppointmentStatus `json:"status" db:"status"`
	PrescriptionURL *string           `json:"prescription_url,omitempty" db:"prescription_url"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`

	Doctor *Doctor `json:"doctor,omitempty" db:"-"`
}

type CreateAppointmentRequest struct {
	DoctorID        int64   `json:"doctor_id" binding:"required"`
	AppointmentDate string  `json:"appointment_date" binding:"required"`
	TimeSlot        string  `json:"time_slot" binding:"required,max=20"`
	Reason          *string `json:"reason"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}
