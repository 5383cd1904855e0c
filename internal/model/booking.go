package model

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCollected BookingStatus = "collected"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the legal forward-transition table. Cancellation
// is handled separately via Cancellable; report upload forces completed.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed},
	BookingStatusConfirmed: {BookingStatusCollected},
	BookingStatusCollected: {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether a booking in this state may still be
// cancelled. Once the sample is taken there is no way back.
func (s BookingStatus) Cancellable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type PaymentState string

const (
	PaymentStatePending  PaymentState = "pending"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateFailed   PaymentState = "failed"
	PaymentStateRefunded PaymentState = "refunded"
)

type Booking struct {
	ID            int64         `json:"id" db:"id"`
	BookingRef    string        `json:"booking_id" db:"booking_ref"`
	UserID        int64         `json:"user_id" db:"user_id"`
	PatientName   string        `json:"patient_name" db:"patient_name"`
	Phone         string        `json:"phone" db:"phone"`
	AddressLine1  string        `json:"address_line1" db:"address_line1"`
	AddressLine2  *string       `json:"address_line2,omitempty" db:"address_line2"`
	City          string        `json:"city" db:"city"`
	Pincode       string        `json:"pincode" db:"pincode"`
	BookingDate   time.Time     `json:"booking_date" db:"booking_date"`
	TimeSlot      string        `json:"time_slot" db:"time_slot"`
	CollectorID   *int64        `json:"collector_id,omitempty" db:"collector_id"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Discount      float64       `json:"discount" db:"discount"`
	Status        BookingStatus `json:"status" db:"status"`
	PaymentStatus PaymentState  `json:"payment_status" db:"payment_status"`
	PaymentID     *int64        `json:"payment_id,omitempty" db:"payment_id"`
	ReportURL     *string       `json:"report_url,omitempty" db:"report_url"`
	ReportFile    *string       `json:"report_file,omitempty" db:"report_file"`
	ReportNotes   *string       `json:"report_notes,omitempty" db:"report_notes"`
	CollectedAt   *time.Time    `json:"collected_at,omitempty" db:"collected_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`

	Tests     []*BookingTest `json:"tests,omitempty" db:"-"`
	Collector *User          `json:"collector,omitempty" db:"-"`
}

// BookingTest is a priced snapshot of one catalog test, fixed at booking
// time. Catalog price changes never touch these rows.
type BookingTest struct {
	ID        int64     `json:"id" db:"id"`
	BookingID int64     `json:"booking_id" db:"booking_id"`
	TestID    int64     `json:"test_id" db:"test_id"`
	TestName  string    `json:"test_name" db:"test_name"`
	TestPrice float64   `json:"test_price" db:"test_price"`
	LabName   *string   `json:"lab_name,omitempty" db:"lab_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewBookingRef builds a human-readable reference that sorts by creation
// time. The random suffix keeps concurrent writers from colliding at
// millisecond resolution.
func NewBookingRef() string {
	return newRef("BK")
}

func NewAppointmentRef() string {
	return newRef("APT")
}

func newRef(prefix string) string {
	suffix := make([]byte, 3)
	rand.Read(suffix)
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + hex.EncodeToString(suffix)
}

type CreateBookingRequest struct {
	Tests        []int64 `json:"tests" binding:"required,min=1"`
	BookingDate  string  `json:"booking_date" binding:"required"`
	TimeSlot     string  `json:"time_slot" binding:"required,max=20"`
	PatientName  string  `json:"patient_name" binding:"required,max=100"`
	Phone        string  `json:"phone" binding:"required,max=20"`
	AddressLine1 string  `json:"address_line1" binding:"required,max=255"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city" binding:"required,max=100"`
	Pincode      string  `json:"pincode" binding:"required,pincode"`
}

type UpdateBookingStatusRequest struct {
	Status      BookingStatus `json:"status" binding:"required"`
	CollectorID *int64        `json:"collector_id"`
}

type AssignCollectorRequest struct {
	CollectorID int64 `json:"collector_id" binding:"required"`
}

type BookingFilter struct {
	Status      BookingStatus
	Date        string
	Search      string
	CollectorID *int64
}
