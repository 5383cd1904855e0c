package repository

import (
	"context"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context, role model.UserRole) ([]*model.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	CountByRole(ctx context.Context) (map[model.UserRole]int, error)
}

type TestRepository interface {
	Create(ctx context.Context, t *model.Test) error
	Update(ctx context.Context, t *model.Test) error
	Get(ctx context.Context, id int64) (*model.Test, error)
	GetActive(ctx context.Context, id int64) (*model.Test, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Test, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type LabRepository interface {
	Create(ctx context.Context, l *model.Lab) error
	Update(ctx context.Context, l *model.Lab) error
	Get(ctx context.Context, id int64) (*model.Lab, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Lab, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type DoctorRepository interface {
	Create(ctx context.Context, d *model.Doctor) error
	Update(ctx context.Context, d *model.Doctor) error
	Get(ctx context.Context, id int64) (*model.Doctor, error)
	GetActive(ctx context.Context, id int64) (*model.Doctor, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Doctor, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type BookingRepository interface {
	// Create persists the booking and its line items atomically.
	Create(ctx context.Context, b *model.Booking) error
	GetByRef(ctx context.Context, ref string) (*model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID int64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64, f model.BookingFilter) ([]*model.Booking, error)
	ListByCollector(ctx context.Context, collectorID int64, f model.BookingFilter) ([]*model.Booking, error)
	List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, error)
	ListTests(ctx context.Context, bookingID int64) ([]*model.BookingTest, error)
	AssignCollector(ctx context.Context, id, collectorID int64) error
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	Cancel(ctx context.Context, id int64) error
	LinkPayment(ctx context.Context, id, paymentID int64) error
	// MarkPaid flips payment_status to paid and advances pending
	// bookings to confirmed. The returned flag is true only when this
	// call performed the pending->confirmed move, so the caller can
	// decide whether to send the confirmation exactly once.
	MarkPaid(ctx context.Context, id int64) (confirmed bool, err error)
	MarkPaymentFailed(ctx context.Context, id int64) error
	MarkRefunded(ctx context.Context, id int64) error
	SetReport(ctx context.Context, id int64, url, file, notes *string) error
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int, error)
	PaidRevenue(ctx context.Context) (float64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	Get(ctx context.Context, id int64) (*model.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	GetByGatewayPaymentID(ctx context.Context, paymentID string) (*model.Payment, error)
	// MarkPaid is idempotent: it only advances payments that are not
	// already paid or refunded, and reports whether a row moved. The
	// signature, when present, is kept for the audit trail.
	MarkPaid(ctx context.Context, orderID, paymentID string, signature, method, bank, wallet, vpa *string) (bool, error)
	MarkFailed(ctx context.Context, orderID string, code, description *string) error
	MarkRefunded(ctx context.Context, paymentID string) (bool, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByRef(ctx context.Context, ref string) (*model.Appointment, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Appointment, error)
	List(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Get(ctx context.Context, id int64) (*model.Notification, error)
	List(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, error)
	ListFailedSince(ctx context.Context, since time.Time, limit int) ([]*model.Notification, error)
}

type ReportRepository interface {
	Create(ctx context.Context, r *model.Report) error
	LatestByBooking(ctx context.Context, bookingID int64) (*model.Report, error)
}

type ContactRepository interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	List(ctx context.Context, limit int) ([]*model.ContactMessage, error)
}
