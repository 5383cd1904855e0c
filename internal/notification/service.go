package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ShubhenduKH/TestMyBlood/internal/email"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
	"github.com/ShubhenduKH/TestMyBlood/pkg/metrics"
)

// Dispatcher is the fire-and-log notification surface the rest of the
// application uses. Sends never return errors: a failed delivery is
// recorded in the audit log and must not abort the business operation
// that triggered it.
type Dispatcher interface {
	BookingConfirmed(ctx context.Context, user *model.User, booking *model.Booking)
	CollectorAssigned(ctx context.Context, user *model.User, booking *model.Booking, collector *model.User)
	SampleCollected(ctx context.Context, user *model.User, booking *model.Booking)
	ReportReady(ctx context.Context, user *model.User, booking *model.Booking)
}

const channelEmail = "email"

type Service struct {
	sender      email.Sender
	notifRepo   repository.NotificationRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	frontendURL string
	logger      zerolog.Logger
}

func NewService(
	sender email.Sender,
	notifRepo repository.NotificationRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	frontendURL string,
	logger zerolog.Logger,
) *Service {
	return &Service{
		sender:      sender,
		notifRepo:   notifRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		frontendURL: frontendURL,
		logger:      logger.With().Str("component", "notification").Logger(),
	}
}

func (s *Service) BookingConfirmed(ctx context.Context, user *model.User, booking *model.Booking) {
	data := BookingConfirmedData{
		PatientName:  booking.PatientName,
		BookingRef:   booking.BookingRef,
		BookingDate:  formatDate(booking.BookingDate),
		TimeSlot:     booking.TimeSlot,
		Address:      joinAddress(booking.AddressLine1, booking.AddressLine2, booking.City, booking.Pincode),
		Phone:        booking.Phone,
		Tests:        testLines(booking.Tests),
		TotalAmount:  booking.TotalAmount,
		DashboardURL: s.bookingURL(booking.BookingRef),
	}
	subject := "Booking confirmed: " + booking.BookingRef
	s.dispatch(ctx, user, &booking.ID, TemplateBookingConfirmed, subject, data)
}

func (s *Service) CollectorAssigned(ctx context.Context, user *model.User, booking *model.Booking, collector *model.User) {
	data := CollectorAssignedData{
		PatientName:    booking.PatientName,
		BookingRef:     booking.BookingRef,
		BookingDate:    formatDate(booking.BookingDate),
		TimeSlot:       booking.TimeSlot,
		Address:        joinAddress(booking.AddressLine1, booking.AddressLine2, booking.City, booking.Pincode),
		CollectorName:  collector.Name,
		CollectorPhone: collector.Phone,
		CollectorArea:  strOrEmpty(collector.Area),
		DashboardURL:   s.bookingURL(booking.BookingRef),
	}
	subject := "Phlebotomist assigned for booking " + booking.BookingRef
	s.dispatch(ctx, user, &booking.ID, TemplateCollectorAssigned, subject, data)
}

func (s *Service) SampleCollected(ctx context.Context, user *model.User, booking *model.Booking) {
	collectedAt := time.Now()
	if booking.CollectedAt != nil {
		collectedAt = *booking.CollectedAt
	}
	data := SampleCollectedData{
		PatientName:  booking.PatientName,
		BookingRef:   booking.BookingRef,
		CollectedAt:  formatDateTime(collectedAt),
		DashboardURL: s.bookingURL(booking.BookingRef),
	}
	subject := "Sample collected for booking " + booking.BookingRef
	s.dispatch(ctx, user, &booking.ID, TemplateSampleCollected, subject, data)
}

func (s *Service) ReportReady(ctx context.Context, user *model.User, booking *model.Booking) {
	completedAt := time.Now()
	if booking.CompletedAt != nil {
		completedAt = *booking.CompletedAt
	}
	// Uploaded files are served behind authentication, so the email
	// always points at the dashboard; an external URL can be linked
	// directly.
	reportURL := s.bookingURL(booking.BookingRef)
	if booking.ReportFile == nil && booking.ReportURL != nil {
		reportURL = *booking.ReportURL
	}
	data := ReportReadyData{
		PatientName:  booking.PatientName,
		BookingRef:   booking.BookingRef,
		CompletedAt:  formatDateTime(completedAt),
		Tests:        testLines(booking.Tests),
		ReportURL:    reportURL,
		ReportNotes:  strOrEmpty(booking.ReportNotes),
		DashboardURL: s.bookingURL(booking.BookingRef),
	}
	subject := "Your report is ready: " + booking.BookingRef
	s.dispatch(ctx, user, &booking.ID, TemplateReportReady, subject, data)
}

// dispatch renders, sends, and appends exactly one audit row. Every
// failure path still writes the row; only the audit write itself is
// allowed to fail silently (it is logged).
func (s *Service) dispatch(ctx context.Context, user *model.User, bookingID *int64, tmpl, subject string, data interface{}) {
	entry := &model.Notification{
		UserID:    user.ID,
		BookingID: bookingID,
		Channel:   channelEmail,
		Template:  tmpl,
		Recipient: user.Email,
		Subject:   subject,
		Status:    model.NotificationStatusSent,
	}

	body, err := render(tmpl, data)
	if err == nil {
		err = s.sender.Send(ctx, user.Email, subject, body)
	}

	if err != nil {
		msg := err.Error()
		entry.Status = model.NotificationStatusFailed
		entry.ErrorMessage = &msg
		s.logger.Error().Err(err).
			Str("template", tmpl).
			Str("recipient", user.Email).
			Msg("notification delivery failed")
	} else {
		now := time.Now()
		entry.SentAt = &now
		s.logger.Info().
			Str("template", tmpl).
			Str("recipient", user.Email).
			Msg("notification sent")
	}

	metrics.ObserveNotification(tmpl, string(entry.Status))

	if err := s.notifRepo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("template", tmpl).
			Msg("failed to record notification")
	}
}

// History returns audit rows matching the filter, newest first.
func (s *Service) History(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, error) {
	return s.notifRepo.List(ctx, f)
}

// Resend re-dispatches a historical notification against the current
// state of the booking, producing a fresh audit row. Entries whose
// booking no longer exists cannot be resent.
func (s *Service) Resend(ctx context.Context, id int64) error {
	entry, err := s.notifRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry.BookingID == nil {
		return fmt.Errorf("notification %d has no booking: %w", id, model.ErrInvalidInput)
	}

	user, err := s.userRepo.Get(ctx, entry.UserID)
	if err != nil {
		return err
	}
	booking, err := s.bookingRepo.GetByID(ctx, *entry.BookingID)
	if err != nil {
		return err
	}
	booking.Tests, err = s.bookingRepo.ListTests(ctx, booking.ID)
	if err != nil {
		return err
	}

	switch entry.Template {
	case TemplateBookingConfirmed:
		s.BookingConfirmed(ctx, user, booking)
	case TemplateCollectorAssigned:
		if booking.CollectorID == nil {
			return fmt.Errorf("booking %s has no collector: %w", booking.BookingRef, model.ErrInvalidInput)
		}
		collector, err := s.userRepo.Get(ctx, *booking.CollectorID)
		if err != nil {
			return err
		}
		s.CollectorAssigned(ctx, user, booking, collector)
	case TemplateSampleCollected:
		s.SampleCollected(ctx, user, booking)
	case TemplateReportReady:
		s.ReportReady(ctx, user, booking)
	default:
		return fmt.Errorf("unknown template %q: %w", entry.Template, model.ErrInvalidInput)
	}
	return nil
}

func (s *Service) bookingURL(ref string) string {
	return s.frontendURL + "/dashboard/bookings/" + ref
}

func testLines(tests []*model.BookingTest) []TestLine {
	lines := make([]TestLine, 0, len(tests))
	for _, t := range tests {
		lines = append(lines, TestLine{Name: t.TestName, Price: t.TestPrice})
	}
	return lines
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
