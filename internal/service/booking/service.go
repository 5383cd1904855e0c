package booking

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/notification"
	"github.com/ShubhenduKH/TestMyBlood/internal/report"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
)

type Service struct {
	bookings repository.BookingRepository
	tests    repository.TestRepository
	users    repository.UserRepository
	reports  repository.ReportRepository
	storage  *report.Storage
	notifier notification.Dispatcher
	logger   zerolog.Logger
}

func NewService(
	bookings repository.BookingRepository,
	tests repository.TestRepository,
	users repository.UserRepository,
	reports repository.ReportRepository,
	storage *report.Storage,
	notifier notification.Dispatcher,
	logger zerolog.Logger,
) *Service {
	return &Service{
		bookings: bookings,
		tests:    tests,
		users:    users,
		reports:  reports,
		storage:  storage,
		notifier: notifier,
		logger:   logger.With().Str("component", "booking").Logger(),
	}
}

// Create books a home collection. Every requested test must resolve to
// an active catalog entry; one unknown or inactive ID fails the whole
// booking rather than silently booking a subset. Prices are snapshotted
// into line items at this moment.
func (s *Service) Create(ctx context.Context, user *model.User, req *model.CreateBookingRequest) (*model.Booking, error) {
	date, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date: %w", model.ErrInvalidInput)
	}

	var (
		items []*model.BookingTest
		total float64
	)
	for _, id := range req.Tests {
		t, err := s.tests.GetActive(ctx, id)
		if err != nil {
			if err == model.ErrNotFound {
				return nil, fmt.Errorf("test %d is not available: %w", id, model.ErrInvalidInput)
			}
			return nil, err
		}
		items = append(items, &model.BookingTest{
			TestID:    t.ID,
			TestName:  t.Name,
			TestPrice: t.Price,
			LabName:   t.LabName,
		})
		total += t.Price
	}

	b := &model.Booking{
		BookingRef:    model.NewBookingRef(),
		UserID:        user.ID,
		PatientName:   req.PatientName,
		Phone:         req.Phone,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		Pincode:       req.Pincode,
		BookingDate:   date,
		TimeSlot:      req.TimeSlot,
		TotalAmount:   total,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatePending,
		Tests:         items,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_ref", b.BookingRef).
		Int64("user_id", user.ID).
		Float64("total", total).
		Msg("booking created")
	return b, nil
}

// Get loads a booking the actor is allowed to see: patients their own,
// collectors their assignments, admins anything.
func (s *Service) Get(ctx context.Context, actor *model.User, ref string) (*model.Booking, error) {
	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, b); err != nil {
		return nil, err
	}
	return s.hydrate(ctx, b)
}

func (s *Service) ListMine(ctx context.Context, userID int64, f model.BookingFilter) ([]*model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID, f)
}

func (s *Service) ListForCollector(ctx context.Context, collectorID int64, f model.BookingFilter) ([]*model.Booking, error) {
	return s.bookings.ListByCollector(ctx, collectorID, f)
}

func (s *Service) ListAll(ctx context.Context, f model.BookingFilter) ([]*model.Booking, error) {
	return s.bookings.List(ctx, f)
}

// AssignCollector attaches a collector to a booking and confirms it.
// The patient is notified; the notification names the collector so the
// patient knows who will arrive.
func (s *Service) AssignCollector(ctx context.Context, ref string, collectorID int64) (*model.Booking, error) {
	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, fmt.Errorf("booking %s is %s: %w", ref, b.Status, model.ErrInvalidTransition)
	}

	collector, err := s.users.Get(ctx, collectorID)
	if err != nil {
		return nil, err
	}
	if collector.Role != model.RoleCollector || !collector.IsActive {
		return nil, fmt.Errorf("user %d is not an active collector: %w", collectorID, model.ErrInvalidInput)
	}

	if err := s.bookings.AssignCollector(ctx, b.ID, collectorID); err != nil {
		return nil, err
	}
	b.CollectorID = &collectorID
	b.Collector = collector
	if b.Status == model.BookingStatusPending {
		b.Status = model.BookingStatusConfirmed
	}

	if patient, err := s.users.Get(ctx, b.UserID); err == nil {
		s.notifier.CollectorAssigned(ctx, patient, b, collector)
	} else {
		s.logger.Error().Err(err).Str("booking_ref", ref).Msg("failed to load patient for notification")
	}
	return b, nil
}

// UpdateStatus advances a booking along the lifecycle. Collectors may
// only mark their own assignments collected; all other moves are admin
// operations. Illegal transitions are rejected before any write.
func (s *Service) UpdateStatus(ctx context.Context, actor *model.User, ref string, status model.BookingStatus) (*model.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, model.ErrInvalidInput)
	}
	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if actor.Role == model.RoleCollector {
		if b.CollectorID == nil || *b.CollectorID != actor.ID {
			return nil, model.ErrAccessDenied
		}
		if status != model.BookingStatusCollected {
			return nil, model.ErrAccessDenied
		}
	}

	if !b.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move booking from %s to %s: %w", b.Status, status, model.ErrInvalidTransition)
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, status); err != nil {
		return nil, err
	}
	b.Status = status
	now := time.Now()
	switch status {
	case model.BookingStatusCollected:
		b.CollectedAt = &now
	case model.BookingStatusCompleted:
		b.CompletedAt = &now
	}

	s.logger.Info().
		Str("booking_ref", ref).
		Str("status", string(status)).
		Int64("actor_id", actor.ID).
		Msg("booking status updated")

	if status == model.BookingStatusCollected {
		if patient, err := s.users.Get(ctx, b.UserID); err == nil {
			s.notifier.SampleCollected(ctx, patient, b)
		}
	}
	return b, nil
}

// Cancel is allowed to the owner or an admin, and only while no sample
// has been collected.
func (s *Service) Cancel(ctx context.Context, actor *model.User, ref string) (*model.Booking, error) {
	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && b.UserID != actor.ID {
		return nil, model.ErrAccessDenied
	}
	if !b.Status.Cancellable() {
		return nil, fmt.Errorf("cannot cancel a %s booking: %w", b.Status, model.ErrInvalidTransition)
	}

	if err := s.bookings.Cancel(ctx, b.ID); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatusCancelled
	return b, nil
}

// UploadReport stores an admin-uploaded report file for the booking,
// records it, and forces the booking to completed. The patient gets a
// report-ready notification.
func (s *Service) UploadReport(ctx context.Context, admin *model.User, ref string, fh *multipart.FileHeader, url, notes *string) (*model.Booking, error) {
	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingStatusCancelled {
		return nil, fmt.Errorf("cannot attach a report to a cancelled booking: %w", model.ErrInvalidTransition)
	}
	if fh == nil && (url == nil || *url == "") {
		return nil, fmt.Errorf("a report file or URL is required: %w", model.ErrInvalidInput)
	}

	var fileName *string
	if fh != nil {
		name, contentType, err := s.storage.Save(fh)
		if err != nil {
			return nil, err
		}
		fileName = &name

		path, err := s.storage.Path(name)
		if err != nil {
			return nil, err
		}
		rec := &model.Report{
			BookingID:    b.ID,
			FileName:     name,
			OriginalName: fh.Filename,
			FilePath:     path,
			FileSize:     fh.Size,
			MimeType:     contentType,
			UploadedBy:   admin.ID,
			Notes:        notes,
		}
		if err := s.reports.Create(ctx, rec); err != nil {
			return nil, err
		}
	}

	// SetReport also forces the booking to completed.
	if err := s.bookings.SetReport(ctx, b.ID, url, fileName, notes); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatusCompleted
	now := time.Now()
	b.CompletedAt = &now
	b.ReportURL = url
	b.ReportFile = fileName
	b.ReportNotes = notes

	if b.Tests, err = s.bookings.ListTests(ctx, b.ID); err != nil {
		return nil, err
	}
	if patient, err := s.users.Get(ctx, b.UserID); err == nil {
		s.notifier.ReportReady(ctx, patient, b)
	}
	return b, nil
}

// ReportLocation is the resolved download target for a booking report:
// exactly one of FilePath or RedirectURL is set.
type ReportLocation struct {
	FilePath    string
	ContentType string
	Filename    string
	RedirectURL string
}

// Report resolves where a booking's report lives. A stored file wins
// over an external URL; a booking with neither has no report.
func (s *Service) Report(ctx context.Context, actor *model.User, ref string) (*ReportLocation, error) {
	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, b); err != nil {
		return nil, err
	}

	if b.ReportFile != nil && *b.ReportFile != "" {
		path, err := s.storage.Path(*b.ReportFile)
		if err != nil {
			return nil, err
		}
		loc := &ReportLocation{FilePath: path, Filename: *b.ReportFile}
		if rec, err := s.reports.LatestByBooking(ctx, b.ID); err == nil {
			loc.ContentType = rec.MimeType
			loc.Filename = rec.OriginalName
		}
		return loc, nil
	}
	if b.ReportURL != nil && *b.ReportURL != "" {
		return &ReportLocation{RedirectURL: *b.ReportURL}, nil
	}
	return nil, model.ErrNotFound
}

func (s *Service) authorize(actor *model.User, b *model.Booking) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleCollector:
		if b.CollectorID != nil && *b.CollectorID == actor.ID {
			return nil
		}
	case model.RolePatient:
		if b.UserID == actor.ID {
			return nil
		}
	}
	return model.ErrAccessDenied
}

func (s *Service) hydrate(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	var err error
	if b.Tests, err = s.bookings.ListTests(ctx, b.ID); err != nil {
		return nil, err
	}
	if b.CollectorID != nil {
		if collector, err := s.users.Get(ctx, *b.CollectorID); err == nil {
			b.Collector = collector
		}
	}
	return b, nil
}
