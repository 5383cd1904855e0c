package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
)

type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
}

func NewService(appointments repository.AppointmentRepository, doctors repository.DoctorRepository) *Service {
	return &Service{appointments: appointments, doctors: doctors}
}

// Create books a doctor consultation. The fee is snapshotted from the
// doctor's current listing, same as test prices on bookings.
func (s *Service) Create(ctx context.Context, user *model.User, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment date: %w", model.ErrInvalidInput)
	}

	doctor, err := s.doctors.GetActive(ctx, req.DoctorID)
	if err != nil {
		if err == model.ErrNotFound {
			return nil, fmt.Errorf("doctor %d is not available: %w", req.DoctorID, model.ErrInvalidInput)
		}
		return nil, err
	}

	a := &model.Appointment{
		AppointmentRef:  model.NewAppointmentRef(),
		UserID:          user.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: date,
		TimeSlot:        req.TimeSlot,
		Reason:          req.Reason,
		Fee:             doctor.Fee,
		Status:          model.AppointmentStatusPending,
		Doctor:          doctor,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, actor *model.User, ref string) (*model.Appointment, error) {
	a, err := s.appointments.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && a.UserID != actor.ID {
		return nil, model.ErrAccessDenied
	}
	if doctor, err := s.doctors.Get(ctx, a.DoctorID); err == nil {
		a.Doctor = doctor
	}
	return a, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	return s.appointments.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, status)
}

// UpdateStatus moves an appointment along its lifecycle. Patients may
// only cancel their own appointments; everything else is admin-only
// and enforced at the router.
func (s *Service) UpdateStatus(ctx context.Context, actor *model.User, ref string, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, model.ErrInvalidInput)
	}
	a, err := s.appointments.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin {
		if a.UserID != actor.ID || status != model.AppointmentStatusCancelled {
			return nil, model.ErrAccessDenied
		}
	}
	if !a.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move appointment from %s to %s: %w", a.Status, status, model.ErrInvalidTransition)
	}

	if err := s.appointments.UpdateStatus(ctx, a.ID, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}
