package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/repotest"
)

// The appointment store is local to this package; its interface is not
// shared with other service tests.

type appointmentStore struct {
	mu           sync.Mutex
	appointments map[int64]*model.Appointment
}

func newAppointmentStore() *appointmentStore {
	return &appointmentStore{appointments: make(map[int64]*model.Appointment)}
}

func (s *appointmentStore) Create(ctx context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = int64(len(s.appointments) + 1)
	copied := *a
	s.appointments[a.ID] = &copied
	return nil
}

func (s *appointmentStore) GetByRef(ctx context.Context, ref string) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.AppointmentRef == ref {
			copied := *a
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *appointmentStore) ListByUser(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	return nil, nil
}

func (s *appointmentStore) List(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	return nil, nil
}

func (s *appointmentStore) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return model.ErrNotFound
	}
	a.Status = status
	return nil
}

func newFixture() (*Service, *repotest.DoctorStore) {
	doctors := repotest.NewDoctorStore()
	return NewService(newAppointmentStore(), doctors), doctors
}

var patient = &model.User{ID: 1, Name: "Asha", Role: model.RolePatient}
var admin = &model.User{ID: 2, Name: "Admin", Role: model.RoleAdmin}

func createRequest(doctorID int64) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		TimeSlot:        "10:00-10:30",
	}
}

func TestCreateSnapshotsFee(t *testing.T) {
	svc, doctors := newFixture()
	d := &model.Doctor{Name: "Dr. Mehta", Specialty: "GP", Fee: 500, IsActive: true}
	require.NoError(t, doctors.Create(context.Background(), d))

	a, err := svc.Create(context.Background(), patient, createRequest(d.ID))
	require.NoError(t, err)
	assert.Equal(t, 500.0, a.Fee)
	assert.Equal(t, model.AppointmentStatusPending, a.Status)
	assert.NotEmpty(t, a.AppointmentRef)
}

func TestCreateRejectsInactiveDoctor(t *testing.T) {
	svc, doctors := newFixture()
	d := &model.Doctor{Name: "Dr. Gone", Specialty: "GP", Fee: 500, IsActive: false}
	require.NoError(t, doctors.Create(context.Background(), d))

	_, err := svc.Create(context.Background(), patient, createRequest(d.ID))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestPatientCanOnlyCancelOwn(t *testing.T) {
	svc, doctors := newFixture()
	d := &model.Doctor{Name: "Dr. Mehta", Specialty: "GP", Fee: 500, IsActive: true}
	require.NoError(t, doctors.Create(context.Background(), d))

	a, err := svc.Create(context.Background(), patient, createRequest(d.ID))
	require.NoError(t, err)

	// Patients cannot confirm, only cancel.
	_, err = svc.UpdateStatus(context.Background(), patient, a.AppointmentRef, model.AppointmentStatusConfirmed)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	other := &model.User{ID: 99, Role: model.RolePatient}
	_, err = svc.UpdateStatus(context.Background(), other, a.AppointmentRef, model.AppointmentStatusCancelled)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	cancelled, err := svc.UpdateStatus(context.Background(), patient, a.AppointmentRef, model.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
}

func TestAdminLifecycle(t *testing.T) {
	svc, doctors := newFixture()
	d := &model.Doctor{Name: "Dr. Mehta", Specialty: "GP", Fee: 500, IsActive: true}
	require.NoError(t, doctors.Create(context.Background(), d))

	a, err := svc.Create(context.Background(), patient, createRequest(d.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), admin, a.AppointmentRef, model.AppointmentStatusCompleted)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), admin, a.AppointmentRef, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	done, err := svc.UpdateStatus(context.Background(), admin, a.AppointmentRef, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, done.Status)
}
