package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/repotest"
	"github.com/ShubhenduKH/TestMyBlood/pkg/security"
)

func newFixture() (*Service, *repotest.UserStore, *repotest.BookingStore) {
	users := repotest.NewUserStore()
	bookings := repotest.NewBookingStore()
	return NewService(users, bookings, security.NewBcryptHasher(4)), users, bookings
}

func TestCreateStaff(t *testing.T) {
	svc, _, _ := newFixture()

	area := "Salt Lake"
	u, err := svc.CreateStaff(context.Background(), &model.CreateStaffRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "collect12345",
		Role: model.RoleCollector, Area: &area,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCollector, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "collect12345", u.PasswordHash)
}

func TestSetActiveSelfGuard(t *testing.T) {
	svc, users, _ := newFixture()
	admin := users.Add(&model.User{Name: "Admin", Email: "a@b.com", Role: model.RoleAdmin, IsActive: true})
	other := users.Add(&model.User{Name: "P", Email: "p@b.com", Role: model.RolePatient, IsActive: true})

	err := svc.SetActive(context.Background(), admin, admin.ID, false)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	require.NoError(t, svc.SetActive(context.Background(), admin, other.ID, false))
	updated, err := users.Get(context.Background(), other.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestListRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.List(context.Background(), model.UserRole("superuser"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestDashboardStats(t *testing.T) {
	svc, users, bookings := newFixture()
	users.Add(&model.User{Name: "P1", Email: "p1@b.com", Role: model.RolePatient})
	users.Add(&model.User{Name: "P2", Email: "p2@b.com", Role: model.RolePatient})
	users.Add(&model.User{Name: "C", Email: "c@b.com", Role: model.RoleCollector})

	bookings.Add(&model.Booking{BookingRef: "BK1", Status: model.BookingStatusPending, TotalAmount: 500, PaymentStatus: model.PaymentStatePending})
	bookings.Add(&model.Booking{BookingRef: "BK2", Status: model.BookingStatusConfirmed, TotalAmount: 800, PaymentStatus: model.PaymentStatePaid})
	bookings.Add(&model.Booking{BookingRef: "BK3", Status: model.BookingStatusCompleted, TotalAmount: 300, Discount: 50, PaymentStatus: model.PaymentStatePaid})

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Users[model.RolePatient])
	assert.Equal(t, 1, stats.Users[model.RoleCollector])
	assert.Equal(t, 1, stats.Bookings[model.BookingStatusPending])
	assert.Equal(t, 1050.0, stats.Revenue)
}
