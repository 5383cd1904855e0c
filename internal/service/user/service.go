package user

import (
	"context"
	"fmt"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
	"github.com/ShubhenduKH/TestMyBlood/pkg/security"
)

// Service covers the admin-facing user operations: staff provisioning,
// account toggles, and dashboard aggregates.
type Service struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
	hasher   security.PasswordHasher
}

func NewService(users repository.UserRepository, bookings repository.BookingRepository, hasher security.PasswordHasher) *Service {
	return &Service{users: users, bookings: bookings, hasher: hasher}
}

func (s *Service) List(ctx context.Context, role model.UserRole) ([]*model.User, error) {
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, model.ErrInvalidInput)
	}
	return s.users.List(ctx, role)
}

func (s *Service) ListCollectors(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx, model.RoleCollector)
}

// CreateStaff provisions a collector or admin account.
func (s *Service) CreateStaff(ctx context.Context, req *model.CreateStaffRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         req.Role,
		Area:         req.Area,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetActive toggles an account. Deactivation takes effect on the
// user's next request because the auth middleware rechecks the flag.
func (s *Service) SetActive(ctx context.Context, actor *model.User, id int64, active bool) error {
	if actor.ID == id {
		return fmt.Errorf("cannot change your own account status: %w", model.ErrInvalidInput)
	}
	return s.users.SetActive(ctx, id, active)
}

// DashboardStats is the admin landing-page aggregate.
type DashboardStats struct {
	Bookings map[model.BookingStatus]int `json:"bookings"`
	Users    map[model.UserRole]int      `json:"users"`
	Revenue  float64                     `json:"revenue"`
}

func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	bookings, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.bookings.PaidRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Bookings: bookings, Users: users, Revenue: revenue}, nil
}
