package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
)

const (
	cacheKeyTests   = "tests:active"
	cacheKeyLabs    = "labs:active"
	cacheKeyDoctors = "doctors:active"
)

// Service serves the public catalog. Active listings are cached for a
// short TTL; any admin write invalidates the affected key so the
// public endpoints never serve stale entries for long.
type Service struct {
	tests   repository.TestRepository
	labs    repository.LabRepository
	doctors repository.DoctorRepository
	cache   *cache.Cache
}

func NewService(tests repository.TestRepository, labs repository.LabRepository, doctors repository.DoctorRepository) *Service {
	return &Service{
		tests:   tests,
		labs:    labs,
		doctors: doctors,
		cache:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Service) ListTests(ctx context.Context) ([]*model.Test, error) {
	if v, ok := s.cache.Get(cacheKeyTests); ok {
		return v.([]*model.Test), nil
	}
	tests, err := s.tests.List(ctx, true)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(cacheKeyTests, tests)
	return tests, nil
}

func (s *Service) GetTest(ctx context.Context, id int64) (*model.Test, error) {
	return s.tests.GetActive(ctx, id)
}

func (s *Service) ListLabs(ctx context.Context) ([]*model.Lab, error) {
	if v, ok := s.cache.Get(cacheKeyLabs); ok {
		return v.([]*model.Lab), nil
	}
	labs, err := s.labs.List(ctx, true)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(cacheKeyLabs, labs)
	return labs, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	if v, ok := s.cache.Get(cacheKeyDoctors); ok {
		return v.([]*model.Doctor), nil
	}
	doctors, err := s.doctors.List(ctx, true)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(cacheKeyDoctors, doctors)
	return doctors, nil
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.doctors.GetActive(ctx, id)
}

// TestCategories lists the distinct categories across active tests, for
// the frontend's filter chips.
func (s *Service) TestCategories(ctx context.Context) ([]string, error) {
	tests, err := s.ListTests(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var categories []string
	for _, t := range tests {
		if t.Category == nil || *t.Category == "" || seen[*t.Category] {
			continue
		}
		seen[*t.Category] = true
		categories = append(categories, *t.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// DoctorSpecialties lists the distinct specialties across active doctors.
func (s *Service) DoctorSpecialties(ctx context.Context) ([]string, error) {
	doctors, err := s.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var specialties []string
	for _, d := range doctors {
		if d.Specialty == "" || seen[d.Specialty] {
			continue
		}
		seen[d.Specialty] = true
		specialties = append(specialties, d.Specialty)
	}
	sort.Strings(specialties)
	return specialties, nil
}

// Admin operations below bypass the cache for reads and invalidate it
// on writes.

func (s *Service) ListAllTests(ctx context.Context) ([]*model.Test, error) {
	return s.tests.List(ctx, false)
}

func (s *Service) CreateTest(ctx context.Context, req *model.UpsertTestRequest) (*model.Test, error) {
	t := testFromRequest(req)
	t.IsActive = true
	if err := s.tests.Create(ctx, t); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyTests)
	return t, nil
}

func (s *Service) UpdateTest(ctx context.Context, id int64, req *model.UpsertTestRequest) (*model.Test, error) {
	existing, err := s.tests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t := testFromRequest(req)
	t.ID = id
	t.IsActive = existing.IsActive
	if err := s.tests.Update(ctx, t); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyTests)
	return t, nil
}

func (s *Service) SetTestActive(ctx context.Context, id int64, active bool) error {
	if err := s.tests.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.cache.Delete(cacheKeyTests)
	return nil
}

func (s *Service) ListAllLabs(ctx context.Context) ([]*model.Lab, error) {
	return s.labs.List(ctx, false)
}

func (s *Service) CreateLab(ctx context.Context, req *model.UpsertLabRequest) (*model.Lab, error) {
	l := labFromRequest(req)
	l.IsActive = true
	if err := s.labs.Create(ctx, l); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyLabs)
	return l, nil
}

func (s *Service) UpdateLab(ctx context.Context, id int64, req *model.UpsertLabRequest) (*model.Lab, error) {
	existing, err := s.labs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	l := labFromRequest(req)
	l.ID = id
	l.IsActive = existing.IsActive
	if err := s.labs.Update(ctx, l); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyLabs)
	return l, nil
}

func (s *Service) SetLabActive(ctx context.Context, id int64, active bool) error {
	if err := s.labs.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.cache.Delete(cacheKeyLabs)
	return nil
}

func (s *Service) ListAllDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctors.List(ctx, false)
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.UpsertDoctorRequest) (*model.Doctor, error) {
	d := doctorFromRequest(req)
	d.IsActive = true
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyDoctors)
	return d, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id int64, req *model.UpsertDoctorRequest) (*model.Doctor, error) {
	existing, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := doctorFromRequest(req)
	d.ID = id
	d.IsActive = existing.IsActive
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyDoctors)
	return d, nil
}

func (s *Service) SetDoctorActive(ctx context.Context, id int64, active bool) error {
	if err := s.doctors.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.cache.Delete(cacheKeyDoctors)
	return nil
}

func testFromRequest(req *model.UpsertTestRequest) *model.Test {
	reportTime := req.ReportTime
	if reportTime == "" {
		reportTime = "24 hours"
	}
	return &model.Test{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Category:        req.Category,
		LabID:           req.LabID,
		ReportTime:      reportTime,
		FastingRequired: req.FastingRequired,
	}
}

func labFromRequest(req *model.UpsertLabRequest) *model.Lab {
	return &model.Lab{
		Name:          req.Name,
		Accreditation: req.Accreditation,
		Rating:        req.Rating,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		TestsCount:    req.TestsCount,
		Image:         req.Image,
	}
}

func doctorFromRequest(req *model.UpsertDoctorRequest) *model.Doctor {
	return &model.Doctor{
		Name:          req.Name,
		Specialty:     req.Specialty,
		Qualification: req.Qualification,
		Experience:    req.Experience,
		Fee:           req.Fee,
		Image:         req.Image,
		AvailableDays: req.AvailableDays,
	}
}
