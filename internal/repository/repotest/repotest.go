// Package repotest provides in-memory repository implementations for
// service tests. The guarded state transitions mirror the SQL guards
// of the postgres implementations, so idempotency behavior can be
// tested without a database.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*model.User)}
}

func (s *UserStore) Add(u *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		s.nextID++
		u.ID = s.nextID
	} else if u.ID > s.nextID {
		s.nextID = u.ID
	}
	s.users[u.ID] = u
	return u
}

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	s.users[u.ID] = u
	return nil
}

func (s *UserStore) Get(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *UserStore) Update(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return model.ErrNotFound
	}
	s.users[u.ID] = u
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *UserStore) List(ctx context.Context, role model.UserRole) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.User
	for _, u := range s.users {
		if role == "" || u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *UserStore) SetActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (s *UserStore) CountByRole(ctx context.Context) (map[model.UserRole]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[model.UserRole]int)
	for _, u := range s.users {
		counts[u.Role]++
	}
	return counts, nil
}

type TestStore struct {
	mu     sync.Mutex
	nextID int64
	tests  map[int64]*model.Test
}

func NewTestStore() *TestStore {
	return &TestStore{tests: make(map[int64]*model.Test)}
}

func (s *TestStore) Add(t *model.Test) *model.Test {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		s.nextID++
		t.ID = s.nextID
	} else if t.ID > s.nextID {
		s.nextID = t.ID
	}
	s.tests[t.ID] = t
	return t
}

func (s *TestStore) Create(ctx context.Context, t *model.Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	s.tests[t.ID] = t
	return nil
}

func (s *TestStore) Update(ctx context.Context, t *model.Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tests[t.ID]; !ok {
		return model.ErrNotFound
	}
	s.tests[t.ID] = t
	return nil
}

func (s *TestStore) Get(ctx context.Context, id int64) (*model.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tests[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *TestStore) GetActive(ctx context.Context, id int64) (*model.Test, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, model.ErrNotFound
	}
	return t, nil
}

func (s *TestStore) List(ctx context.Context, activeOnly bool) ([]*model.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Test
	for _, t := range s.tests {
		if activeOnly && !t.IsActive {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *TestStore) SetActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tests[id]
	if !ok {
		return model.ErrNotFound
	}
	t.IsActive = active
	return nil
}

type LabStore struct {
	mu     sync.Mutex
	nextID int64
	labs   map[int64]*model.Lab
}

func NewLabStore() *LabStore {
	return &LabStore{labs: make(map[int64]*model.Lab)}
}

func (s *LabStore) Add(l *model.Lab) *model.Lab {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		s.nextID++
		l.ID = s.nextID
	} else if l.ID > s.nextID {
		s.nextID = l.ID
	}
	s.labs[l.ID] = l
	return l
}

func (s *LabStore) Create(ctx context.Context, l *model.Lab) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l.ID = s.nextID
	s.labs[l.ID] = l
	return nil
}

func (s *LabStore) Update(ctx context.Context, l *model.Lab) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.labs[l.ID]
	if !ok {
		return model.ErrNotFound
	}
	l.IsActive = existing.IsActive
	s.labs[l.ID] = l
	return nil
}

func (s *LabStore) Get(ctx context.Context, id int64) (*model.Lab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.labs[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *LabStore) List(ctx context.Context, activeOnly bool) ([]*model.Lab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Lab
	for _, l := range s.labs {
		if activeOnly && !l.IsActive {
			continue
		}
		copied := *l
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *LabStore) SetActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.labs[id]
	if !ok {
		return model.ErrNotFound
	}
	l.IsActive = active
	return nil
}

type DoctorStore struct {
	mu      sync.Mutex
	nextID  int64
	doctors map[int64]*model.Doctor
}

func NewDoctorStore() *DoctorStore {
	return &DoctorStore{doctors: make(map[int64]*model.Doctor)}
}

func (s *DoctorStore) Add(d *model.Doctor) *model.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		s.nextID++
		d.ID = s.nextID
	} else if d.ID > s.nextID {
		s.nextID = d.ID
	}
	s.doctors[d.ID] = d
	return d
}

func (s *DoctorStore) Create(ctx context.Context, d *model.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d.ID = s.nextID
	s.doctors[d.ID] = d
	return nil
}

func (s *DoctorStore) Update(ctx context.Context, d *model.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.doctors[d.ID]
	if !ok {
		return model.ErrNotFound
	}
	d.IsActive = existing.IsActive
	s.doctors[d.ID] = d
	return nil
}

func (s *DoctorStore) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *DoctorStore) GetActive(ctx context.Context, id int64) (*model.Doctor, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, model.ErrNotFound
	}
	return d, nil
}

func (s *DoctorStore) List(ctx context.Context, activeOnly bool) ([]*model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Doctor
	for _, d := range s.doctors {
		if activeOnly && !d.IsActive {
			continue
		}
		copied := *d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DoctorStore) SetActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return model.ErrNotFound
	}
	d.IsActive = active
	return nil
}

type BookingStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*model.Booking
	tests    map[int64][]*model.BookingTest
}

func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[int64]*model.Booking),
		tests:    make(map[int64][]*model.BookingTest),
	}
}

func (s *BookingStore) Add(b *model.Booking) *model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		s.nextID++
		b.ID = s.nextID
	} else if b.ID > s.nextID {
		s.nextID = b.ID
	}
	s.bookings[b.ID] = b
	s.tests[b.ID] = b.Tests
	return b
}

func (s *BookingStore) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now()
	for _, t := range b.Tests {
		t.BookingID = b.ID
	}
	copied := *b
	s.bookings[b.ID] = &copied
	s.tests[b.ID] = b.Tests
	return nil
}

func (s *BookingStore) GetByRef(ctx context.Context, ref string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingRef == ref {
			copied := *b
			copied.Tests = nil
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *BookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *b
	copied.Tests = nil
	return &copied, nil
}

func (s *BookingStore) GetByPaymentID(ctx context.Context, paymentID int64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.PaymentID != nil && *b.PaymentID == paymentID {
			copied := *b
			copied.Tests = nil
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *BookingStore) ListByUser(ctx context.Context, userID int64, f model.BookingFilter) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID && (f.Status == "" || b.Status == f.Status) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *BookingStore) ListByCollector(ctx context.Context, collectorID int64, f model.BookingFilter) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.CollectorID != nil && *b.CollectorID == collectorID && (f.Status == "" || b.Status == f.Status) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *BookingStore) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if f.Status == "" || b.Status == f.Status {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *BookingStore) ListTests(ctx context.Context, bookingID int64) ([]*model.BookingTest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tests[bookingID], nil
}

func (s *BookingStore) AssignCollector(ctx context.Context, id, collectorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.ErrNotFound
	}
	b.CollectorID = &collectorID
	b.Status = model.BookingStatusConfirmed
	return nil
}

func (s *BookingStore) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.ErrNotFound
	}
	b.Status = status
	now := time.Now()
	switch status {
	case model.BookingStatusCollected:
		b.CollectedAt = &now
	case model.BookingStatusCompleted:
		b.CompletedAt = &now
	}
	return nil
}

func (s *BookingStore) Cancel(ctx context.Context, id int64) error {
	return s.UpdateStatus(ctx, id, model.BookingStatusCancelled)
}

func (s *BookingStore) LinkPayment(ctx context.Context, id, paymentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.ErrNotFound
	}
	b.PaymentID = &paymentID
	return nil
}

func (s *BookingStore) MarkPaid(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return false, model.ErrNotFound
	}
	if b.Status == model.BookingStatusPending {
		b.Status = model.BookingStatusConfirmed
		b.PaymentStatus = model.PaymentStatePaid
		return true, nil
	}
	b.PaymentStatus = model.PaymentStatePaid
	return false, nil
}

func (s *BookingStore) MarkPaymentFailed(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.ErrNotFound
	}
	if b.PaymentStatus == model.PaymentStatePending {
		b.PaymentStatus = model.PaymentStateFailed
	}
	return nil
}

func (s *BookingStore) MarkRefunded(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.ErrNotFound
	}
	b.PaymentStatus = model.PaymentStateRefunded
	b.Status = model.BookingStatusCancelled
	return nil
}

func (s *BookingStore) SetReport(ctx context.Context, id int64, url, file, notes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.ErrNotFound
	}
	b.ReportURL = url
	b.ReportFile = file
	b.ReportNotes = notes
	b.Status = model.BookingStatusCompleted
	now := time.Now()
	b.CompletedAt = &now
	return nil
}

func (s *BookingStore) CountByStatus(ctx context.Context) (map[model.BookingStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[model.BookingStatus]int)
	for _, b := range s.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (s *BookingStore) PaidRevenue(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, b := range s.bookings {
		if b.PaymentStatus == model.PaymentStatePaid {
			total += b.TotalAmount - b.Discount
		}
	}
	return total, nil
}

type PaymentStore struct {
	mu       sync.Mutex
	nextID   int64
	payments map[int64]*model.Payment
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[int64]*model.Payment)}
}

func (s *PaymentStore) Create(ctx context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	if p.Status == "" {
		p.Status = model.PaymentStatusCreated
	}
	copied := *p
	s.payments[p.ID] = &copied
	return nil
}

func (s *PaymentStore) Get(ctx context.Context, id int64) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *PaymentStore) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.GatewayOrderID == orderID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *PaymentStore) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.GatewayPaymentID != nil && *p.GatewayPaymentID == paymentID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *PaymentStore) MarkPaid(ctx context.Context, orderID, paymentID string, signature, method, bank, wallet, vpa *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.GatewayOrderID != orderID {
			continue
		}
		if !p.Status.CanAdvanceTo(model.PaymentStatusPaid) {
			return false, nil
		}
		p.Status = model.PaymentStatusPaid
		p.GatewayPaymentID = &paymentID
		p.Signature = signature
		p.Method = method
		p.Bank = bank
		p.Wallet = wallet
		p.VPA = vpa
		return true, nil
	}
	return false, model.ErrNotFound
}

func (s *PaymentStore) MarkFailed(ctx context.Context, orderID string, code, description *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.GatewayOrderID != orderID {
			continue
		}
		if p.Status.CanAdvanceTo(model.PaymentStatusFailed) {
			p.Status = model.PaymentStatusFailed
			p.ErrorCode = code
			p.ErrorDescription = description
		}
		return nil
	}
	return model.ErrNotFound
}

func (s *PaymentStore) MarkRefunded(ctx context.Context, paymentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.GatewayPaymentID == nil || *p.GatewayPaymentID != paymentID {
			continue
		}
		if !p.Status.CanAdvanceTo(model.PaymentStatusRefunded) {
			return false, nil
		}
		p.Status = model.PaymentStatusRefunded
		return true, nil
	}
	return false, model.ErrNotFound
}

type NotificationStore struct {
	mu      sync.Mutex
	nextID  int64
	Entries []*model.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Create(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	n.CreatedAt = time.Now()
	copied := *n
	s.Entries = append(s.Entries, &copied)
	return nil
}

func (s *NotificationStore) Get(ctx context.Context, id int64) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.Entries {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *NotificationStore) List(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Notification
	for i := len(s.Entries) - 1; i >= 0; i-- {
		n := s.Entries[i]
		if f.UserID != nil && n.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && n.Status != f.Status {
			continue
		}
		copied := *n
		out = append(out, &copied)
	}
	return out, nil
}

func (s *NotificationStore) ListFailedSince(ctx context.Context, since time.Time, limit int) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Notification
	for _, n := range s.Entries {
		if n.Status == model.NotificationStatusFailed && n.CreatedAt.After(since) {
			copied := *n
			out = append(out, &copied)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type ReportStore struct {
	mu      sync.Mutex
	nextID  int64
	Reports []*model.Report
}

func NewReportStore() *ReportStore {
	return &ReportStore{}
}

func (s *ReportStore) Create(ctx context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	copied := *r
	s.Reports = append(s.Reports, &copied)
	return nil
}

func (s *ReportStore) LatestByBooking(ctx context.Context, bookingID int64) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Reports) - 1; i >= 0; i-- {
		if s.Reports[i].BookingID == bookingID {
			copied := *s.Reports[i]
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}
