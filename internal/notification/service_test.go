package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/repotest"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: html})
	return nil
}

func newFixture(sender *fakeSender) (*Service, *repotest.NotificationStore, *repotest.BookingStore, *repotest.UserStore) {
	notifs := repotest.NewNotificationStore()
	bookings := repotest.NewBookingStore()
	users := repotest.NewUserStore()
	svc := NewService(sender, notifs, bookings, users, "http://localhost:3000", zerolog.Nop())
	return svc, notifs, bookings, users
}

func testBooking(userID int64) *model.Booking {
	return &model.Booking{
		ID:           1,
		BookingRef:   "BK1700000000000-abcdef",
		UserID:       userID,
		PatientName:  "Asha Verma",
		Phone:        "9876543210",
		AddressLine1: "12 Park Street",
		City:         "Kolkata",
		Pincode:      "700016",
		BookingDate:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:     "07:00-08:00",
		TotalAmount:  1048,
		Status:       model.BookingStatusConfirmed,
		Tests: []*model.BookingTest{
			{TestName: "Complete Blood Count (CBC)", TestPrice: 299},
			{TestName: "Lipid Profile", TestPrice: 749},
		},
	}
}

func TestBookingConfirmedSendsAndLogs(t *testing.T) {
	sender := &fakeSender{}
	svc, notifs, _, users := newFixture(sender)
	user := users.Add(&model.User{Name: "Asha", Email: "asha@example.com", Role: model.RolePatient})
	b := testBooking(user.ID)

	svc.BookingConfirmed(context.Background(), user, b)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "asha@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, b.BookingRef)
	assert.Contains(t, sender.sent[0].body, "Asha Verma")
	assert.Contains(t, sender.sent[0].body, "Complete Blood Count (CBC)")
	assert.Contains(t, sender.sent[0].body, "07:00-08:00")

	require.Len(t, notifs.Entries, 1)
	entry := notifs.Entries[0]
	assert.Equal(t, model.NotificationStatusSent, entry.Status)
	assert.Equal(t, TemplateBookingConfirmed, entry.Template)
	assert.Equal(t, user.ID, entry.UserID)
	require.NotNil(t, entry.BookingID)
	assert.Equal(t, b.ID, *entry.BookingID)
	assert.NotNil(t, entry.SentAt)
	assert.Nil(t, entry.ErrorMessage)
}

func TestFailedSendStillLogsAudit(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp: connection refused")}
	svc, notifs, _, users := newFixture(sender)
	user := users.Add(&model.User{Name: "Asha", Email: "asha@example.com", Role: model.RolePatient})
	b := testBooking(user.ID)

	// Must not panic or surface the error to the caller.
	svc.SampleCollected(context.Background(), user, b)

	require.Len(t, notifs.Entries, 1)
	entry := notifs.Entries[0]
	assert.Equal(t, model.NotificationStatusFailed, entry.Status)
	require.NotNil(t, entry.ErrorMessage)
	assert.Contains(t, *entry.ErrorMessage, "connection refused")
	assert.Nil(t, entry.SentAt)
}

func TestReportReadyPrefersExternalURLWhenNoFile(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _, users := newFixture(sender)
	user := users.Add(&model.User{Name: "Asha", Email: "asha@example.com", Role: model.RolePatient})
	b := testBooking(user.ID)
	url := "https://lab.example.com/reports/xyz.pdf"
	b.ReportURL = &url

	svc.ReportReady(context.Background(), user, b)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, url)
}

func TestReportReadyStoredFilePointsAtDashboard(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _, users := newFixture(sender)
	user := users.Add(&model.User{Name: "Asha", Email: "asha@example.com", Role: model.RolePatient})
	b := testBooking(user.ID)
	file := "abc.pdf"
	url := "https://lab.example.com/reports/xyz.pdf"
	b.ReportFile = &file
	b.ReportURL = &url

	svc.ReportReady(context.Background(), user, b)

	require.Len(t, sender.sent, 1)
	// The stored file is served behind auth, so the link goes to the
	// dashboard even when an external URL also exists.
	assert.NotContains(t, sender.sent[0].body, url)
	assert.Contains(t, sender.sent[0].body, "http://localhost:3000/dashboard/bookings/"+b.BookingRef)
}

func TestResendReplaysTemplate(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	svc, notifs, bookings, users := newFixture(sender)
	user := users.Add(&model.User{Name: "Asha", Email: "asha@example.com", Role: model.RolePatient})
	b := bookings.Add(testBooking(user.ID))

	svc.BookingConfirmed(context.Background(), user, b)
	require.Len(t, notifs.Entries, 1)
	require.Equal(t, model.NotificationStatusFailed, notifs.Entries[0].Status)

	// SMTP recovers; resend produces a fresh, successful audit row.
	sender.err = nil
	require.NoError(t, svc.Resend(context.Background(), notifs.Entries[0].ID))

	require.Len(t, notifs.Entries, 2)
	assert.Equal(t, model.NotificationStatusSent, notifs.Entries[1].Status)
	assert.Equal(t, TemplateBookingConfirmed, notifs.Entries[1].Template)
	require.Len(t, sender.sent, 1)
}

func TestResendUnknownTemplate(t *testing.T) {
	sender := &fakeSender{}
	svc, notifs, bookings, users := newFixture(sender)
	user := users.Add(&model.User{Name: "Asha", Email: "asha@example.com", Role: model.RolePatient})
	b := bookings.Add(testBooking(user.ID))

	bad := &model.Notification{UserID: user.ID, BookingID: &b.ID, Template: "mystery", Recipient: user.Email}
	require.NoError(t, notifs.Create(context.Background(), bad))

	err := svc.Resend(context.Background(), bad.ID)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRenderAllTemplates(t *testing.T) {
	for _, name := range []string{
		TemplateBookingConfirmed,
		TemplateCollectorAssigned,
		TemplateSampleCollected,
		TemplateReportReady,
	} {
		var data interface{}
		switch name {
		case TemplateBookingConfirmed:
			data = BookingConfirmedData{PatientName: "X", Tests: []TestLine{{Name: "CBC", Price: 1}}}
		case TemplateCollectorAssigned:
			data = CollectorAssignedData{PatientName: "X", CollectorName: "Y"}
		case TemplateSampleCollected:
			data = SampleCollectedData{PatientName: "X"}
		case TemplateReportReady:
			data = ReportReadyData{PatientName: "X", ReportURL: "http://r"}
		}
		body, err := render(name, data)
		require.NoError(t, err, name)
		assert.NotEmpty(t, body, name)
	}
}

func TestJoinAddress(t *testing.T) {
	line2 := "Flat 4B"
	assert.Equal(t, "12 Park Street, Flat 4B, Kolkata - 700016",
		joinAddress("12 Park Street", &line2, "Kolkata", "700016"))
	assert.Equal(t, "12 Park Street, Kolkata - 700016",
		joinAddress("12 Park Street", nil, "Kolkata", "700016"))
}
