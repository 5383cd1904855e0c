package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/gateway"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/repotest"
)

type fakeNotifier struct {
	confirmed []string
}

func (f *fakeNotifier) BookingConfirmed(ctx context.Context, u *model.User, b *model.Booking) {
	f.confirmed = append(f.confirmed, b.BookingRef)
}
func (f *fakeNotifier) CollectorAssigned(ctx context.Context, u *model.User, b *model.Booking, c *model.User) {
}
func (f *fakeNotifier) SampleCollected(ctx context.Context, u *model.User, b *model.Booking) {}
func (f *fakeNotifier) ReportReady(ctx context.Context, u *model.User, b *model.Booking)     {}

type fixture struct {
	svc       *Service
	payments  *repotest.PaymentStore
	bookings  *repotest.BookingStore
	users     *repotest.UserStore
	notifier  *fakeNotifier
	patient   *model.User
	booking   *model.Booking
	gwServer  *httptest.Server
	gwRefunds int
	refundErr bool
}

func sign(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		payments: repotest.NewPaymentStore(),
		bookings: repotest.NewBookingStore(),
		users:    repotest.NewUserStore(),
		notifier: &fakeNotifier{},
	}

	f.gwServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/orders":
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(gateway.Order{
				ID:       "order_test_1",
				Amount:   int64(body["amount"].(float64)),
				Currency: "INR",
				Receipt:  body["receipt"].(string),
				Status:   "created",
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/payments/"):
			id := strings.TrimPrefix(r.URL.Path, "/payments/")
			json.NewEncoder(w).Encode(gateway.Payment{
				ID: id, OrderID: "order_test_1", Status: "captured", Method: "upi", VPA: "asha@bank",
			})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/refund"):
			if f.refundErr {
				http.Error(w, `{"error":"refund rejected"}`, http.StatusBadRequest)
				return
			}
			f.gwRefunds++
			json.NewEncoder(w).Encode(gateway.Refund{ID: "rfnd_1", Status: "processed"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.gwServer.Close)

	gw := gateway.NewClient(config.RazorpayConfig{
		BaseURL:       f.gwServer.URL,
		KeyID:         "rzp_test_key",
		KeySecret:     "key_secret",
		WebhookSecret: "webhook_secret",
	})
	f.svc = NewService(gw, f.payments, f.bookings, f.users, f.notifier, zerolog.Nop())

	f.patient = f.users.Add(&model.User{Name: "Asha", Email: "asha@example.com", Role: model.RolePatient, IsActive: true})
	f.booking = f.bookings.Add(&model.Booking{
		BookingRef:    "BK1700000000000-abcdef",
		UserID:        f.patient.ID,
		PatientName:   "Asha Verma",
		TotalAmount:   898,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatePending,
		Tests: []*model.BookingTest{
			{TestName: "CBC", TestPrice: 299},
			{TestName: "Lipid Profile", TestPrice: 599},
		},
	})
	return f
}

func (f *fixture) createOrder(t *testing.T) *OrderResponse {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), f.patient, &model.CreateOrderRequest{
		BookingRef: f.booking.BookingRef,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderComputesAmountServerSide(t *testing.T) {
	f := newFixture(t)

	order := f.createOrder(t)
	assert.Equal(t, "order_test_1", order.OrderID)
	assert.Equal(t, int64(89800), order.Amount)
	assert.Equal(t, "rzp_test_key", order.KeyID)

	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCreated, p.Status)
	assert.Equal(t, 898.0, p.Amount)

	b, err := f.bookings.GetByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	require.NotNil(t, b.PaymentID)
	assert.Equal(t, p.ID, *b.PaymentID)
}

func TestCreateOrderDeniedForOtherUser(t *testing.T) {
	f := newFixture(t)
	other := f.users.Add(&model.User{Name: "Other", Email: "o@example.com", Role: model.RolePatient, IsActive: true})

	_, err := f.svc.CreateOrder(context.Background(), other, &model.CreateOrderRequest{BookingRef: f.booking.BookingRef})
	assert.ErrorIs(t, err, model.ErrAccessDenied)
}

func TestCreateOrderRejectsPaidBooking(t *testing.T) {
	f := newFixture(t)
	_, err := f.bookings.MarkPaid(context.Background(), f.booking.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateOrder(context.Background(), f.patient, &model.CreateOrderRequest{BookingRef: f.booking.BookingRef})
	assert.ErrorIs(t, err, model.ErrAlreadyPaid)
}

func TestCreateOrderRejectsCancelledBooking(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bookings.Cancel(context.Background(), f.booking.ID))

	_, err := f.svc.CreateOrder(context.Background(), f.patient, &model.CreateOrderRequest{BookingRef: f.booking.BookingRef})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestVerifyConfirmsBookingOnce(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	req := &model.VerifyPaymentRequest{
		OrderID:    order.OrderID,
		PaymentID:  "pay_123",
		Signature:  sign(order.OrderID+"|pay_123", "key_secret"),
		BookingRef: f.booking.BookingRef,
	}

	b, err := f.svc.Verify(context.Background(), f.patient, req)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	assert.Equal(t, model.PaymentStatePaid, b.PaymentStatus)

	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, p.Status)
	require.NotNil(t, p.Method)
	assert.Equal(t, "upi", *p.Method)

	// Second verify is a no-op: still one confirmation email.
	_, err = f.svc.Verify(context.Background(), f.patient, req)
	require.NoError(t, err)
	assert.Equal(t, []string{f.booking.BookingRef}, f.notifier.confirmed)
}

func TestVerifyRecordsSignature(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	signature := sign(order.OrderID+"|pay_123", "key_secret")
	_, err := f.svc.Verify(context.Background(), f.patient, &model.VerifyPaymentRequest{
		OrderID:    order.OrderID,
		PaymentID:  "pay_123",
		Signature:  signature,
		BookingRef: f.booking.BookingRef,
	})
	require.NoError(t, err)

	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, p.Signature)
	assert.Equal(t, signature, *p.Signature)
}

func TestVerifyRejectsForgedSignature(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	req := &model.VerifyPaymentRequest{
		OrderID:    order.OrderID,
		PaymentID:  "pay_123",
		Signature:  sign(order.OrderID+"|pay_123", "wrong_secret"),
		BookingRef: f.booking.BookingRef,
	}

	_, err := f.svc.Verify(context.Background(), f.patient, req)
	assert.ErrorIs(t, err, model.ErrInvalidSignature)

	// The payment attempt is recorded as failed; the booking stays
	// pending and unpaid.
	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, p.Status)

	b, err := f.bookings.GetByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, model.PaymentStatePending, b.PaymentStatus)
	assert.Empty(t, f.notifier.confirmed)
}

func TestFailedPaymentCanBeRetried(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	bad := &model.VerifyPaymentRequest{
		OrderID: order.OrderID, PaymentID: "pay_123",
		Signature:  "garbage",
		BookingRef: f.booking.BookingRef,
	}
	_, err := f.svc.Verify(context.Background(), f.patient, bad)
	require.ErrorIs(t, err, model.ErrInvalidSignature)

	good := &model.VerifyPaymentRequest{
		OrderID: order.OrderID, PaymentID: "pay_456",
		Signature:  sign(order.OrderID+"|pay_456", "key_secret"),
		BookingRef: f.booking.BookingRef,
	}
	b, err := f.svc.Verify(context.Background(), f.patient, good)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatePaid, b.PaymentStatus)

	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, p.Status)
}

func webhookBody(event string, entity interface{}) []byte {
	var payload map[string]interface{}
	switch event {
	case gateway.EventRefundCreated:
		payload = map[string]interface{}{"refund": map[string]interface{}{"entity": entity}}
	default:
		payload = map[string]interface{}{"payment": map[string]interface{}{"entity": entity}}
	}
	body, _ := json.Marshal(map[string]interface{}{"event": event, "payload": payload})
	return body
}

func TestWebhookCapturedConfirmsBooking(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	body := webhookBody(gateway.EventPaymentCaptured, gateway.WebhookPayment{
		ID: "pay_123", OrderID: order.OrderID, Method: "card", Bank: "HDFC",
	})
	err := f.svc.HandleWebhook(context.Background(), body, sign(string(body), "webhook_secret"))
	require.NoError(t, err)

	b, err := f.bookings.GetByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	assert.Equal(t, model.PaymentStatePaid, b.PaymentStatus)
	assert.Equal(t, []string{f.booking.BookingRef}, f.notifier.confirmed)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	body := webhookBody(gateway.EventPaymentCaptured, gateway.WebhookPayment{ID: "pay_123", OrderID: order.OrderID})
	err := f.svc.HandleWebhook(context.Background(), body, sign(string(body), "key_secret"))
	assert.ErrorIs(t, err, model.ErrInvalidSignature)

	b, _ := f.bookings.GetByID(context.Background(), f.booking.ID)
	assert.Equal(t, model.PaymentStatePending, b.PaymentStatus)
}

func TestWebhookThenVerifySingleConfirmation(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	body := webhookBody(gateway.EventPaymentCaptured, gateway.WebhookPayment{ID: "pay_123", OrderID: order.OrderID})
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, sign(string(body), "webhook_secret")))

	_, err := f.svc.Verify(context.Background(), f.patient, &model.VerifyPaymentRequest{
		OrderID: order.OrderID, PaymentID: "pay_123",
		Signature:  sign(order.OrderID+"|pay_123", "key_secret"),
		BookingRef: f.booking.BookingRef,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{f.booking.BookingRef}, f.notifier.confirmed)
}

func TestWebhookUnknownOrderAcked(t *testing.T) {
	f := newFixture(t)
	body := webhookBody(gateway.EventPaymentCaptured, gateway.WebhookPayment{ID: "pay_x", OrderID: "order_unknown"})
	assert.NoError(t, f.svc.HandleWebhook(context.Background(), body, sign(string(body), "webhook_secret")))
}

func TestWebhookUnknownEventAcked(t *testing.T) {
	f := newFixture(t)
	body := []byte(`{"event":"order.paid","payload":{}}`)
	assert.NoError(t, f.svc.HandleWebhook(context.Background(), body, sign(string(body), "webhook_secret")))
}

func TestWebhookPaymentFailed(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	body := webhookBody(gateway.EventPaymentFailed, gateway.WebhookPayment{
		ID: "pay_123", OrderID: order.OrderID, ErrorCode: "BAD_REQUEST_ERROR", ErrorDescription: "card declined",
	})
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, sign(string(body), "webhook_secret")))

	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, p.Status)
	require.NotNil(t, p.ErrorDescription)
	assert.Equal(t, "card declined", *p.ErrorDescription)

	b, _ := f.bookings.GetByID(context.Background(), f.booking.ID)
	assert.Equal(t, model.PaymentStateFailed, b.PaymentStatus)
	assert.Equal(t, model.BookingStatusPending, b.Status)
}

func TestRefundRequiresPaidBooking(t *testing.T) {
	f := newFixture(t)
	f.createOrder(t)

	_, err := f.svc.Refund(context.Background(), &model.RefundRequest{BookingRef: f.booking.BookingRef})
	assert.ErrorIs(t, err, model.ErrNotPaid)
}

func TestRefundHappyPath(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	f.settle(t, order.OrderID, "pay_123")

	b, err := f.svc.Refund(context.Background(), &model.RefundRequest{
		BookingRef: f.booking.BookingRef,
		Reason:     "patient request",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.gwRefunds)
	assert.Equal(t, model.PaymentStateRefunded, b.PaymentStatus)
	assert.Equal(t, model.BookingStatusCancelled, b.Status)

	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, p.Status)
}

func TestRefundGatewayFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	f.settle(t, order.OrderID, "pay_123")
	f.refundErr = true

	_, err := f.svc.Refund(context.Background(), &model.RefundRequest{BookingRef: f.booking.BookingRef})
	require.Error(t, err)

	p, err := f.payments.GetByOrderID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, p.Status)

	b, _ := f.bookings.GetByID(context.Background(), f.booking.ID)
	assert.Equal(t, model.PaymentStatePaid, b.PaymentStatus)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
}

func TestStatusResponse(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	f.settle(t, order.OrderID, "pay_123")

	resp, err := f.svc.Status(context.Background(), f.patient, f.booking.BookingRef)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatePaid, resp.PaymentStatus)
	require.NotNil(t, resp.GatewayOrderID)
	assert.Equal(t, order.OrderID, *resp.GatewayOrderID)

	other := f.users.Add(&model.User{Name: "Other", Email: fmt.Sprintf("o%d@example.com", f.patient.ID+1), Role: model.RolePatient, IsActive: true})
	_, err = f.svc.Status(context.Background(), other, f.booking.BookingRef)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
}

// settle pushes the fixture booking to paid via the verify path.
func (f *fixture) settle(t *testing.T, orderID, paymentID string) {
	t.Helper()
	_, err := f.svc.Verify(context.Background(), f.patient, &model.VerifyPaymentRequest{
		OrderID:    orderID,
		PaymentID:  paymentID,
		Signature:  sign(orderID+"|"+paymentID, "key_secret"),
		BookingRef: f.booking.BookingRef,
	})
	require.NoError(t, err)
}
