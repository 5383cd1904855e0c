package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/ShubhenduKH/TestMyBlood/internal/gateway"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/notification"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository"
)

type Service struct {
	gateway  *gateway.Client
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	notifier notification.Dispatcher
	logger   zerolog.Logger
}

func NewService(
	gw *gateway.Client,
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	notifier notification.Dispatcher,
	logger zerolog.Logger,
) *Service {
	return &Service{
		gateway:  gw,
		payments: payments,
		bookings: bookings,
		users:    users,
		notifier: notifier,
		logger:   logger.With().Str("component", "payment").Logger(),
	}
}

// OrderResponse carries what the frontend checkout needs to open the
// gateway widget.
type OrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
	Booking  string  `json:"booking_id"`
	Total    float64 `json:"total_amount"`
}

// CreateOrder opens a gateway order for the booking's outstanding
// amount. The amount is always computed server side from the stored
// booking total; nothing from the client is trusted.
func (s *Service) CreateOrder(ctx context.Context, actor *model.User, req *model.CreateOrderRequest) (*OrderResponse, error) {
	b, err := s.bookings.GetByRef(ctx, req.BookingRef)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && b.UserID != actor.ID {
		return nil, model.ErrAccessDenied
	}
	if b.PaymentStatus == model.PaymentStatePaid {
		return nil, model.ErrAlreadyPaid
	}
	if b.Status == model.BookingStatusCancelled {
		return nil, fmt.Errorf("booking %s is cancelled: %w", b.BookingRef, model.ErrInvalidTransition)
	}

	amount := toPaise(b.TotalAmount - b.Discount)
	if amount <= 0 {
		return nil, fmt.Errorf("booking %s has no payable amount: %w", b.BookingRef, model.ErrInvalidInput)
	}

	order, err := s.gateway.CreateOrder(ctx, amount, "INR", b.BookingRef, map[string]string{
		"booking_id": b.BookingRef,
	})
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		GatewayOrderID: order.ID,
		Amount:         float64(amount) / 100,
		Currency:       order.Currency,
		Status:         model.PaymentStatusCreated,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.bookings.LinkPayment(ctx, b.ID, p.ID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_ref", b.BookingRef).
		Str("order_id", order.ID).
		Int64("amount_paise", amount).
		Msg("payment order created")

	return &OrderResponse{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
		Booking:  b.BookingRef,
		Total:    b.TotalAmount - b.Discount,
	}, nil
}

// Verify is the client-side confirmation path: the frontend posts the
// gateway's checkout result and we check its signature. Verification is
// idempotent with the webhook path; whichever lands first confirms the
// booking, the other is a no-op.
func (s *Service) Verify(ctx context.Context, actor *model.User, req *model.VerifyPaymentRequest) (*model.Booking, error) {
	b, err := s.bookings.GetByRef(ctx, req.BookingRef)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && b.UserID != actor.ID {
		return nil, model.ErrAccessDenied
	}

	if !s.gateway.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature) {
		reason := "signature verification failed"
		if err := s.payments.MarkFailed(ctx, req.OrderID, nil, &reason); err != nil && err != model.ErrNotFound {
			s.logger.Error().Err(err).Str("order_id", req.OrderID).Msg("failed to record failed payment")
		}
		s.logger.Warn().
			Str("booking_ref", req.BookingRef).
			Str("order_id", req.OrderID).
			Msg("payment signature rejected")
		return nil, model.ErrInvalidSignature
	}

	var method, bank, wallet, vpa *string
	if details, err := s.gateway.FetchPayment(ctx, req.PaymentID); err == nil {
		method = optional(details.Method)
		bank = optional(details.Bank)
		wallet = optional(details.Wallet)
		vpa = optional(details.VPA)
	}

	if err := s.settle(ctx, b, req.OrderID, req.PaymentID, &req.Signature, method, bank, wallet, vpa); err != nil {
		return nil, err
	}
	return b, nil
}

// HandleWebhook is the server-side confirmation path. The raw body
// signature must verify against the webhook secret; with no secret
// configured every event is rejected. Unhandled event types are
// acknowledged without action so the gateway stops retrying them.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		return model.ErrInvalidSignature
	}
	event, err := gateway.ParseWebhookEvent(body)
	if err != nil {
		return fmt.Errorf("malformed webhook payload: %w", model.ErrInvalidInput)
	}

	switch event.Event {
	case gateway.EventPaymentCaptured:
		return s.webhookCaptured(ctx, &event.Payload.Payment.Entity)
	case gateway.EventPaymentFailed:
		return s.webhookFailed(ctx, &event.Payload.Payment.Entity)
	case gateway.EventRefundCreated:
		return s.webhookRefunded(ctx, &event.Payload.Refund.Entity)
	default:
		s.logger.Debug().Str("event", event.Event).Msg("ignoring webhook event")
		return nil
	}
}

func (s *Service) webhookCaptured(ctx context.Context, wp *gateway.WebhookPayment) error {
	p, err := s.payments.GetByOrderID(ctx, wp.OrderID)
	if err != nil {
		// An order we never created is not ours to process; ack it.
		if err == model.ErrNotFound {
			s.logger.Warn().Str("order_id", wp.OrderID).Msg("webhook for unknown order")
			return nil
		}
		return err
	}

	b, err := s.bookingForPayment(ctx, p.ID)
	if err != nil {
		return err
	}
	// Webhook events carry no checkout signature; the raw-body HMAC
	// already authenticated this delivery.
	return s.settle(ctx, b, wp.OrderID, wp.ID, nil,
		optional(wp.Method), optional(wp.Bank), optional(wp.Wallet), optional(wp.VPA))
}

func (s *Service) webhookFailed(ctx context.Context, wp *gateway.WebhookPayment) error {
	if err := s.payments.MarkFailed(ctx, wp.OrderID, optional(wp.ErrorCode), optional(wp.ErrorDescription)); err != nil {
		if err == model.ErrNotFound {
			return nil
		}
		return err
	}

	p, err := s.payments.GetByOrderID(ctx, wp.OrderID)
	if err != nil {
		return err
	}
	b, err := s.bookingForPayment(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := s.bookings.MarkPaymentFailed(ctx, b.ID); err != nil && err != model.ErrNotFound {
		return err
	}
	s.logger.Info().Str("booking_ref", b.BookingRef).Str("order_id", wp.OrderID).Msg("payment failed")
	return nil
}

func (s *Service) webhookRefunded(ctx context.Context, wr *gateway.WebhookRefund) error {
	moved, err := s.payments.MarkRefunded(ctx, wr.PaymentID)
	if err != nil {
		if err == model.ErrNotFound {
			return nil
		}
		return err
	}
	if !moved {
		return nil
	}

	p, err := s.payments.GetByGatewayPaymentID(ctx, wr.PaymentID)
	if err != nil {
		return err
	}
	b, err := s.bookingForPayment(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := s.bookings.MarkRefunded(ctx, b.ID); err != nil {
		return err
	}
	s.logger.Info().Str("booking_ref", b.BookingRef).Str("payment_id", wr.PaymentID).Msg("payment refunded")
	return nil
}

// Refund reverses a paid booking through the gateway. Local state only
// changes after the gateway accepts the refund; a gateway failure
// leaves booking and payment untouched.
func (s *Service) Refund(ctx context.Context, req *model.RefundRequest) (*model.Booking, error) {
	b, err := s.bookings.GetByRef(ctx, req.BookingRef)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus != model.PaymentStatePaid {
		return nil, model.ErrNotPaid
	}
	if b.PaymentID == nil {
		return nil, fmt.Errorf("booking %s has no payment on record: %w", b.BookingRef, model.ErrNotPaid)
	}

	p, err := s.payments.Get(ctx, *b.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.GatewayPaymentID == nil {
		return nil, fmt.Errorf("payment %d was never captured: %w", p.ID, model.ErrNotPaid)
	}

	notes := map[string]string{"booking_id": b.BookingRef}
	if req.Reason != "" {
		notes["reason"] = req.Reason
	}
	if _, err := s.gateway.Refund(ctx, *p.GatewayPaymentID, toPaise(p.Amount), notes); err != nil {
		return nil, err
	}

	if _, err := s.payments.MarkRefunded(ctx, *p.GatewayPaymentID); err != nil {
		return nil, err
	}
	if err := s.bookings.MarkRefunded(ctx, b.ID); err != nil {
		return nil, err
	}
	b.PaymentStatus = model.PaymentStateRefunded
	b.Status = model.BookingStatusCancelled

	s.logger.Info().
		Str("booking_ref", b.BookingRef).
		Str("payment_id", *p.GatewayPaymentID).
		Msg("refund issued")
	return b, nil
}

// Status reports the payment state of a booking the actor may see.
func (s *Service) Status(ctx context.Context, actor *model.User, ref string) (*model.PaymentStatusResponse, error) {
	b, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && b.UserID != actor.ID {
		return nil, model.ErrAccessDenied
	}

	resp := &model.PaymentStatusResponse{
		BookingRef:    b.BookingRef,
		PaymentStatus: b.PaymentStatus,
	}
	if b.PaymentID != nil {
		if p, err := s.payments.Get(ctx, *b.PaymentID); err == nil {
			resp.GatewayOrderID = &p.GatewayOrderID
			resp.GatewayPaymentID = p.GatewayPaymentID
			resp.Method = p.Method
		}
	}
	return resp, nil
}

// settle records a captured payment and confirms the booking. Both
// writes are guarded updates, so concurrent settlement from the verify
// and webhook paths converges on one confirmation and one email.
func (s *Service) settle(ctx context.Context, b *model.Booking, orderID, paymentID string, signature, method, bank, wallet, vpa *string) error {
	if _, err := s.payments.MarkPaid(ctx, orderID, paymentID, signature, method, bank, wallet, vpa); err != nil {
		return err
	}

	confirmed, err := s.bookings.MarkPaid(ctx, b.ID)
	if err != nil {
		return err
	}
	b.PaymentStatus = model.PaymentStatePaid
	if b.Status == model.BookingStatusPending {
		b.Status = model.BookingStatusConfirmed
	}

	s.logger.Info().
		Str("booking_ref", b.BookingRef).
		Str("order_id", orderID).
		Bool("confirmed_now", confirmed).
		Msg("payment captured")

	if confirmed {
		if b.Tests, err = s.bookings.ListTests(ctx, b.ID); err != nil {
			s.logger.Error().Err(err).Str("booking_ref", b.BookingRef).Msg("failed to load booking tests")
			return nil
		}
		if patient, err := s.users.Get(ctx, b.UserID); err == nil {
			s.notifier.BookingConfirmed(ctx, patient, b)
		}
	}
	return nil
}

func (s *Service) bookingForPayment(ctx context.Context, paymentID int64) (*model.Booking, error) {
	return s.bookings.GetByPaymentID(ctx, paymentID)
}

func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
