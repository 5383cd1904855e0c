package model

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CanAdvanceTo enforces monotonic payment progress: created may settle
// either way, a failed attempt may still be captured, and only a paid
// payment can be refunded.
func (s PaymentStatus) CanAdvanceTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusCreated:
		return next == PaymentStatusPaid || next == PaymentStatusFailed
	case PaymentStatusFailed:
		return next == PaymentStatusPaid
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	}
	return false
}

type Payment struct {
	ID               int64         `json:"id" db:"id"`
	GatewayOrderID   string        `json:"razorpay_order_id" db:"gateway_order_id"`
	GatewayPaymentID *string       `json:"razorpay_payment_id,omitempty" db:"gateway_payment_id"`
	Signature        *string       `json:"-" db:"signature"`
	Amount           float64       `json:"amount" db:"amount"`
	Currency         string        `json:"currency" db:"currency"`
	Method           *string       `json:"method,omitempty" db:"method"`
	Bank             *string       `json:"bank,omitempty" db:"bank"`
	Wallet           *string       `json:"wallet,omitempty" db:"wallet"`
	VPA              *string       `json:"vpa,omitempty" db:"vpa"`
	Status           PaymentStatus `json:"status" db:"status"`
	ErrorCode        *string       `json:"error_code,omitempty" db:"error_code"`
	ErrorDescription *string       `json:"error_description,omitempty" db:"error_description"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

type CreateOrderRequest struct {
	BookingRef string `json:"booking_id" binding:"required"`
}

type VerifyPaymentRequest struct {
	OrderID    string `json:"razorpay_order_id" binding:"required"`
	PaymentID  string `json:"razorpay_payment_id" binding:"required"`
	Signature  string `json:"razorpay_signature" binding:"required"`
	BookingRef string `json:"booking_id" binding:"required"`
}

type RefundRequest struct {
	BookingRef string `json:"booking_id" binding:"required"`
	Reason     string `json:"reason"`
}

type PaymentStatusResponse struct {
	BookingRef       string       `json:"booking_id"`
	PaymentStatus    PaymentState `json:"payment_status"`
	GatewayOrderID   *string      `json:"razorpay_order_id,omitempty"`
	GatewayPaymentID *string      `json:"razorpay_payment_id,omitempty"`
	Method           *string      `json:"payment_method,omitempty"`
}
