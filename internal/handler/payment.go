package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShubhenduKH/TestMyBlood/internal/middleware"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/service/payment"
)

const webhookSignatureHeader = "X-Razorpay-Signature"

// Webhook bodies are small JSON documents; anything bigger is not a
// gateway event.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	svc *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	order, err := h.svc.CreateOrder(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	var req model.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	b, err := h.svc.Verify(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "payment verified", b)
}

// Webhook is unauthenticated; trust comes entirely from the signature
// over the raw body.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	signature := c.GetHeader(webhookSignatureHeader)
	if err := h.svc.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		if err == model.ErrInvalidSignature {
			c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid webhook signature"})
			return
		}
		respondError(c, err)
		return
	}
	respondMessage(c, "ok")
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req model.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	b, err := h.svc.Refund(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessageData(c, "refund issued", b)
}

func (h *PaymentHandler) Status(c *gin.Context) {
	user := middleware.CurrentUser(c)
	status, err := h.svc.Status(c.Request.Context(), user, c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, status)
}
