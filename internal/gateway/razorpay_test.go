package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
)

func sign(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.RazorpayConfig{
		BaseURL:       baseURL,
		KeyID:         "rzp_test_key",
		KeySecret:     "key_secret",
		WebhookSecret: "webhook_secret",
	})
}

func TestVerifyPaymentSignature(t *testing.T) {
	c := newTestClient("http://unused")

	good := sign("order_123|pay_456", "key_secret")
	assert.True(t, c.VerifyPaymentSignature("order_123", "pay_456", good))

	assert.False(t, c.VerifyPaymentSignature("order_123", "pay_456", sign("order_123|pay_456", "wrong_secret")))
	assert.False(t, c.VerifyPaymentSignature("order_123", "pay_999", good))
	assert.False(t, c.VerifyPaymentSignature("order_123", "pay_456", ""))
	assert.False(t, c.VerifyPaymentSignature("order_123", "pay_456", "not-hex"))
}

func TestVerifyWebhookSignature(t *testing.T) {
	c := newTestClient("http://unused")
	payload := []byte(`{"event":"payment.captured"}`)

	assert.True(t, c.VerifyWebhookSignature(payload, sign(string(payload), "webhook_secret")))
	assert.False(t, c.VerifyWebhookSignature(payload, sign(string(payload), "key_secret")))
	assert.False(t, c.VerifyWebhookSignature([]byte(`tampered`), sign(string(payload), "webhook_secret")))
}

func TestVerifyWebhookSignatureNoSecretFailsClosed(t *testing.T) {
	c := NewClient(config.RazorpayConfig{
		BaseURL:   "http://unused",
		KeyID:     "rzp_test_key",
		KeySecret: "key_secret",
	})
	payload := []byte(`{"event":"payment.captured"}`)

	// Without a webhook secret nothing can be trusted, not even a
	// payload signed with the key secret.
	assert.False(t, c.VerifyWebhookSignature(payload, sign(string(payload), "key_secret")))
	assert.False(t, c.VerifyWebhookSignature(payload, ""))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "key_secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 89900, body["amount"])

		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Amount:   89900,
			Currency: "INR",
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	order, err := c.CreateOrder(context.Background(), 89900, "INR", "BK1-abc", map[string]string{"booking_id": "BK1-abc"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "BK1-abc", order.Receipt)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad auth"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), 100, "INR", "r1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestParseWebhookEvent(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_123",
					"order_id": "order_456",
					"method": "upi",
					"vpa": "someone@bank"
				}
			}
		}
	}`)

	event, err := ParseWebhookEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, event.Event)
	assert.Equal(t, "pay_123", event.Payload.Payment.Entity.ID)
	assert.Equal(t, "order_456", event.Payload.Payment.Entity.OrderID)
	assert.Equal(t, "someone@bank", event.Payload.Payment.Entity.VPA)

	_, err = ParseWebhookEvent([]byte(`{not json`))
	assert.Error(t, err)
}
