package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spec-kit/servicedesk/internal/config"
)

// RazorpayGateway talks to the Razorpay orders API over HTTP and verifies
// checkout signatures with the shared key secret.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	endpoint  string
	client    *http.Client
}

// NewRazorpayGateway builds a gateway client from config.
func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		endpoint:  cfg.Endpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type orderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder registers a pending order with the gateway.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	body, err := json.Marshal(orderPayload{
		Amount:   req.AmountMinor,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(g.keyID, g.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var parsed orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &Order{
		ID:          parsed.ID,
		Receipt:     parsed.Receipt,
		AmountMinor: parsed.Amount,
		Currency:    parsed.Currency,
	}, nil
}

// VerifySignature checks the checkout signature: HMAC-SHA256 over
// "<order_id>|<payment_id>" keyed by the secret, hex encoded.
func (g *RazorpayGateway) VerifySignature(result Result) bool {
	expected := SignResult(result.OrderID, result.PaymentID, g.keySecret)
	return hmac.Equal([]byte(expected), []byte(result.Signature))
}

// SignResult computes the gateway signature for an order/payment pair.
func SignResult(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
