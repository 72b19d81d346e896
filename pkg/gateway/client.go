package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
)

const ordersPath = "/v1/orders"

// ErrNotConfigured signals that gateway credentials are missing.
var ErrNotConfigured = errors.New("payment gateway credentials not configured")

// Client talks to the payment gateway's order API and verifies callback
// signatures with the shared secret.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	currency  string
	http      *http.Client
}

// Order is a remote payment intent. It is never persisted locally.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// NewClient builds a gateway client. Missing credentials are not an error
// here; order creation reports ErrNotConfigured so the API can still serve
// everything that does not touch the gateway.
func NewClient(ctx context.Context, cfg config.GatewayConfig, logg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		keyID:     strings.TrimSpace(cfg.KeyID),
		keySecret: strings.TrimSpace(cfg.KeySecret),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		currency:  cfg.Currency,
		http:      &http.Client{Timeout: timeout},
	}
	if logg != nil {
		if client.Configured() {
			logg.Info(ctx, "payment gateway client initialized")
		} else {
			logg.Warn(ctx, "payment gateway credentials missing, order creation disabled")
		}
	}
	return client
}

// Configured reports whether both gateway credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.keyID != "" && c.keySecret != ""
}

// KeyID returns the public key identifier checkout clients embed. Safe to
// expose; the secret never leaves this package.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// Currency returns the configured settlement currency.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreateOrder registers a payment intent with the gateway. amountMinor is in
// the currency's minor unit (paise). No local state is written.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, receipt string) (*Order, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amountMinor)
	}

	body, err := json.Marshal(orderRequest{
		Amount:   amountMinor,
		Currency: c.currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway order request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway order request returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway order response missing id")
	}
	return &order, nil
}

// VerifySignature recomputes the callback HMAC over "orderID|paymentID" and
// compares it to the supplied signature in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if !c.Configured() || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
