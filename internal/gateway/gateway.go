// Package gateway talks to the external payment provider: creating orders
// for participant shares and verifying the authenticity of inbound payment
// confirmations.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"settleup/internal/models"
)

// Config holds the provider credentials and policy knobs.
type Config struct {
	// BaseURL is the provider API root, e.g. "https://api.razorpay.com".
	BaseURL string

	// KeyID and KeySecret are the API credentials. KeySecret is also the
	// shared secret for signature verification.
	KeyID     string
	KeySecret string

	// Currency is the ISO code sent on order creation (default INR).
	Currency string

	// MinAmount is the smallest order the provider accepts, minor units.
	MinAmount models.Money
}

// Order is the provider's order handle returned on creation.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client is an HTTP client for the payment provider.
type Client struct {
	cfg   Config
	httpc *http.Client
}

// New creates a gateway client. Currency defaults to INR and MinAmount to
// one whole unit (100 minor units) when unset.
func New(cfg Config) *Client {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.MinAmount == 0 {
		cfg.MinAmount = 100
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder creates a provider order for the given amount. The receipt is
// an opaque string unique per request. Non-positive or below-minimum amounts
// and any upstream failure return models.ErrGateway.
func (c *Client) CreateOrder(ctx context.Context, amount models.Money, receipt string) (*Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: order amount must be positive, got %s", models.ErrGateway, amount)
	}
	if amount < c.cfg.MinAmount {
		return nil, fmt.Errorf("%w: order amount %s below provider minimum %s", models.ErrGateway, amount, c.cfg.MinAmount)
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amount.Minor(),
		Currency: c.cfg.Currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode order request: %v", models.ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build order request: %v", models.ErrGateway, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: provider unreachable: %v", models.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: provider rejected order (status %d): %s", models.ErrGateway, resp.StatusCode, bytes.TrimSpace(detail))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order response: %v", models.ErrGateway, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: provider returned order without id", models.ErrGateway)
	}

	return &order, nil
}
