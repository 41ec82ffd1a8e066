package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"settleup/internal/models"
)

func TestVerifySignature(t *testing.T) {
	c := New(Config{KeySecret: "test-secret"})

	valid := c.Sign("order_123", "pay_456")

	if err := c.VerifySignature("order_123", "pay_456", valid); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"wrong signature", "order_123", "pay_456", c.Sign("order_123", "pay_999")},
		{"signature for other order", "order_123", "pay_456", c.Sign("order_999", "pay_456")},
		{"empty signature", "order_123", "pay_456", ""},
		{"non-hex signature", "order_123", "pay_456", "not-hex-at-all"},
		{"truncated signature", "order_123", "pay_456", valid[:10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.VerifySignature(tt.orderID, tt.paymentID, tt.signature)
			if !errors.Is(err, models.ErrForgedSignature) {
				t.Errorf("expected ErrForgedSignature, got %v", err)
			}
		})
	}
}

func TestVerifySignatureDifferentSecrets(t *testing.T) {
	a := New(Config{KeySecret: "secret-a"})
	b := New(Config{KeySecret: "secret-b"})

	sig := a.Sign("order_1", "pay_1")
	if err := b.VerifySignature("order_1", "pay_1", sig); !errors.Is(err, models.ErrForgedSignature) {
		t.Errorf("signature under wrong secret accepted: %v", err)
	}
}

func TestCreateOrder(t *testing.T) {
	var gotReq createOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if user, _, ok := r.BasicAuth(); !ok || user != "key_id" {
			t.Error("expected basic auth with key id")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Amount:   gotReq.Amount,
			Currency: gotReq.Currency,
			Receipt:  gotReq.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, KeyID: "key_id", KeySecret: "secret", Currency: "INR"})

	order, err := c.CreateOrder(context.Background(), 3333, "rcpt-1")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "order_abc" {
		t.Errorf("order id = %s, want order_abc", order.ID)
	}
	if gotReq.Amount != 3333 {
		t.Errorf("amount sent = %d, want 3333 minor units", gotReq.Amount)
	}
	if gotReq.Currency != "INR" {
		t.Errorf("currency sent = %s, want INR", gotReq.Currency)
	}
	if gotReq.Receipt != "rcpt-1" {
		t.Errorf("receipt sent = %s, want rcpt-1", gotReq.Receipt)
	}
}

func TestCreateOrderFailures(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer rejecting.Close()

	tests := []struct {
		name    string
		baseURL string
		amount  models.Money
	}{
		{"provider rejects", rejecting.URL, 500},
		{"provider unreachable", "http://127.0.0.1:1", 500},
		{"non-positive amount", rejecting.URL, 0},
		{"below minimum", rejecting.URL, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{BaseURL: tt.baseURL, KeySecret: "secret", MinAmount: 100})
			_, err := c.CreateOrder(context.Background(), tt.amount, "rcpt")
			if !errors.Is(err, models.ErrGateway) {
				t.Errorf("expected ErrGateway, got %v", err)
			}
		})
	}
}
