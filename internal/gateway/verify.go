package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"settleup/internal/models"
)

// VerifySignature checks an inbound payment confirmation against the shared
// key secret: the provider signs HMAC-SHA256(orderID + "|" + paymentID) and
// sends the hex digest. The comparison is constant time. A mismatch (or a
// signature that is not valid hex) returns models.ErrForgedSignature and
// must never lead to state mutation; forged confirmations are expected
// adversarial input.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.cfg.KeySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not valid hex", models.ErrForgedSignature)
	}
	if !hmac.Equal(expected, provided) {
		return fmt.Errorf("%w: signature mismatch for order %s", models.ErrForgedSignature, orderID)
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 signature for an order/payment pair.
// The server never sends signatures; this exists for tests and tooling that
// need to produce valid confirmations.
func (c *Client) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.KeySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}
