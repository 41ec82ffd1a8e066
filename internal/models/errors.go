package models

import "errors"

// Error taxonomy for the settlement engine. Every operation returns one of
// these (possibly wrapped with detail) so callers can distinguish outcomes
// with errors.Is instead of matching message strings.
var (
	// ErrValidation marks bad input shape or range: non-positive amounts,
	// empty participant sets, malformed payloads.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced group, obligation or member that does
	// not exist in the live store. For obligations this includes the
	// "already settled and removed" case; wrapping messages say which.
	ErrNotFound = errors.New("not found")

	// ErrNotParticipant marks a payment attempt by someone who is not a
	// participant of the obligation.
	ErrNotParticipant = errors.New("not a participant")

	// ErrForbidden marks an authorization failure: non-creator group
	// mutation, non-payer force-settle.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidOperation marks a structurally disallowed mutation, such as
	// removing the group creator.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrIncomplete marks a force-settle attempted while shares are unpaid.
	ErrIncomplete = errors.New("obligation incomplete")

	// ErrForgedSignature marks a gateway payment confirmation whose
	// signature does not verify. Expected adversarial input, not a bug.
	ErrForgedSignature = errors.New("forged signature")

	// ErrGateway marks an upstream payment-provider failure.
	ErrGateway = errors.New("gateway error")
)
