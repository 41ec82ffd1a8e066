// Package events publishes settlement-engine events to a message broker.
//
// Settlement is destructive: a fully paid obligation is deleted from the
// live store. The published events are therefore the only durable record of
// payments and settlements. Publishing is best-effort; a broker outage must
// never fail a payment.
package events

import "context"

// Publisher emits engine events. Implementations: AMQP (RabbitMQ) and Noop.
type Publisher interface {
	// PaymentRecorded is emitted after a share is marked paid.
	PaymentRecorded(ctx context.Context, msg PaymentRecorded) error

	// ObligationSettled is emitted when the finalizer removes a fully
	// paid obligation from the live store.
	ObligationSettled(ctx context.Context, msg ObligationSettled) error

	// Close releases broker resources.
	Close() error
}

// Noop discards all events. Used when no broker is configured.
type Noop struct{}

func (Noop) PaymentRecorded(context.Context, PaymentRecorded) error     { return nil }
func (Noop) ObligationSettled(context.Context, ObligationSettled) error { return nil }
func (Noop) Close() error                                               { return nil }
