package models

import (
	"fmt"
	"sort"
)

// Status is the externally visible settlement state of an obligation.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusSettled Status = "SETTLED"
)

// Share is one participant's slice of an obligation: the amount they owe and
// whether they have paid it. Amount and paid flag travel together so the two
// can never be mutated out of lock-step.
type Share struct {
	Amount Money
	Paid   bool
}

// ShareMap maps participant id to that participant's share.
type ShareMap map[string]Share

// Sum returns the total of all share amounts.
func (sm ShareMap) Sum() Money {
	var total Money
	for _, sh := range sm {
		total += sh.Amount
	}
	return total
}

// Obligation represents a single shared cost fronted by one payer, split
// among a fixed set of participants.
type Obligation struct {
	// ID is the unique identifier for the obligation (UUID format).
	ID string

	// GroupID is the owning group. Deleting the group deletes the
	// obligation; otherwise the obligation's lifecycle is driven by
	// payment completion alone.
	GroupID string

	// Description is a human-readable label ("dinner", "cab to airport").
	Description string

	// Total is the full cost in minor units. Invariant: Shares.Sum() ==
	// Total at all times the obligation exists.
	Total Money

	// PayerID is the participant who fronted the money. Their share is
	// marked paid from creation.
	PayerID string

	// Shares holds one entry per participant.
	Shares ShareMap

	// Version is the optimistic-concurrency counter. Every persisted
	// update increments it; stores reject writes against a stale version.
	Version int64

	// CreatedAt is the Unix timestamp when the obligation was created.
	CreatedAt int64
}

// Participants returns the participant ids in sorted order.
func (o *Obligation) Participants() []string {
	ids := make([]string, 0, len(o.Shares))
	for id := range o.Shares {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarkPaid marks participantID's share as paid. Returns false if the share
// was already paid (the call is an idempotent no-op), and ErrNotParticipant
// if participantID has no share in this obligation.
func (o *Obligation) MarkPaid(participantID string) (changed bool, err error) {
	sh, ok := o.Shares[participantID]
	if !ok {
		return false, fmt.Errorf("%w: %s has no share in obligation %s", ErrNotParticipant, participantID, o.ID)
	}
	if sh.Paid {
		return false, nil
	}
	sh.Paid = true
	o.Shares[participantID] = sh
	return true, nil
}

// Settled reports whether every participant's share is paid. This is the
// single "everyone paid" predicate; nothing else inspects the paid flags.
func (o *Obligation) Settled() bool {
	for _, sh := range o.Shares {
		if !sh.Paid {
			return false
		}
	}
	return true
}

// Unpaid returns the ids of participants whose shares are unpaid, sorted.
func (o *Obligation) Unpaid() []string {
	var ids []string
	for id, sh := range o.Shares {
		if !sh.Paid {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Status returns StatusSettled when every share is paid, else StatusOpen.
func (o *Obligation) Status() Status {
	if o.Settled() {
		return StatusSettled
	}
	return StatusOpen
}

// PaymentOrder links a gateway order to the obligation share it pays for.
// The inbound payment callback only carries the order id, so this record is
// how the engine knows which participant's share a confirmation discharges.
type PaymentOrder struct {
	// OrderID is the gateway-assigned order identifier.
	OrderID string

	// ObligationID and ParticipantID locate the share being paid.
	ObligationID  string
	ParticipantID string

	// Amount is the share amount the order was created for, minor units.
	Amount Money

	// Receipt is the opaque per-request receipt sent to the gateway.
	Receipt string

	// CreatedAt is the Unix timestamp when the order was created.
	CreatedAt int64
}
