// Package service implements the settlement engine's operations on top of
// the store, the payment gateway and the event publisher. Each operation is
// a single request/response unit of work; concurrent mutations of one
// obligation are serialized by the store's version guard.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"settleup/internal/calculator"
	"settleup/internal/events"
	"settleup/internal/gateway"
	"settleup/internal/metrics"
	"settleup/internal/models"
	"settleup/internal/storage"
)

// casAttempts bounds the read-modify-write retry loop. Version conflicts
// mean another caller won the race; a handful of retries is plenty for
// per-obligation contention.
const casAttempts = 5

// PaymentProof is the gateway's confirmation of a completed payment, as
// delivered by the inbound callback.
type PaymentProof struct {
	OrderID   string
	PaymentID string
	Signature string
}

// SettlementService owns obligation lifecycle: creation, payment tracking
// and finalization.
type SettlementService struct {
	store   storage.Store
	gateway *gateway.Client
	events  events.Publisher
	metrics *metrics.Metrics
}

// NewSettlementService wires the service to its collaborators.
func NewSettlementService(store storage.Store, gw *gateway.Client, pub events.Publisher, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, gateway: gw, events: pub, metrics: m}
}

// CreateObligation splits totalAmount equally across the group's current
// members, with the payer's share pre-marked paid, and persists the result.
// A single-member group yields an obligation that is already fully paid; it
// still runs through the finalizer and is settled (removed) immediately.
func (s *SettlementService) CreateObligation(ctx context.Context, groupID, payerID string, total models.Money, description string) (*models.Obligation, models.Status, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	if !group.HasMember(payerID) {
		return nil, "", fmt.Errorf("%w: payer %s is not a member of group %s", models.ErrNotParticipant, payerID, groupID)
	}

	shares, err := calculator.EqualSplit(total, payerID, group.Members)
	if err != nil {
		return nil, "", err
	}

	o := &models.Obligation{
		GroupID:     groupID,
		Description: description,
		Total:       total,
		PayerID:     payerID,
		Shares:      shares,
	}
	if err := s.store.CreateObligation(ctx, o); err != nil {
		return nil, "", err
	}
	s.metrics.ObligationsCreated.Inc()
	slog.Info("Obligation created",
		"obligation_id", o.ID,
		"group_id", groupID,
		"payer_id", payerID,
		"total", total,
		"participants", len(shares),
	)

	status, err := s.finalizeIfSettled(ctx, o)
	if err != nil {
		return nil, "", err
	}
	return o, status, nil
}

// GetObligation fetches a live obligation.
func (s *SettlementService) GetObligation(ctx context.Context, obligationID string) (*models.Obligation, error) {
	return s.store.GetObligation(ctx, obligationID)
}

// CreatePaymentOrder creates a gateway order covering participantID's share
// of the obligation and records the order mapping for the callback.
func (s *SettlementService) CreatePaymentOrder(ctx context.Context, obligationID, participantID string) (*gateway.Order, error) {
	o, err := s.store.GetObligation(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	sh, ok := o.Shares[participantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no share in obligation %s", models.ErrNotParticipant, participantID, obligationID)
	}
	if sh.Paid {
		return nil, fmt.Errorf("%w: share of %s is already paid", models.ErrInvalidOperation, participantID)
	}

	receipt := uuid.New().String()
	order, err := s.gateway.CreateOrder(ctx, sh.Amount, receipt)
	if err != nil {
		s.metrics.GatewayOrderFailures.Inc()
		return nil, err
	}
	s.metrics.GatewayOrders.Inc()

	if err := s.store.CreatePaymentOrder(ctx, &models.PaymentOrder{
		OrderID:       order.ID,
		ObligationID:  obligationID,
		ParticipantID: participantID,
		Amount:        sh.Amount,
		Receipt:       receipt,
	}); err != nil {
		return nil, err
	}

	slog.Info("Gateway order created",
		"order_id", order.ID,
		"obligation_id", obligationID,
		"participant_id", participantID,
		"amount", sh.Amount,
	)
	return order, nil
}

// Pay processes a gateway payment confirmation: verifies the signature,
// resolves the order to a participant share, and records the payment. A
// forged signature mutates nothing. Retried confirmations are no-ops.
func (s *SettlementService) Pay(ctx context.Context, obligationID string, proof PaymentProof) (models.Status, error) {
	if err := s.gateway.VerifySignature(proof.OrderID, proof.PaymentID, proof.Signature); err != nil {
		s.metrics.ForgedSignatures.Inc()
		slog.Warn("Rejected payment confirmation with bad signature",
			"order_id", proof.OrderID,
			"payment_id", proof.PaymentID,
			"obligation_id", obligationID,
		)
		return "", err
	}

	order, err := s.store.GetPaymentOrder(ctx, proof.OrderID)
	if err != nil {
		return "", err
	}
	if order.ObligationID != obligationID {
		return "", fmt.Errorf("%w: order %s was not created for obligation %s", models.ErrValidation, proof.OrderID, obligationID)
	}

	return s.recordPayment(ctx, obligationID, order.ParticipantID)
}

// MarkPaid records a payment without gateway proof (cash settling). Only the
// participant themselves or the obligation's payer may do it.
func (s *SettlementService) MarkPaid(ctx context.Context, obligationID, participantID, callerID string) (models.Status, error) {
	o, err := s.store.GetObligation(ctx, obligationID)
	if err != nil {
		return "", err
	}
	if callerID != participantID && callerID != o.PayerID {
		return "", fmt.Errorf("%w: only %s or the payer may mark this share paid", models.ErrForbidden, participantID)
	}
	return s.recordPayment(ctx, obligationID, participantID)
}

// ForceSettle lets the payer close an obligation whose shares are all paid.
func (s *SettlementService) ForceSettle(ctx context.Context, obligationID, callerID string) (models.Status, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		o, err := s.store.GetObligation(ctx, obligationID)
		if err != nil {
			return "", err
		}
		if callerID != o.PayerID {
			return "", fmt.Errorf("%w: only the payer may settle obligation %s", models.ErrForbidden, obligationID)
		}
		if unpaid := o.Unpaid(); len(unpaid) > 0 {
			return "", fmt.Errorf("%w: still unpaid: %s", models.ErrIncomplete, strings.Join(unpaid, ", "))
		}

		err = s.store.DeleteObligation(ctx, obligationID, o.Version)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, models.ErrNotFound) {
			// A concurrent finalize already removed it.
			return models.StatusSettled, nil
		}
		if err != nil {
			return "", err
		}
		s.settled(ctx, o)
		return models.StatusSettled, nil
	}
	return "", fmt.Errorf("obligation %s: too many concurrent updates, giving up", obligationID)
}

// recordPayment is the payment tracker: it idempotently marks a share paid
// and, in the same guarded write, finalizes the obligation when everyone has
// paid. There is no window where "all paid" is persisted but unfinalized.
func (s *SettlementService) recordPayment(ctx context.Context, obligationID, participantID string) (models.Status, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		o, err := s.store.GetObligation(ctx, obligationID)
		if err != nil {
			return "", err
		}

		changed, err := o.MarkPaid(participantID)
		if err != nil {
			return "", err
		}
		if !changed {
			// Retried confirmation; nothing happened, current state stands.
			slog.Info("Duplicate payment confirmation ignored",
				"obligation_id", obligationID,
				"participant_id", participantID,
			)
			return o.Status(), nil
		}

		if o.Settled() {
			err = s.store.DeleteObligation(ctx, obligationID, o.Version)
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			if errors.Is(err, models.ErrNotFound) {
				// Lost the finalize race; the winner already removed it.
				return models.StatusSettled, nil
			}
			if err != nil {
				return "", err
			}
			s.metrics.PaymentsRecorded.Inc()
			s.paymentRecorded(ctx, o, participantID)
			s.settled(ctx, o)
			return models.StatusSettled, nil
		}

		err = s.store.UpdateObligation(ctx, o, o.Version)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return "", err
		}
		s.metrics.PaymentsRecorded.Inc()
		s.paymentRecorded(ctx, o, participantID)
		slog.Info("Payment recorded",
			"obligation_id", obligationID,
			"participant_id", participantID,
		)
		return models.StatusOpen, nil
	}
	return "", fmt.Errorf("obligation %s: too many concurrent updates, giving up", obligationID)
}

// finalizeIfSettled runs the finalizer over a freshly created obligation.
func (s *SettlementService) finalizeIfSettled(ctx context.Context, o *models.Obligation) (models.Status, error) {
	if !o.Settled() {
		return models.StatusOpen, nil
	}
	err := s.store.DeleteObligation(ctx, o.ID, o.Version)
	if err != nil && !errors.Is(err, models.ErrNotFound) && !errors.Is(err, storage.ErrVersionConflict) {
		return "", err
	}
	s.settled(ctx, o)
	return models.StatusSettled, nil
}

func (s *SettlementService) paymentRecorded(ctx context.Context, o *models.Obligation, participantID string) {
	msg := events.PaymentRecorded{
		ObligationID:  o.ID,
		GroupID:       o.GroupID,
		ParticipantID: participantID,
		Amount:        o.Shares[participantID].Amount,
		Timestamp:     time.Now(),
	}
	if err := s.events.PaymentRecorded(ctx, msg); err != nil {
		slog.Warn("Failed to publish payment event", "obligation_id", o.ID, "error", err)
	}
}

func (s *SettlementService) settled(ctx context.Context, o *models.Obligation) {
	s.metrics.ObligationsSettled.Inc()
	slog.Info("Obligation settled",
		"obligation_id", o.ID,
		"group_id", o.GroupID,
		"total", o.Total,
	)
	msg := events.ObligationSettled{
		ObligationID: o.ID,
		GroupID:      o.GroupID,
		Total:        o.Total,
		PayerID:      o.PayerID,
		Shares:       events.ShareAmounts(o.Shares),
		Timestamp:    time.Now(),
	}
	if err := s.events.ObligationSettled(ctx, msg); err != nil {
		slog.Warn("Failed to publish settlement event", "obligation_id", o.ID, "error", err)
	}
}
