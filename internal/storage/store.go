// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"settleup/internal/models"
)

// ErrVersionConflict is returned by the guarded obligation writes when the
// row has moved on from the version the caller read. Callers re-read and
// retry; it never reaches API clients.
var ErrVersionConflict = errors.New("version conflict")

// Store defines the persistence interface for the settlement engine.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Obligation writes are guarded: UpdateObligation and DeleteObligation only
// apply if the stored version still equals expectedVersion, otherwise they
// return ErrVersionConflict. This is the compare-and-swap that serializes
// concurrent payment, finalization and reconciliation per obligation.
type Store interface {
	// CreateGroup persists a new group, assigning ID and CreatedAt.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, wrapping models.ErrNotFound when absent.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// DeleteGroup removes a group and, via cascade, all its obligations.
	DeleteGroup(ctx context.Context, groupID string) error

	// RemoveGroupMember removes a member row from the group.
	RemoveGroupMember(ctx context.Context, groupID, memberID string) error

	// CreateObligation persists a new obligation with its shares,
	// assigning ID, CreatedAt and an initial version.
	CreateObligation(ctx context.Context, obligation *models.Obligation) error

	// GetObligation retrieves a live obligation with its shares,
	// wrapping models.ErrNotFound when absent (including after settlement).
	GetObligation(ctx context.Context, obligationID string) (*models.Obligation, error)

	// ListOpenObligations returns every live obligation owned by the group.
	ListOpenObligations(ctx context.Context, groupID string) ([]*models.Obligation, error)

	// UpdateObligation rewrites the obligation's shares and bumps its
	// version, guarded by expectedVersion.
	UpdateObligation(ctx context.Context, obligation *models.Obligation, expectedVersion int64) error

	// DeleteObligation removes an obligation, guarded by expectedVersion.
	// This is the finalizer's terminal transition.
	DeleteObligation(ctx context.Context, obligationID string, expectedVersion int64) error

	// CreatePaymentOrder records the order -> (obligation, participant)
	// mapping for a gateway order.
	CreatePaymentOrder(ctx context.Context, order *models.PaymentOrder) error

	// GetPaymentOrder retrieves an order mapping by gateway order id.
	GetPaymentOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error)

	// Close releases any resources held by the store.
	Close() error
}
