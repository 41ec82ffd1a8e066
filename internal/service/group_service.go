package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"settleup/internal/calculator"
	"settleup/internal/models"
	"settleup/internal/storage"
)

// GroupService owns group lifecycle and membership reconciliation.
type GroupService struct {
	store       storage.Store
	settlements *SettlementService
}

// NewGroupService creates a GroupService. The settlement service is needed
// because membership changes can complete obligations.
func NewGroupService(store storage.Store, settlements *SettlementService) *GroupService {
	return &GroupService{store: store, settlements: settlements}
}

// CreateGroup creates a group. The creator is always a member; duplicate
// member ids are collapsed.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorID string, members []string, eventDate int64) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", models.ErrValidation)
	}
	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator required", models.ErrValidation)
	}

	seen := map[string]bool{creatorID: true}
	deduped := []string{creatorID}
	for _, m := range members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		deduped = append(deduped, m)
	}

	group := &models.Group{
		Name:      name,
		CreatorID: creatorID,
		Members:   deduped,
		EventDate: eventDate,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "creator_id", creatorID, "members", len(deduped))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup destroys a group and all its obligations. Creator only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if callerID != group.CreatorID {
		return fmt.Errorf("%w: only the creator may delete group %s", models.ErrForbidden, groupID)
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// Balances summarizes who still owes what across the group's open
// obligations.
func (s *GroupService) Balances(ctx context.Context, groupID string) ([]calculator.MemberBalance, []calculator.DebtEdge, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, nil, err
	}
	obligations, err := s.store.ListOpenObligations(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	balances, edges := calculator.GroupBalances(obligations)
	return balances, edges, nil
}

// RemoveMember removes memberID from the group and reconciles every open
// obligation so that its share sum still equals its total: the removed
// member's unpaid amount moves to the remaining unpaid participants, a paid
// amount folds into the payer. Obligations reconcile independently and
// concurrently; each one's mutation is atomic under its version guard.
//
// Preconditions: the caller is the group's creator, the member is not the
// creator, and the member is not the payer of any open obligation (their
// fronted money would lose its creditor).
func (s *GroupService) RemoveMember(ctx context.Context, groupID, callerID, memberID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if callerID != group.CreatorID {
		return fmt.Errorf("%w: only the creator may remove members from group %s", models.ErrForbidden, groupID)
	}
	if memberID == group.CreatorID {
		return fmt.Errorf("%w: the group creator cannot be removed", models.ErrInvalidOperation)
	}
	if !group.HasMember(memberID) {
		return fmt.Errorf("%w: member %s in group %s", models.ErrNotFound, memberID, groupID)
	}

	obligations, err := s.store.ListOpenObligations(ctx, groupID)
	if err != nil {
		return err
	}
	for _, o := range obligations {
		if o.PayerID == memberID {
			return fmt.Errorf("%w: %s is the payer of open obligation %s and cannot be removed", models.ErrInvalidOperation, memberID, o.ID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, o := range obligations {
		g.Go(func() error {
			return s.reconcile(gctx, o.ID, memberID)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, memberID); err != nil {
		return err
	}
	slog.Info("Group member removed", "group_id", groupID, "member_id", memberID)
	return nil
}

// reconcile drops memberID from one obligation under its version guard,
// finalizing the obligation if the removal leaves everyone paid.
func (s *GroupService) reconcile(ctx context.Context, obligationID, memberID string) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		o, err := s.store.GetObligation(ctx, obligationID)
		if errors.Is(err, models.ErrNotFound) {
			// Settled concurrently; nothing left to reconcile.
			return nil
		}
		if err != nil {
			return err
		}
		if _, ok := o.Shares[memberID]; !ok {
			return nil
		}

		if err := calculator.RemoveParticipant(o.Shares, memberID, o.PayerID); err != nil {
			return err
		}

		if o.Settled() {
			err = s.store.DeleteObligation(ctx, obligationID, o.Version)
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			s.settlements.settled(ctx, o)
			return nil
		}

		err = s.store.UpdateObligation(ctx, o, o.Version)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return err
		}
		slog.Info("Obligation reconciled after member removal",
			"obligation_id", obligationID,
			"removed_member", memberID,
		)
		return nil
	}
	return fmt.Errorf("obligation %s: too many concurrent updates, giving up", obligationID)
}
