package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"settleup/internal/models"
	"settleup/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newStoredObligation(t *testing.T, store *SQLiteStore, groupID string) *models.Obligation {
	t.Helper()
	o := &models.Obligation{
		GroupID:     groupID,
		Description: "dinner",
		Total:       10000,
		PayerID:     "A",
		Shares: models.ShareMap{
			"A": {Amount: 3334, Paid: true},
			"B": {Amount: 3333},
			"C": {Amount: 3333},
		},
	}
	if err := store.CreateObligation(context.Background(), o); err != nil {
		t.Fatalf("CreateObligation failed: %v", err)
	}
	return o
}

func createTestGroup(t *testing.T, store *SQLiteStore) *models.Group {
	t.Helper()
	group := &models.Group{
		Name:      "Trip",
		CreatorID: "A",
		Members:   []string{"A", "B", "C"},
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestGroupCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and CreatedAt", func(t *testing.T) {
		group := createTestGroup(t, store)
		if group.ID == "" {
			t.Error("expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("GetGroup retrieves members sorted", func(t *testing.T) {
		group := createTestGroup(t, store)
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Trip" || got.CreatorID != "A" {
			t.Errorf("got group %+v", got)
		}
		if len(got.Members) != 3 || got.Members[0] != "A" {
			t.Errorf("members = %v, want sorted [A B C]", got.Members)
		}
	})

	t.Run("GetGroup missing returns ErrNotFound", func(t *testing.T) {
		if _, err := store.GetGroup(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RemoveGroupMember", func(t *testing.T) {
		group := createTestGroup(t, store)
		if err := store.RemoveGroupMember(ctx, group.ID, "B"); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if len(got.Members) != 2 {
			t.Errorf("members = %v, want 2 after removal", got.Members)
		}
		if err := store.RemoveGroupMember(ctx, group.ID, "B"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound on double removal, got %v", err)
		}
	})

	t.Run("DeleteGroup cascades obligations", func(t *testing.T) {
		group := createTestGroup(t, store)
		o := newStoredObligation(t, store, group.ID)

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetObligation(ctx, o.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected obligation to cascade, got %v", err)
		}
	})
}

func TestObligationCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store)

	t.Run("roundtrip preserves shares and version", func(t *testing.T) {
		o := newStoredObligation(t, store, group.ID)
		if o.Version != 1 {
			t.Errorf("initial version = %d, want 1", o.Version)
		}

		got, err := store.GetObligation(ctx, o.ID)
		if err != nil {
			t.Fatalf("GetObligation failed: %v", err)
		}
		if got.Total != 10000 || got.PayerID != "A" {
			t.Errorf("got obligation %+v", got)
		}
		if got.Shares.Sum() != got.Total {
			t.Errorf("share sum %s != total %s", got.Shares.Sum(), got.Total)
		}
		if !got.Shares["A"].Paid || got.Shares["B"].Paid {
			t.Error("paid flags not preserved")
		}
	})

	t.Run("UpdateObligation bumps version", func(t *testing.T) {
		o := newStoredObligation(t, store, group.ID)
		o.MarkPaid("B")
		if err := store.UpdateObligation(ctx, o, 1); err != nil {
			t.Fatalf("UpdateObligation failed: %v", err)
		}
		if o.Version != 2 {
			t.Errorf("version after update = %d, want 2", o.Version)
		}
		got, _ := store.GetObligation(ctx, o.ID)
		if !got.Shares["B"].Paid {
			t.Error("B paid flag not persisted")
		}
		if got.Version != 2 {
			t.Errorf("stored version = %d, want 2", got.Version)
		}
	})

	t.Run("UpdateObligation with stale version conflicts", func(t *testing.T) {
		o := newStoredObligation(t, store, group.ID)
		if err := store.UpdateObligation(ctx, o, 1); err != nil {
			t.Fatalf("first update failed: %v", err)
		}
		err := store.UpdateObligation(ctx, o, 1)
		if !errors.Is(err, storage.ErrVersionConflict) {
			t.Errorf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("DeleteObligation removes shares", func(t *testing.T) {
		o := newStoredObligation(t, store, group.ID)
		if err := store.DeleteObligation(ctx, o.ID, 1); err != nil {
			t.Fatalf("DeleteObligation failed: %v", err)
		}
		if _, err := store.GetObligation(ctx, o.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("DeleteObligation distinguishes stale from missing", func(t *testing.T) {
		o := newStoredObligation(t, store, group.ID)
		if err := store.DeleteObligation(ctx, o.ID, 99); !errors.Is(err, storage.ErrVersionConflict) {
			t.Errorf("expected ErrVersionConflict, got %v", err)
		}
		if err := store.DeleteObligation(ctx, o.ID, 1); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := store.DeleteObligation(ctx, o.ID, 1); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListOpenObligations", func(t *testing.T) {
		g := createTestGroup(t, store)
		first := newStoredObligation(t, store, g.ID)
		second := newStoredObligation(t, store, g.ID)

		obligations, err := store.ListOpenObligations(ctx, g.ID)
		if err != nil {
			t.Fatalf("ListOpenObligations failed: %v", err)
		}
		if len(obligations) != 2 {
			t.Fatalf("got %d obligations, want 2", len(obligations))
		}
		ids := map[string]bool{first.ID: true, second.ID: true}
		for _, o := range obligations {
			if !ids[o.ID] {
				t.Errorf("unexpected obligation %s", o.ID)
			}
		}
	})
}

func TestPaymentOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	order := &models.PaymentOrder{
		OrderID:       "order_abc",
		ObligationID:  "ob-1",
		ParticipantID: "B",
		Amount:        3333,
		Receipt:       "rcpt-1",
	}
	if err := store.CreatePaymentOrder(ctx, order); err != nil {
		t.Fatalf("CreatePaymentOrder failed: %v", err)
	}

	got, err := store.GetPaymentOrder(ctx, "order_abc")
	if err != nil {
		t.Fatalf("GetPaymentOrder failed: %v", err)
	}
	if got.ObligationID != "ob-1" || got.ParticipantID != "B" || got.Amount != 3333 {
		t.Errorf("got order %+v", got)
	}

	if _, err := store.GetPaymentOrder(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewCreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}
