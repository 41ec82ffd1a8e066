package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"settleup/internal/models"
	"settleup/internal/storage"
)

// CreateObligation persists a new obligation and its share rows.
func (s *SQLiteStore) CreateObligation(ctx context.Context, o *models.Obligation) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt == 0 {
		o.CreatedAt = time.Now().Unix()
	}
	o.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO obligations (id, group_id, description, total, payer_id, version, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		o.ID, o.GroupID, o.Description, o.Total.Minor(), o.PayerID, o.Version, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert obligation: %w", err)
	}

	if err := insertShares(ctx, tx, o); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetObligation retrieves a live obligation with its shares.
func (s *SQLiteStore) GetObligation(ctx context.Context, obligationID string) (*models.Obligation, error) {
	o := &models.Obligation{}
	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, description, total, payer_id, version, created_at FROM obligations WHERE id = ?",
		obligationID,
	).Scan(&o.ID, &o.GroupID, &o.Description, &total, &o.PayerID, &o.Version, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: obligation %s (it may already be settled and removed)", models.ErrNotFound, obligationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	o.Total = models.Money(total)

	if o.Shares, err = s.loadShares(ctx, o.ID); err != nil {
		return nil, err
	}

	return o, nil
}

// ListOpenObligations returns every live obligation owned by the group.
func (s *SQLiteStore) ListOpenObligations(ctx context.Context, groupID string) ([]*models.Obligation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM obligations WHERE group_id = ? ORDER BY created_at",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan obligation id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}

	obligations := make([]*models.Obligation, 0, len(ids))
	for _, id := range ids {
		o, err := s.GetObligation(ctx, id)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, o)
	}
	return obligations, nil
}

// UpdateObligation rewrites the obligation's shares and bumps its version.
// The write only applies when the stored version still equals
// expectedVersion; a stale caller gets storage.ErrVersionConflict.
func (s *SQLiteStore) UpdateObligation(ctx context.Context, o *models.Obligation, expectedVersion int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE obligations SET description = ?, total = ?, version = version + 1 WHERE id = ? AND version = ?",
		o.Description, o.Total.Minor(), o.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update obligation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("obligation %s at version %d: %w", o.ID, expectedVersion, storage.ErrVersionConflict)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM obligation_shares WHERE obligation_id = ?", o.ID); err != nil {
		return fmt.Errorf("failed to clear shares: %w", err)
	}
	if err := insertShares(ctx, tx, o); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	o.Version = expectedVersion + 1
	return nil
}

// DeleteObligation removes an obligation under the same version guard as
// UpdateObligation. Share rows cascade. A row that is already gone reports
// models.ErrNotFound so the finalizer can treat it as an idempotent no-op.
func (s *SQLiteStore) DeleteObligation(ctx context.Context, obligationID string, expectedVersion int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM obligations WHERE id = ? AND version = ?",
		obligationID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to delete obligation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		// Distinguish a stale version from a row that no longer exists.
		var exists int
		err := s.db.QueryRowContext(ctx,
			"SELECT 1 FROM obligations WHERE id = ?", obligationID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: obligation %s", models.ErrNotFound, obligationID)
		}
		if err != nil {
			return fmt.Errorf("failed to check obligation existence: %w", err)
		}
		return fmt.Errorf("obligation %s at version %d: %w", obligationID, expectedVersion, storage.ErrVersionConflict)
	}
	return nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, obligationID string) (models.ShareMap, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, amount, paid FROM obligation_shares WHERE obligation_id = ?",
		obligationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	shares := make(models.ShareMap)
	for rows.Next() {
		var (
			id     string
			amount int64
			paid   bool
		)
		if err := rows.Scan(&id, &amount, &paid); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares[id] = models.Share{Amount: models.Money(amount), Paid: paid}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

func insertShares(ctx context.Context, tx *sql.Tx, o *models.Obligation) error {
	for id, sh := range o.Shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO obligation_shares (obligation_id, participant_id, amount, paid) VALUES (?, ?, ?, ?)",
			o.ID, id, sh.Amount.Minor(), sh.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}
