package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"settleup/internal/models"
)

// CreatePaymentOrder records a gateway order mapping. Order rows outlive
// their obligation on purpose: a retried callback for an already-settled
// obligation must still resolve the order to report "already settled".
func (s *SQLiteStore) CreatePaymentOrder(ctx context.Context, order *models.PaymentOrder) error {
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payment_orders (order_id, obligation_id, participant_id, amount, receipt, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		order.OrderID, order.ObligationID, order.ParticipantID, order.Amount.Minor(), order.Receipt, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment order: %w", err)
	}
	return nil
}

// GetPaymentOrder retrieves an order mapping by gateway order id.
func (s *SQLiteStore) GetPaymentOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	order := &models.PaymentOrder{}
	var amount int64
	err := s.db.QueryRowContext(ctx,
		"SELECT order_id, obligation_id, participant_id, amount, receipt, created_at FROM payment_orders WHERE order_id = ?",
		orderID,
	).Scan(&order.OrderID, &order.ObligationID, &order.ParticipantID, &amount, &order.Receipt, &order.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: payment order %s", models.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	order.Amount = models.Money(amount)
	return order, nil
}
