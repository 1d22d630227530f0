package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tordrt/billingdb/internal/model"
	"github.com/tordrt/billingdb/internal/schema"
)

const paymentColumns = "id, user_id, amount, COALESCE(currency, '') AS currency, paid_at, payment_method, COALESCE(status, '') AS status"

// Payments stores rows of the payments table
type Payments struct {
	table
}

// Create inserts a payment and fills p with the stored row.
// Empty Currency and Status and a nil PaidAt take the column defaults.
// NULL currency and status read back as empty strings.
func (r *Payments) Create(ctx context.Context, p *model.Payment) error {
	if err := model.ValidateAmount(p.Amount); err != nil {
		return err
	}

	var c columns
	c.add("user_id", p.UserID)
	c.add("amount", p.Amount.StringFixed(2))
	c.addIfSet("currency", p.Currency)
	if p.PaidAt != nil {
		c.add("paid_at", p.PaidAt.UTC())
	}
	c.add("payment_method", optional(p.PaymentMethod))
	c.addIfSet("status", string(p.Status))

	id, err := r.insert(ctx, schema.PaymentsTable, c.names, c.args)
	if err != nil {
		return fmt.Errorf("failed to create payment for user %d: %w", p.UserID, translate(err, foreignKeyViolation, ErrUnknownUser))
	}
	r.log.Debug("payment created", zap.Int64("id", id), zap.Int64("user_id", p.UserID))

	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// GetByID returns the payment with the given id
func (r *Payments) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	if err := r.get(ctx, &p, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}
	return &p, nil
}

// ListByUser returns the payments of a user, oldest first
func (r *Payments) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	payments := []model.Payment{}
	if err := r.list(ctx, &payments, "SELECT "+paymentColumns+" FROM payments WHERE user_id = ? ORDER BY paid_at, id", userID); err != nil {
		return nil, fmt.Errorf("failed to list payments of user %d: %w", userID, err)
	}
	return payments, nil
}
