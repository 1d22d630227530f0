package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/tordrt/billingdb/internal/model"
	"github.com/tordrt/billingdb/internal/schema"
)

const userColumns = "id, first_name, last_name, email, password_hash, phone, registered_at, subscription_tier, COALESCE(payment_status, '') AS payment_status"

// Users stores rows of the users table
type Users struct {
	table
}

// Create inserts a user and fills u with the stored row, including id and defaults.
// Nil RegisteredAt and empty PaymentStatus take the column defaults.
// A NULL payment_status reads back as an empty status.
func (r *Users) Create(ctx context.Context, u *model.User) error {
	var c columns
	c.add("first_name", u.FirstName)
	c.add("last_name", u.LastName)
	c.add("email", u.Email)
	c.add("password_hash", u.PasswordHash)
	c.add("phone", u.Phone)
	if u.RegisteredAt != nil {
		c.add("registered_at", u.RegisteredAt.UTC())
	}
	c.add("subscription_tier", optional(u.SubscriptionTier))
	c.addIfSet("payment_status", string(u.PaymentStatus))

	id, err := r.insert(ctx, schema.UsersTable, c.names, c.args)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.Email, translate(err, uniqueViolation, ErrDuplicateEmail))
	}
	r.log.Debug("user created", zap.Int64("id", id))

	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*u = *stored
	return nil
}

// GetByID returns the user with the given id
func (r *Users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.get(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

// GetByEmail returns the user registered with the given email
func (r *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.get(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = ?", email); err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", email, err)
	}
	return &u, nil
}

// UpdateBilling sets the subscription tier and payment status of a user.
// A nil tier clears it; an empty status keeps the stored one.
func (r *Users) UpdateBilling(ctx context.Context, id int64, tier *model.SubscriptionTier, status model.PaymentStatus) error {
	query := "UPDATE users SET subscription_tier = ?"
	args := []any{optional(tier)}
	if status != "" {
		query += ", payment_status = ?"
		args = append(args, string(status))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query+" WHERE id = ?"), args...)
	if err != nil {
		return fmt.Errorf("failed to update billing of user %d: %w", id, err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("failed to update billing of user %d: %w", id, err)
	}
	r.log.Debug("user billing updated", zap.Int64("id", id), zap.String("payment_status", string(status)))
	return nil
}

// Delete removes a user. Users that still own payments or login logs cannot be deleted.
func (r *Users) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, translate(err, foreignKeyViolation, ErrUserReferenced))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	r.log.Debug("user deleted", zap.Int64("id", id))
	return nil
}

// optional converts a nullable label into a driver value
func optional[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
