package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tordrt/billingdb/internal/model"
	"github.com/tordrt/billingdb/internal/schema"
)

const loginLogColumns = "id, user_id, logged_in_at, ip_address"

// LoginLogs appends to and reads the login_logs table
type LoginLogs struct {
	table
}

// Record appends a login of the user. An empty ip is stored as NULL.
func (r *LoginLogs) Record(ctx context.Context, userID int64, ip string) (*model.LoginLog, error) {
	var c columns
	c.add("user_id", userID)
	c.addIfSet("ip_address", ip)

	id, err := r.insert(ctx, schema.LoginLogsTable, c.names, c.args)
	if err != nil {
		return nil, fmt.Errorf("failed to record login of user %d: %w", userID, translate(err, foreignKeyViolation, ErrUnknownUser))
	}
	r.log.Debug("login recorded", zap.Int64("id", id), zap.Int64("user_id", userID))

	var entry model.LoginLog
	if err := r.get(ctx, &entry, "SELECT "+loginLogColumns+" FROM login_logs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to get login log %d: %w", id, err)
	}
	return &entry, nil
}

// ListByUser returns the logins of a user, oldest first
func (r *LoginLogs) ListByUser(ctx context.Context, userID int64) ([]model.LoginLog, error) {
	logs := []model.LoginLog{}
	if err := r.list(ctx, &logs, "SELECT "+loginLogColumns+" FROM login_logs WHERE user_id = ? ORDER BY logged_in_at, id", userID); err != nil {
		return nil, fmt.Errorf("failed to list login logs of user %d: %w", userID, err)
	}
	return logs, nil
}
