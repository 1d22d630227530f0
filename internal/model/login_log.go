package model

import "time"

// LoginLog is a row of the login_logs table
type LoginLog struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	LoggedInAt *time.Time `db:"logged_in_at" json:"logged_in_at,omitempty"`
	IPAddress  *string   `db:"ip_address" json:"ip_address,omitempty"`
}
