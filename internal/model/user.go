// Package model holds the records stored in the billing schema.
package model

import (
	"time"
)

// SubscriptionTier is a free-form plan label. The constants are the known plans;
// other values are stored as given.
type SubscriptionTier string

const (
	TierBasic SubscriptionTier = "Basic"
	TierPro   SubscriptionTier = "Pro"
	TierTeam  SubscriptionTier = "Team"
)

// PaymentStatus is the billing state of a user account
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusActive   PaymentStatus = "active"
	PaymentStatusCanceled PaymentStatus = "canceled"
)

// User is a row of the users table
type User struct {
	ID               int64             `db:"id" json:"id"`
	FirstName        string            `db:"first_name" json:"first_name"`
	LastName         string            `db:"last_name" json:"last_name"`
	Email            string            `db:"email" json:"email"`
	PasswordHash     string            `db:"password_hash" json:"-"`
	Phone            *string           `db:"phone" json:"phone,omitempty"`
	RegisteredAt     *time.Time        `db:"registered_at" json:"registered_at,omitempty"`
	SubscriptionTier *SubscriptionTier `db:"subscription_tier" json:"subscription_tier,omitempty"`
	PaymentStatus    PaymentStatus     `db:"payment_status" json:"payment_status"`
}
