package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is a free-form label for how a payment was made
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodStripe       PaymentMethod = "stripe"
	MethodPayPal       PaymentMethod = "paypal"
)

// PaymentRecordStatus is the outcome of a single payment
type PaymentRecordStatus string

const (
	PaymentSuccessful PaymentRecordStatus = "successful"
	PaymentPending    PaymentRecordStatus = "pending"
	PaymentCanceled   PaymentRecordStatus = "canceled"
)

// DefaultCurrency is what the payments table stores when no currency is given
const DefaultCurrency = "TRY"

// Amounts are stored as DECIMAL(10,2)
const (
	amountPrecision = 10
	amountScale     = 2
)

// ErrInvalidAmount is returned for amounts that DECIMAL(10,2) cannot hold exactly
var ErrInvalidAmount = errors.New("invalid amount")

// Payment is a row of the payments table
type Payment struct {
	ID            int64               `db:"id" json:"id"`
	UserID        int64               `db:"user_id" json:"user_id"`
	Amount        decimal.Decimal     `db:"amount" json:"amount"`
	Currency      string              `db:"currency" json:"currency"`
	PaidAt        *time.Time          `db:"paid_at" json:"paid_at,omitempty"`
	PaymentMethod *PaymentMethod      `db:"payment_method" json:"payment_method,omitempty"`
	Status        PaymentRecordStatus `db:"status" json:"status"`
}

// ValidateAmount checks that the amount has at most two fractional digits and
// at most eight integer digits. Negative amounts are accepted.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(amountScale)) {
		return fmt.Errorf("%w: %s has more than %d fractional digits", ErrInvalidAmount, amount, amountScale)
	}

	limit := decimal.New(1, amountPrecision-amountScale)
	if amount.Abs().GreaterThanOrEqual(limit) {
		return fmt.Errorf("%w: %s exceeds %d digits", ErrInvalidAmount, amount, amountPrecision)
	}
	return nil
}
