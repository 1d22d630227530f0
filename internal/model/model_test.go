package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{amount: "19.99"},
		{amount: "100.00"},
		{amount: "0"},
		{amount: "-5.50"},
		{amount: "99999999.99"},
		{amount: "100000000.00", wantErr: true},
		{amount: "1.005", wantErr: true},
		{amount: "-100000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("Expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Error("Expected hash to differ from the plain password")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("Expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Expected wrong password to be rejected")
	}
}
