package domain

import "github.com/shopspring/decimal"

// ClaimPolicy carries the configurable business-rule bounds. It is built
// once at startup from configuration and passed into the engines; the
// engines never reach into a global settings object.
type ClaimPolicy struct {
	// MinHours and MaxHours bound the hours-worked field of a single claim.
	MinHours decimal.Decimal
	MaxHours decimal.Decimal
	// MinRate and MaxRate bound the hourly rate of a single claim.
	MinRate decimal.Decimal
	MaxRate decimal.Decimal
	// MaxAmount caps the computed total amount of a claim.
	MaxAmount decimal.Decimal
	// MonthlyHoursLimit caps the cumulative hours a lecturer may claim
	// within one calendar month.
	MonthlyHoursLimit decimal.Decimal
}

// DefaultClaimPolicy returns the policy with the documented defaults.
func DefaultClaimPolicy() ClaimPolicy {
	return ClaimPolicy{
		MinHours:          decimal.RequireFromString("0.1"),
		MaxHours:          decimal.NewFromInt(200),
		MinRate:           decimal.NewFromInt(50),
		MaxRate:           decimal.NewFromInt(1000),
		MaxAmount:         decimal.NewFromInt(50000),
		MonthlyHoursLimit: decimal.NewFromInt(1000),
	}
}
