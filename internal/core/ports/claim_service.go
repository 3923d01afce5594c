package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SubmitClaimInput carries all data needed to submit a new claim.
type SubmitClaimInput struct {
	LecturerID  string
	HoursWorked decimal.Decimal
	HourlyRate  decimal.Decimal
}

// ClaimCandidate is a claim as presented to the validation engine. ID is
// empty for not-yet-persisted claims; SubmissionDate anchors the monthly
// aggregate check.
type ClaimCandidate struct {
	ID             string
	LecturerID     string
	HoursWorked    decimal.Decimal
	HourlyRate     decimal.Decimal
	SubmissionDate time.Time
}

// SubmitClaimResult is returned by the service after a submission attempt.
// A non-empty Violations list means the claim failed validation and was
// not persisted; the remaining fields are only set on success.
type SubmitClaimResult struct {
	ClaimID        string
	Status         string
	TotalAmount    decimal.Decimal
	SubmissionDate time.Time
	Violations     []string
}

// GetClaimInput carries the parameters needed to retrieve a single claim.
// Role and LecturerID enforce ownership: lecturer-role callers only see
// their own claims.
type GetClaimInput struct {
	ClaimID    string
	Role       string
	LecturerID string
}

// ClaimDetail is the full claim view returned by GetClaim.
type ClaimDetail struct {
	ID             string
	LecturerID     string
	LecturerName   string
	HoursWorked    decimal.Decimal
	HourlyRate     decimal.Decimal
	TotalAmount    decimal.Decimal
	SubmissionDate time.Time
	Status         string
	ProcessedAt    *time.Time
	ProcessedBy    string
}

// ListClaimsInput carries all parameters for the list endpoint.
type ListClaimsInput struct {
	Role       string
	LecturerID string
	Status     string
	DateFrom   time.Time
	DateTo     time.Time
	Page       int
	Limit      int
}

// ClaimSummary is the lightweight view used in list and dashboard responses.
type ClaimSummary struct {
	ID             string
	LecturerID     string
	HoursWorked    decimal.Decimal
	HourlyRate     decimal.Decimal
	TotalAmount    decimal.Decimal
	SubmissionDate time.Time
	Status         string
}

// ListClaimsResult is returned by ListClaims.
type ListClaimsResult struct {
	Items      []ClaimSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// DashboardSummary is the lecturer dashboard view: status counts, total
// approved earnings, and the most recent submissions.
type DashboardSummary struct {
	PendingClaims  int
	ApprovedClaims int
	RejectedClaims int
	TotalEarnings  decimal.Decimal
	RecentClaims   []ClaimSummary
}

// ClaimService defines use-case operations for claim submission and retrieval.
type ClaimService interface {
	// CalculateTotalAmount returns min(hours*rate, configured max amount).
	// It fails with domain.ErrInvalidAmountInput when either input is
	// non-positive.
	CalculateTotalAmount(hours, rate decimal.Decimal) (decimal.Decimal, error)

	// ValidateClaim evaluates every business rule against the candidate and
	// returns the full list of violation messages; an empty list means the
	// claim passes. Rule failures are values, never errors.
	ValidateClaim(ctx context.Context, candidate ClaimCandidate) ([]string, error)

	SubmitClaim(ctx context.Context, input SubmitClaimInput) (*SubmitClaimResult, error)
	GetClaim(ctx context.Context, input GetClaimInput) (*ClaimDetail, error)
	ListClaims(ctx context.Context, input ListClaimsInput) (*ListClaimsResult, error)
	LecturerDashboard(ctx context.Context, lecturerID string) (*DashboardSummary, error)
}
