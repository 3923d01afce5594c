package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus represents the lifecycle state of a claim.
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "pending"
	StatusApproved ClaimStatus = "approved"
	StatusRejected ClaimStatus = "rejected"
	StatusPaid     ClaimStatus = "paid"
)

// validTransitions defines the allowed state machine transitions.
// A paid claim is terminal and never mutated.
var validTransitions = map[ClaimStatus][]ClaimStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPaid},
}

var ErrClaimNotFound = errors.New("claim not found")
var ErrClaimNotApproved = errors.New("claim not approved")
var ErrLecturerNotFound = errors.New("lecturer not found")
var ErrInvalidAmountInput = errors.New("hours worked and hourly rate must be positive")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")

// SystemActor is the processed-by label stamped on claims the approval
// engine transitions without human intervention.
const SystemActor = "System Auto-Approval"

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known claim status.
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPaid:
		return true
	}
	return false
}

// Claim is the core aggregate root: one lecturer's hours/rate submission
// for a month, awaiting or having received a status decision.
type Claim struct {
	ID             string          `json:"id"`
	LecturerID     string          `json:"lecturer_id"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SubmissionDate time.Time       `json:"submission_date"`
	Status         ClaimStatus     `json:"status"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
	ProcessedBy    string          `json:"processed_by,omitempty"`
}
