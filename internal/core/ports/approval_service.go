package ports

import (
	"context"

	"github.com/cmcs/claims-api/internal/core/domain"
)

// ApprovalJob is a request to run auto-approval for a submitted claim.
// LecturerID is the sharding key so one lecturer's claims are processed in
// submission order.
type ApprovalJob struct {
	ClaimID    string
	LecturerID string
}

// DecisionInput carries a manual approve/reject decision by a staff actor.
type DecisionInput struct {
	ClaimID string
	Approve bool
	Actor   string
}

// ApprovalService evaluates approval criteria and performs status transitions.
type ApprovalService interface {
	// MeetsApprovalCriteria reports whether the claim satisfies every
	// eligibility predicate (hours, rate, amount ceilings, valid contract,
	// no duplicate claim).
	MeetsApprovalCriteria(ctx context.Context, claim *domain.Claim) (bool, error)

	// ProcessAutoApproval fetches the claim and, when it meets the criteria
	// and its amount is under the auto-approval ceiling, transitions it to
	// approved with the system actor label. It returns true only when this
	// call performed the transition; ineligible or already-processed claims
	// are left untouched.
	ProcessAutoApproval(ctx context.Context, claimID string) (bool, error)

	// Decide applies a manual approve/reject decision.
	Decide(ctx context.Context, input DecisionInput) (*ClaimDetail, error)
}
