package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

// Approval eligibility ceilings. These are policy, not tuning: the gap
// between maxCriteriaAmount and autoApprovalCeiling routes large-but-valid
// claims to human review while small claims clear automatically.
var (
	maxCriteriaHours    = decimal.NewFromInt(160)
	maxCriteriaRate     = decimal.NewFromInt(500)
	maxCriteriaAmount   = decimal.NewFromInt(50000)
	autoApprovalCeiling = decimal.NewFromInt(10000)
)

// ApprovalGuard serializes auto-approval attempts per claim id (Redis).
type ApprovalGuard interface {
	// Acquire takes the per-claim lock; false means another caller holds it.
	Acquire(ctx context.Context, claimID string) (bool, error)
	Release(ctx context.Context, claimID string) error
}

// ApprovalService implements the approval criteria and status transitions.
type ApprovalService struct {
	claims    ports.ClaimRepository
	lecturers ports.LecturerRepository
	guard     ApprovalGuard
	clock     ports.Clock
	logger    zerolog.Logger
}

func NewApprovalService(
	claims ports.ClaimRepository,
	lecturers ports.LecturerRepository,
	guard ApprovalGuard,
	clock ports.Clock,
	logger zerolog.Logger,
) *ApprovalService {
	return &ApprovalService{
		claims:    claims,
		lecturers: lecturers,
		guard:     guard,
		clock:     clock,
		logger:    logger,
	}
}

// MeetsApprovalCriteria reports whether every eligibility predicate holds.
func (s *ApprovalService) MeetsApprovalCriteria(ctx context.Context, claim *domain.Claim) (bool, error) {
	if claim.HoursWorked.GreaterThan(maxCriteriaHours) {
		return false, nil
	}
	if claim.HourlyRate.GreaterThan(maxCriteriaRate) {
		return false, nil
	}
	if claim.TotalAmount.GreaterThan(maxCriteriaAmount) {
		return false, nil
	}

	valid, err := s.hasValidContract(ctx, claim.LecturerID)
	if err != nil {
		return false, err
	}
	if !valid {
		return false, nil
	}

	duplicate, err := s.HasDuplicateClaim(ctx, claim)
	if err != nil {
		return false, err
	}
	return !duplicate, nil
}

// HasDuplicateClaim reports whether another claim exists for the same
// lecturer, same submission calendar day, and identical hours worked.
func (s *ApprovalService) HasDuplicateClaim(ctx context.Context, claim *domain.Claim) (bool, error) {
	y, m, d := claim.SubmissionDate.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dup, err := s.claims.ExistsDuplicate(ctx, claim.LecturerID, day, claim.HoursWorked, claim.ID)
	if err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	return dup, nil
}

// hasValidContract checks that a lecturer record exists for the id. The
// contract date range and active flag are deliberately not consulted;
// stricter behavior is pending product clarification.
func (s *ApprovalService) hasValidContract(ctx context.Context, lecturerID string) (bool, error) {
	_, err := s.lecturers.FindByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, domain.ErrLecturerNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("contract check: %w", err)
	}
	return true, nil
}

// ProcessAutoApproval attempts the automatic pending→approved transition.
// It returns true only when this call performed the transition. Two layers
// protect against concurrent attempts on the same claim: the per-claim
// guard, and the repository's conditional update on status=pending.
func (s *ApprovalService) ProcessAutoApproval(ctx context.Context, claimID string) (bool, error) {
	acquired, err := s.guard.Acquire(ctx, claimID)
	if err != nil {
		s.logger.Warn().Err(err).Str("claim_id", claimID).Msg("approval guard unavailable, proceeding on conditional update only")
	} else if !acquired {
		s.logger.Debug().Str("claim_id", claimID).Msg("auto-approval already in flight")
		return false, nil
	} else {
		defer func() {
			if err := s.guard.Release(ctx, claimID); err != nil {
				s.logger.Warn().Err(err).Str("claim_id", claimID).Msg("failed to release approval guard")
			}
		}()
	}

	claim, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		return false, fmt.Errorf("auto approval: %w", err)
	}
	if claim.Status != domain.StatusPending {
		return false, nil
	}

	eligible, err := s.MeetsApprovalCriteria(ctx, claim)
	if err != nil {
		return false, fmt.Errorf("auto approval: %w", err)
	}
	if !eligible || claim.TotalAmount.GreaterThanOrEqual(autoApprovalCeiling) {
		s.logger.Debug().
			Str("claim_id", claimID).
			Bool("eligible", eligible).
			Str("total_amount", claim.TotalAmount.String()).
			Msg("claim left for manual review")
		return false, nil
	}

	applied, err := s.claims.UpdateStatus(ctx, claimID,
		domain.StatusPending, domain.StatusApproved, s.clock.Now(), domain.SystemActor)
	if err != nil {
		return false, fmt.Errorf("auto approval: update status: %w", err)
	}
	if !applied {
		// Another caller won the race; nothing to do.
		return false, nil
	}

	s.logger.Info().
		Str("claim_id", claimID).
		Str("total_amount", claim.TotalAmount.String()).
		Msg("claim auto-approved")
	return true, nil
}

// Decide applies a manual approve/reject decision by a staff actor.
func (s *ApprovalService) Decide(ctx context.Context, input ports.DecisionInput) (*ports.ClaimDetail, error) {
	claim, err := s.claims.FindByID(ctx, input.ClaimID)
	if err != nil {
		return nil, err
	}

	target := domain.StatusRejected
	if input.Approve {
		target = domain.StatusApproved
	}
	if !claim.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("decide claim %s: %w (from %s to %s)",
			input.ClaimID, domain.ErrInvalidTransition, claim.Status, target)
	}

	now := s.clock.Now()
	applied, err := s.claims.UpdateStatus(ctx, input.ClaimID, claim.Status, target, now, input.Actor)
	if err != nil {
		return nil, fmt.Errorf("decide claim: update status: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("decide claim %s: %w (claim already processed)",
			input.ClaimID, domain.ErrInvalidTransition)
	}

	s.logger.Info().
		Str("claim_id", input.ClaimID).
		Str("status", string(target)).
		Str("actor", input.Actor).
		Msg("claim decision applied")

	detail := &ports.ClaimDetail{
		ID:             claim.ID,
		LecturerID:     claim.LecturerID,
		HoursWorked:    claim.HoursWorked,
		HourlyRate:     claim.HourlyRate,
		TotalAmount:    claim.TotalAmount,
		SubmissionDate: claim.SubmissionDate,
		Status:         string(target),
		ProcessedAt:    &now,
		ProcessedBy:    input.Actor,
	}
	if lecturer, err := s.lecturers.FindByID(ctx, claim.LecturerID); err == nil {
		detail.LecturerName = lecturer.FullName
	}
	return detail, nil
}
