package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	dashboardRecent  = 5
)

// ClaimService implements claim submission, the validation engine, and
// claim retrieval.
type ClaimService struct {
	claims    ports.ClaimRepository
	lecturers ports.LecturerRepository
	policy    domain.ClaimPolicy
	clock     ports.Clock
	logger    zerolog.Logger
}

func NewClaimService(
	claims ports.ClaimRepository,
	lecturers ports.LecturerRepository,
	policy domain.ClaimPolicy,
	clock ports.Clock,
	logger zerolog.Logger,
) *ClaimService {
	return &ClaimService{
		claims:    claims,
		lecturers: lecturers,
		policy:    policy,
		clock:     clock,
		logger:    logger,
	}
}

// CalculateTotalAmount returns hours*rate capped at the configured maximum.
// Non-positive inputs are a caller bug and fail hard.
func (s *ClaimService) CalculateTotalAmount(hours, rate decimal.Decimal) (decimal.Decimal, error) {
	if !hours.IsPositive() || !rate.IsPositive() {
		return decimal.Decimal{}, domain.ErrInvalidAmountInput
	}
	total := hours.Mul(rate)
	if total.GreaterThan(s.policy.MaxAmount) {
		return s.policy.MaxAmount, nil
	}
	return total, nil
}

// ValidateClaim evaluates every rule and collects all violations; rules
// are never short-circuited so the caller sees the full picture at once.
// The returned error only reports store failures from the monthly-total
// query, never rule outcomes.
func (s *ClaimService) ValidateClaim(ctx context.Context, candidate ports.ClaimCandidate) ([]string, error) {
	var violations []string

	if candidate.HoursWorked.LessThan(s.policy.MinHours) || candidate.HoursWorked.GreaterThan(s.policy.MaxHours) {
		violations = append(violations, fmt.Sprintf(
			"Hours worked must be between %s and %s", s.policy.MinHours, s.policy.MaxHours))
	}

	if candidate.HourlyRate.LessThan(s.policy.MinRate) || candidate.HourlyRate.GreaterThan(s.policy.MaxRate) {
		violations = append(violations, fmt.Sprintf(
			"Hourly rate must be between %s and %s", s.policy.MinRate, s.policy.MaxRate))
	}

	anchor := candidate.SubmissionDate
	if anchor.IsZero() {
		anchor = s.clock.Now()
	}
	from, to := monthBounds(anchor)
	monthlyTotal, err := s.claims.SumHoursInRange(ctx, candidate.LecturerID, from, to, domain.StatusRejected)
	if err != nil {
		return nil, fmt.Errorf("validate claim: monthly total: %w", err)
	}
	if monthlyTotal.Add(candidate.HoursWorked).GreaterThan(s.policy.MonthlyHoursLimit) {
		violations = append(violations, fmt.Sprintf(
			"Monthly hours limit exceeded. Current: %s, Limit: %s", monthlyTotal, s.policy.MonthlyHoursLimit))
	}

	return violations, nil
}

// SubmitClaim validates the submission and persists it as a pending claim.
// Rule violations come back in the result, not as an error; the claim is
// only persisted when the violations list is empty.
func (s *ClaimService) SubmitClaim(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitClaimResult, error) {
	amount, err := s.CalculateTotalAmount(input.HoursWorked, input.HourlyRate)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	violations, err := s.ValidateClaim(ctx, ports.ClaimCandidate{
		LecturerID:     input.LecturerID,
		HoursWorked:    input.HoursWorked,
		HourlyRate:     input.HourlyRate,
		SubmissionDate: now,
	})
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		s.logger.Info().
			Str("lecturer_id", input.LecturerID).
			Strs("violations", violations).
			Msg("claim rejected by validation")
		return &ports.SubmitClaimResult{Violations: violations}, nil
	}

	claim := &domain.Claim{
		ID:             uuid.NewString(),
		LecturerID:     input.LecturerID,
		HoursWorked:    input.HoursWorked,
		HourlyRate:     input.HourlyRate,
		TotalAmount:    amount,
		SubmissionDate: now,
		Status:         domain.StatusPending,
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		s.logger.Error().Err(err).Str("lecturer_id", input.LecturerID).Msg("failed to create claim")
		return nil, err
	}

	s.logger.Info().
		Str("claim_id", claim.ID).
		Str("lecturer_id", claim.LecturerID).
		Str("total_amount", claim.TotalAmount.String()).
		Msg("claim submitted")

	return &ports.SubmitClaimResult{
		ClaimID:        claim.ID,
		Status:         string(claim.Status),
		TotalAmount:    claim.TotalAmount,
		SubmissionDate: claim.SubmissionDate,
	}, nil
}

// GetClaim returns the full claim view. Lecturer-role callers only see
// their own claims; other lecturers' claims read as not found.
func (s *ClaimService) GetClaim(ctx context.Context, input ports.GetClaimInput) (*ports.ClaimDetail, error) {
	claim, err := s.claims.FindByID(ctx, input.ClaimID)
	if err != nil {
		return nil, err
	}
	if input.Role == domain.RoleLecturer && claim.LecturerID != input.LecturerID {
		return nil, domain.ErrClaimNotFound
	}
	return s.toDetail(ctx, claim), nil
}

// ListClaims returns a page of claims. Lecturer-role callers are always
// scoped to their own lecturer id regardless of the requested filter.
func (s *ClaimService) ListClaims(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListClaimsFilter{
		Status:   domain.ClaimStatus(input.Status),
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Page:     page,
		Limit:    limit,
	}
	if input.Role == domain.RoleLecturer {
		filter.LecturerID = input.LecturerID
	}

	claims, total, err := s.claims.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ports.ClaimSummary, 0, len(claims))
	for _, c := range claims {
		items = append(items, toSummary(c))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListClaimsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// LecturerDashboard aggregates the lecturer's claims into status counts,
// approved earnings, and the most recent submissions.
func (s *ClaimService) LecturerDashboard(ctx context.Context, lecturerID string) (*ports.DashboardSummary, error) {
	claims, _, err := s.claims.List(ctx, ports.ListClaimsFilter{
		LecturerID: lecturerID,
		Page:       1,
		Limit:      maxPageLimit,
	})
	if err != nil {
		return nil, err
	}

	summary := &ports.DashboardSummary{TotalEarnings: decimal.Zero}
	for _, c := range claims {
		switch c.Status {
		case domain.StatusPending:
			summary.PendingClaims++
		case domain.StatusApproved:
			summary.ApprovedClaims++
		case domain.StatusRejected:
			summary.RejectedClaims++
		}
		if c.Status == domain.StatusApproved || c.Status == domain.StatusPaid {
			summary.TotalEarnings = summary.TotalEarnings.Add(c.TotalAmount)
		}
		if len(summary.RecentClaims) < dashboardRecent {
			summary.RecentClaims = append(summary.RecentClaims, toSummary(c))
		}
	}
	return summary, nil
}

func (s *ClaimService) toDetail(ctx context.Context, claim *domain.Claim) *ports.ClaimDetail {
	detail := &ports.ClaimDetail{
		ID:             claim.ID,
		LecturerID:     claim.LecturerID,
		HoursWorked:    claim.HoursWorked,
		HourlyRate:     claim.HourlyRate,
		TotalAmount:    claim.TotalAmount,
		SubmissionDate: claim.SubmissionDate,
		Status:         string(claim.Status),
		ProcessedAt:    claim.ProcessedAt,
		ProcessedBy:    claim.ProcessedBy,
	}
	// Missing lecturer reference renders an empty name rather than failing.
	if lecturer, err := s.lecturers.FindByID(ctx, claim.LecturerID); err == nil {
		detail.LecturerName = lecturer.FullName
	}
	return detail
}

func toSummary(c *domain.Claim) ports.ClaimSummary {
	return ports.ClaimSummary{
		ID:             c.ID,
		LecturerID:     c.LecturerID,
		HoursWorked:    c.HoursWorked,
		HourlyRate:     c.HourlyRate,
		TotalAmount:    c.TotalAmount,
		SubmissionDate: c.SubmissionDate,
		Status:         string(c.Status),
	}
}

// monthBounds returns the half-open interval covering the calendar month
// containing t.
func monthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
