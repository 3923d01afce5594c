package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/domain"
)

// ListClaimsFilter carries all query parameters for listing claims.
// LecturerID is enforced by the service layer for lecturer-role callers.
type ListClaimsFilter struct {
	LecturerID string             // empty = no filter (staff); non-empty = scoped to lecturer
	Status     domain.ClaimStatus // optional: filter by claim status
	DateFrom   time.Time          // optional: submission_date >= DateFrom
	DateTo     time.Time          // optional: submission_date <= DateTo
	Page       int                // 1-based
	Limit      int                // max rows per page (capped at 100 by service)
}

// ClaimRepository defines persistence operations for claims. The query
// methods mirror the predicates the engines need; the engines depend only
// on this interface so tests can substitute an in-memory fake.
type ClaimRepository interface {
	Create(ctx context.Context, c *domain.Claim) error
	FindByID(ctx context.Context, id string) (*domain.Claim, error)

	// SumHoursInRange returns the sum of hours worked for the lecturer's
	// claims with submission date in [from, to), excluding claims whose
	// status equals excludeStatus.
	SumHoursInRange(ctx context.Context, lecturerID string, from, to time.Time, excludeStatus domain.ClaimStatus) (decimal.Decimal, error)

	// ExistsDuplicate reports whether a claim other than excludeID exists
	// for the lecturer with submission date on the given calendar day and
	// an identical hours-worked value.
	ExistsDuplicate(ctx context.Context, lecturerID string, day time.Time, hours decimal.Decimal, excludeID string) (bool, error)

	// FindInRange returns all claims with submission date in [from, to).
	FindInRange(ctx context.Context, from, to time.Time) ([]*domain.Claim, error)

	// List returns a page of claims matching filter and the total count,
	// newest submissions first.
	List(ctx context.Context, filter ListClaimsFilter) ([]*domain.Claim, int64, error)

	// UpdateStatus transitions the claim from status `from` to status `to`,
	// stamping the processed metadata. The update is conditional on the
	// claim still being in `from`; it returns false (and no error) when
	// another caller already moved the claim, which makes concurrent
	// approval attempts observable as no-ops rather than double writes.
	UpdateStatus(ctx context.Context, id string, from, to domain.ClaimStatus, processedAt time.Time, processedBy string) (bool, error)
}
