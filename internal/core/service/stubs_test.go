package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// fixedClock returns the same instant on every call.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// ---------------------------------------------------------------------------
// In-memory stub claim repository
// ---------------------------------------------------------------------------

type stubClaimRepo struct {
	claims  map[string]*domain.Claim
	failErr error // if set, every method returns this error
}

func newStubClaimRepo() *stubClaimRepo {
	return &stubClaimRepo{claims: make(map[string]*domain.Claim)}
}

func (r *stubClaimRepo) put(c *domain.Claim) {
	clone := *c
	r.claims[c.ID] = &clone
}

func (r *stubClaimRepo) Create(_ context.Context, c *domain.Claim) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.put(c)
	return nil
}

func (r *stubClaimRepo) FindByID(_ context.Context, id string) (*domain.Claim, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	c, ok := r.claims[id]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClaimRepo) SumHoursInRange(_ context.Context, lecturerID string, from, to time.Time, excludeStatus domain.ClaimStatus) (decimal.Decimal, error) {
	if r.failErr != nil {
		return decimal.Decimal{}, r.failErr
	}
	total := decimal.Zero
	for _, c := range r.claims {
		if c.LecturerID != lecturerID || c.Status == excludeStatus {
			continue
		}
		if c.SubmissionDate.Before(from) || !c.SubmissionDate.Before(to) {
			continue
		}
		total = total.Add(c.HoursWorked)
	}
	return total, nil
}

func (r *stubClaimRepo) ExistsDuplicate(_ context.Context, lecturerID string, day time.Time, hours decimal.Decimal, excludeID string) (bool, error) {
	if r.failErr != nil {
		return false, r.failErr
	}
	for _, c := range r.claims {
		if c.ID == excludeID || c.LecturerID != lecturerID {
			continue
		}
		cy, cm, cd := c.SubmissionDate.Date()
		dy, dm, dd := day.Date()
		if cy != dy || cm != dm || cd != dd {
			continue
		}
		if c.HoursWorked.Equal(hours) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubClaimRepo) FindInRange(_ context.Context, from, to time.Time) ([]*domain.Claim, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	var out []*domain.Claim
	for _, c := range r.claims {
		if c.SubmissionDate.Before(from) || !c.SubmissionDate.Before(to) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

// List applies the same filters and ordering the real Mongo repo uses.
func (r *stubClaimRepo) List(_ context.Context, f ports.ListClaimsFilter) ([]*domain.Claim, int64, error) {
	if r.failErr != nil {
		return nil, 0, r.failErr
	}
	var matched []*domain.Claim
	for _, c := range r.claims {
		if f.LecturerID != "" && c.LecturerID != f.LecturerID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if !f.DateFrom.IsZero() && c.SubmissionDate.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && c.SubmissionDate.After(f.DateTo) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SubmissionDate.After(matched[j].SubmissionDate)
	})

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Claim{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubClaimRepo) UpdateStatus(_ context.Context, id string, from, to domain.ClaimStatus, processedAt time.Time, processedBy string) (bool, error) {
	if r.failErr != nil {
		return false, r.failErr
	}
	c, ok := r.claims[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	ts := processedAt
	c.ProcessedAt = &ts
	c.ProcessedBy = processedBy
	return true, nil
}

// ---------------------------------------------------------------------------
// In-memory stub lecturer repository
// ---------------------------------------------------------------------------

type stubLecturerRepo struct {
	lecturers map[string]*domain.Lecturer
}

func newStubLecturerRepo() *stubLecturerRepo {
	return &stubLecturerRepo{lecturers: make(map[string]*domain.Lecturer)}
}

func (r *stubLecturerRepo) FindByID(_ context.Context, id string) (*domain.Lecturer, error) {
	l, ok := r.lecturers[id]
	if !ok {
		return nil, domain.ErrLecturerNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLecturerRepo) Upsert(_ context.Context, l *domain.Lecturer) error {
	clone := *l
	r.lecturers[l.ID] = &clone
	return nil
}

// ---------------------------------------------------------------------------
// In-memory stub report repository
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	reports []*domain.HRReport
}

func (r *stubReportRepo) Append(_ context.Context, rep *domain.HRReport) error {
	clone := *rep
	r.reports = append(r.reports, &clone)
	return nil
}

func (r *stubReportRepo) ListRecent(_ context.Context, limit int) ([]*domain.HRReport, error) {
	out := make([]*domain.HRReport, 0, limit)
	for i := len(r.reports) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *r.reports[i]
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Stub approval guard
// ---------------------------------------------------------------------------

type stubGuard struct {
	held     map[string]bool
	busy     bool  // if set, Acquire always reports the lock as taken
	acquires int   // number of successful acquisitions
	err      error // if set, Acquire returns this error
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: make(map[string]bool)}
}

func (g *stubGuard) Acquire(_ context.Context, claimID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.busy || g.held[claimID] {
		return false, nil
	}
	g.held[claimID] = true
	g.acquires++
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, claimID string) error {
	delete(g.held, claimID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedClaim(repo *stubClaimRepo, id, lecturerID string, hours, rate string, status domain.ClaimStatus, submitted time.Time) *domain.Claim {
	h := dec(hours)
	rt := dec(rate)
	c := &domain.Claim{
		ID:             id,
		LecturerID:     lecturerID,
		HoursWorked:    h,
		HourlyRate:     rt,
		TotalAmount:    h.Mul(rt),
		SubmissionDate: submitted,
		Status:         status,
	}
	repo.put(c)
	return c
}
