package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

func newApprovalService(repo *stubClaimRepo, lecturers *stubLecturerRepo, guard *stubGuard) *ApprovalService {
	return NewApprovalService(repo, lecturers, guard, fixedClock{t: testNow}, discardLogger)
}

func seedLecturer(t *testing.T, lecturers *stubLecturerRepo, id, name string) {
	t.Helper()
	if err := lecturers.Upsert(context.Background(), &domain.Lecturer{ID: id, FullName: name, Active: true}); err != nil {
		t.Fatalf("seed lecturer: %v", err)
	}
}

// ---------------------------------------------------------------------------
// MeetsApprovalCriteria tests
// ---------------------------------------------------------------------------

func TestMeetsApprovalCriteria_AllPass(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	claim := seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPending, testNow)
	svc := newApprovalService(repo, lecturers, newStubGuard())

	ok, err := svc.MeetsApprovalCriteria(context.Background(), claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected criteria to pass")
	}
}

func TestMeetsApprovalCriteria_Ceilings(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	svc := newApprovalService(repo, lecturers, newStubGuard())

	cases := []struct {
		name         string
		hours, rate  string
		wantEligible bool
	}{
		{"hours above 160", "161", "80", false},
		{"hours exactly 160", "160", "80", true},
		{"rate above 500", "80", "501", false},
		{"rate exactly 500", "80", "500", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claim := &domain.Claim{
				ID:             "cX",
				LecturerID:     "lect_1",
				HoursWorked:    dec(tc.hours),
				HourlyRate:     dec(tc.rate),
				TotalAmount:    dec(tc.hours).Mul(dec(tc.rate)),
				SubmissionDate: testNow,
				Status:         domain.StatusPending,
			}
			ok, err := svc.MeetsApprovalCriteria(context.Background(), claim)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.wantEligible {
				t.Errorf("eligible = %v, want %v", ok, tc.wantEligible)
			}
		})
	}
}

func TestMeetsApprovalCriteria_NoLecturerRecord(t *testing.T) {
	repo := newStubClaimRepo()
	claim := seedClaim(repo, "c1", "lect_ghost", "100", "80", domain.StatusPending, testNow)
	svc := newApprovalService(repo, newStubLecturerRepo(), newStubGuard())

	ok, err := svc.MeetsApprovalCriteria(context.Background(), claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("missing lecturer record must fail the contract check")
	}
}

func TestMeetsApprovalCriteria_DuplicateClaim(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	claim := seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPending, testNow)
	// Same lecturer, same calendar day (different time), same hours.
	seedClaim(repo, "c2", "lect_1", "100", "90", domain.StatusPending, testNow.Add(3*time.Hour))
	svc := newApprovalService(repo, lecturers, newStubGuard())

	ok, err := svc.MeetsApprovalCriteria(context.Background(), claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("duplicate claim must fail criteria")
	}
}

func TestHasDuplicateClaim_Symmetric(t *testing.T) {
	repo := newStubClaimRepo()
	a := seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPending, testNow)
	b := seedClaim(repo, "c2", "lect_1", "100", "80", domain.StatusPending, testNow.Add(time.Hour))
	svc := newApprovalService(repo, newStubLecturerRepo(), newStubGuard())

	for _, claim := range []*domain.Claim{a, b} {
		dup, err := svc.HasDuplicateClaim(context.Background(), claim)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dup {
			t.Errorf("claim %s: expected duplicate detected against its twin", claim.ID)
		}
	}
}

func TestHasDuplicateClaim_DifferentHoursOrDay(t *testing.T) {
	repo := newStubClaimRepo()
	claim := seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPending, testNow)
	seedClaim(repo, "c2", "lect_1", "99", "80", domain.StatusPending, testNow)                   // different hours
	seedClaim(repo, "c3", "lect_1", "100", "80", domain.StatusPending, testNow.AddDate(0, 0, 1)) // different day
	seedClaim(repo, "c4", "lect_2", "100", "80", domain.StatusPending, testNow)                  // different lecturer
	svc := newApprovalService(repo, newStubLecturerRepo(), newStubGuard())

	dup, err := svc.HasDuplicateClaim(context.Background(), claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Errorf("no claim shares lecturer, day, and hours; expected no duplicate")
	}
}

// ---------------------------------------------------------------------------
// ProcessAutoApproval tests
// ---------------------------------------------------------------------------

func TestProcessAutoApproval_SmallClaimApproved(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPending, testNow) // total 8000
	svc := newApprovalService(repo, lecturers, newStubGuard())

	applied, err := svc.ProcessAutoApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatalf("expected transition to be applied")
	}

	stored := repo.claims["c1"]
	if stored.Status != domain.StatusApproved {
		t.Errorf("status: want approved, got %s", stored.Status)
	}
	if stored.ProcessedBy != domain.SystemActor {
		t.Errorf("processed-by: want %q, got %q", domain.SystemActor, stored.ProcessedBy)
	}
	if stored.ProcessedAt == nil || !stored.ProcessedAt.Equal(testNow) {
		t.Errorf("processed-at: want %v, got %v", testNow, stored.ProcessedAt)
	}
}

func TestProcessAutoApproval_LargeEligibleClaimLeftForManualReview(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	// 150h * 300 = 45000: meets criteria (≤50000) but ≥10000 ceiling.
	claim := seedClaim(repo, "c1", "lect_1", "150", "300", domain.StatusPending, testNow)
	svc := newApprovalService(repo, lecturers, newStubGuard())

	eligible, err := svc.MeetsApprovalCriteria(context.Background(), claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eligible {
		t.Fatalf("45000 claim must meet the criteria")
	}

	applied, err := svc.ProcessAutoApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatalf("claim at or above the auto ceiling must not auto-approve")
	}
	if repo.claims["c1"].Status != domain.StatusPending {
		t.Errorf("claim must remain pending, got %s", repo.claims["c1"].Status)
	}
}

func TestProcessAutoApproval_ExactlyAtCeilingNotApproved(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	seedClaim(repo, "c1", "lect_1", "100", "100", domain.StatusPending, testNow) // exactly 10000
	svc := newApprovalService(repo, lecturers, newStubGuard())

	applied, err := svc.ProcessAutoApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Errorf("amount equal to the ceiling must not auto-approve")
	}
}

func TestProcessAutoApproval_IneligibleClaimUntouched(t *testing.T) {
	repo := newStubClaimRepo()
	// No lecturer record: contract check fails.
	seedClaim(repo, "c1", "lect_ghost", "100", "80", domain.StatusPending, testNow)
	svc := newApprovalService(repo, newStubLecturerRepo(), newStubGuard())

	applied, err := svc.ProcessAutoApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Errorf("ineligible claim must not be approved")
	}
	if repo.claims["c1"].Status != domain.StatusPending {
		t.Errorf("claim must remain pending")
	}
}

func TestProcessAutoApproval_GuardBusySkips(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPending, testNow)
	guard := newStubGuard()
	guard.busy = true
	svc := newApprovalService(repo, lecturers, guard)

	applied, err := svc.ProcessAutoApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Errorf("concurrent attempt must observe a no-op")
	}
	if repo.claims["c1"].Status != domain.StatusPending {
		t.Errorf("claim must remain pending while another caller holds the guard")
	}
}

func TestProcessAutoApproval_GuardFailureFallsBackToConditionalUpdate(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPending, testNow)
	guard := newStubGuard()
	guard.err = errors.New("redis down")
	svc := newApprovalService(repo, lecturers, guard)

	applied, err := svc.ProcessAutoApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("guard failure must not block approval: %v", err)
	}
	if !applied {
		t.Errorf("expected approval to proceed on the conditional update alone")
	}
}

func TestProcessAutoApproval_AlreadyProcessedNoOp(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	c := seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusApproved, testNow)
	c.ProcessedBy = "coordinator@example.com"
	repo.put(c)
	svc := newApprovalService(repo, lecturers, newStubGuard())

	applied, err := svc.ProcessAutoApproval(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Errorf("already-approved claim must not be reprocessed")
	}
	if repo.claims["c1"].ProcessedBy != "coordinator@example.com" {
		t.Errorf("existing processed-by must be preserved")
	}
}

func TestProcessAutoApproval_ClaimNotFound(t *testing.T) {
	svc := newApprovalService(newStubClaimRepo(), newStubLecturerRepo(), newStubGuard())

	_, err := svc.ProcessAutoApproval(context.Background(), "missing")
	if !errors.Is(err, domain.ErrClaimNotFound) {
		t.Errorf("expected ErrClaimNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Manual decision tests
// ---------------------------------------------------------------------------

func TestDecide_Approve(t *testing.T) {
	repo := newStubClaimRepo()
	lecturers := newStubLecturerRepo()
	seedLecturer(t, lecturers, "lect_1", "Dr. Smith")
	seedClaim(repo, "c1", "lect_1", "150", "300", domain.StatusPending, testNow)
	svc := newApprovalService(repo, lecturers, newStubGuard())

	detail, err := svc.Decide(context.Background(), ports.DecisionInput{
		ClaimID: "c1", Approve: true, Actor: "manager@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Status != string(domain.StatusApproved) {
		t.Errorf("status: want approved, got %s", detail.Status)
	}
	if detail.ProcessedBy != "manager@example.com" {
		t.Errorf("processed-by: want actor, got %q", detail.ProcessedBy)
	}
	if repo.claims["c1"].Status != domain.StatusApproved {
		t.Errorf("decision not persisted")
	}
}

func TestDecide_Reject(t *testing.T) {
	repo := newStubClaimRepo()
	seedClaim(repo, "c1", "lect_1", "150", "300", domain.StatusPending, testNow)
	svc := newApprovalService(repo, newStubLecturerRepo(), newStubGuard())

	detail, err := svc.Decide(context.Background(), ports.DecisionInput{
		ClaimID: "c1", Approve: false, Actor: "coord@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Status != string(domain.StatusRejected) {
		t.Errorf("status: want rejected, got %s", detail.Status)
	}
}

func TestDecide_PaidClaimImmutable(t *testing.T) {
	repo := newStubClaimRepo()
	seedClaim(repo, "c1", "lect_1", "100", "80", domain.StatusPaid, testNow)
	svc := newApprovalService(repo, newStubLecturerRepo(), newStubGuard())

	_, err := svc.Decide(context.Background(), ports.DecisionInput{
		ClaimID: "c1", Approve: false, Actor: "coord@example.com",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for paid claim, got %v", err)
	}
}
