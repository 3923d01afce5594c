package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/ports"
)

type stubClaimService struct {
	submitFn    func(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitClaimResult, error)
	getFn       func(ctx context.Context, input ports.GetClaimInput) (*ports.ClaimDetail, error)
	listFn      func(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error)
	dashboardFn func(ctx context.Context, lecturerID string) (*ports.DashboardSummary, error)
}

func (s *stubClaimService) CalculateTotalAmount(hours, rate decimal.Decimal) (decimal.Decimal, error) {
	return hours.Mul(rate), nil
}

func (s *stubClaimService) ValidateClaim(ctx context.Context, candidate ports.ClaimCandidate) ([]string, error) {
	return nil, nil
}

func (s *stubClaimService) SubmitClaim(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitClaimResult, error) {
	return s.submitFn(ctx, input)
}

func (s *stubClaimService) GetClaim(ctx context.Context, input ports.GetClaimInput) (*ports.ClaimDetail, error) {
	return s.getFn(ctx, input)
}

func (s *stubClaimService) ListClaims(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubClaimService) LecturerDashboard(ctx context.Context, lecturerID string) (*ports.DashboardSummary, error) {
	return s.dashboardFn(ctx, lecturerID)
}

type stubQueue struct {
	jobs []ports.ApprovalJob
}

func (q *stubQueue) Enqueue(job ports.ApprovalJob) {
	q.jobs = append(q.jobs, job)
}

func newTestContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestClaimHandler_Submit_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubClaimService{
		submitFn: func(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitClaimResult, error) {
			if input.LecturerID != "lect-1" {
				t.Fatalf("unexpected lecturer id: %s", input.LecturerID)
			}
			if !input.HoursWorked.Equal(decimal.RequireFromString("100")) {
				t.Fatalf("unexpected hours: %s", input.HoursWorked)
			}
			return &ports.SubmitClaimResult{
				ClaimID:        "c1",
				Status:         "pending",
				TotalAmount:    decimal.RequireFromString("8000"),
				SubmissionDate: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
			}, nil
		},
	}
	queue := &stubQueue{}
	handler := NewClaimHandler(stub, queue)

	c, rec := newTestContext(e, http.MethodPost, "/v1/claims", `{"hours_worked":"100","hourly_rate":"80"}`)
	c.Set("role", "lecturer")
	c.Set("lecturer_id", "lect-1")

	if err := handler.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["claim_id"] != "c1" || resp["status"] != "pending" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	if len(queue.jobs) != 1 {
		t.Fatalf("expected 1 enqueued job, got %d", len(queue.jobs))
	}
	if queue.jobs[0].ClaimID != "c1" || queue.jobs[0].LecturerID != "lect-1" {
		t.Fatalf("unexpected job: %+v", queue.jobs[0])
	}
}

func TestClaimHandler_Submit_ValidationViolations(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubClaimService{
		submitFn: func(ctx context.Context, input ports.SubmitClaimInput) (*ports.SubmitClaimResult, error) {
			return &ports.SubmitClaimResult{
				Violations: []string{"Hours worked must be between 0.1 and 200"},
			}, nil
		},
	}
	queue := &stubQueue{}
	handler := NewClaimHandler(stub, queue)

	c, rec := newTestContext(e, http.MethodPost, "/v1/claims", `{"hours_worked":"500","hourly_rate":"80"}`)
	c.Set("role", "lecturer")
	c.Set("lecturer_id", "lect-1")

	if err := handler.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	violations, ok := resp["violations"].([]any)
	if !ok || len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %+v", resp["violations"])
	}

	if len(queue.jobs) != 0 {
		t.Fatalf("rejected claim must not be enqueued")
	}
}

func TestClaimHandler_Submit_MissingLecturerIdentity(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	handler := NewClaimHandler(&stubClaimService{}, &stubQueue{})

	c, _ := newTestContext(e, http.MethodPost, "/v1/claims", `{"hours_worked":"100","hourly_rate":"80"}`)
	c.Set("role", "lecturer")

	err := handler.Submit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestClaimHandler_Get_IncludesInvoiceLinkWhenApproved(t *testing.T) {
	e := echo.New()

	processedAt := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	stub := &stubClaimService{
		getFn: func(ctx context.Context, input ports.GetClaimInput) (*ports.ClaimDetail, error) {
			if input.ClaimID != "c1" || input.Role != "hr" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ClaimDetail{
				ID:           "c1",
				LecturerID:   "lect-1",
				LecturerName: "John Smith",
				HoursWorked:  decimal.RequireFromString("100"),
				HourlyRate:   decimal.RequireFromString("80"),
				TotalAmount:  decimal.RequireFromString("8000"),
				Status:       "approved",
				ProcessedAt:  &processedAt,
				ProcessedBy:  "System Auto-Approval",
			}, nil
		},
	}
	handler := NewClaimHandler(stub, &stubQueue{})

	c, rec := newTestContext(e, http.MethodGet, "/v1/claims/c1", "")
	c.SetParamNames("id")
	c.SetParamValues("c1")
	c.Set("role", "hr")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	links, ok := resp["_links"].(map[string]any)
	if !ok || links["invoice"] != "/v1/claims/c1/invoice" {
		t.Fatalf("expected invoice link, got %+v", resp["_links"])
	}
}

func TestClaimHandler_List_StaffCanScopeByLecturer(t *testing.T) {
	e := echo.New()

	stub := &stubClaimService{
		listFn: func(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error) {
			if input.LecturerID != "lect-7" || input.Status != "pending" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ListClaimsResult{Page: 1, Limit: 20, TotalPages: 0}, nil
		},
	}
	handler := NewClaimHandler(stub, &stubQueue{})

	c, rec := newTestContext(e, http.MethodGet, "/v1/claims?status=pending&lecturer_id=lect-7", "")
	c.Set("role", "manager")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClaimHandler_List_LecturerCannotScopeOthers(t *testing.T) {
	e := echo.New()

	stub := &stubClaimService{
		listFn: func(ctx context.Context, input ports.ListClaimsInput) (*ports.ListClaimsResult, error) {
			if input.LecturerID != "lect-1" {
				t.Fatalf("lecturer query param must be ignored, got %s", input.LecturerID)
			}
			return &ports.ListClaimsResult{Page: 1, Limit: 20}, nil
		},
	}
	handler := NewClaimHandler(stub, &stubQueue{})

	c, rec := newTestContext(e, http.MethodGet, "/v1/claims?lecturer_id=lect-7", "")
	c.Set("role", "lecturer")
	c.Set("lecturer_id", "lect-1")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClaimHandler_Dashboard(t *testing.T) {
	e := echo.New()

	stub := &stubClaimService{
		dashboardFn: func(ctx context.Context, lecturerID string) (*ports.DashboardSummary, error) {
			if lecturerID != "lect-1" {
				t.Fatalf("unexpected lecturer id: %s", lecturerID)
			}
			return &ports.DashboardSummary{
				PendingClaims:  2,
				ApprovedClaims: 3,
				TotalEarnings:  decimal.RequireFromString("10800"),
			}, nil
		},
	}
	handler := NewClaimHandler(stub, &stubQueue{})

	c, rec := newTestContext(e, http.MethodGet, "/v1/dashboard/lecturer", "")
	c.Set("role", "lecturer")
	c.Set("lecturer_id", "lect-1")

	if err := handler.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["pending_claims"] != float64(2) || resp["approved_claims"] != float64(3) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
