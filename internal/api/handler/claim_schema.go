package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// submitClaimRequest accepts decimal fields as either JSON numbers or
// strings; strings are the precision-safe form.
type submitClaimRequest struct {
	HoursWorked decimal.Decimal `json:"hours_worked" validate:"required"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"  validate:"required"`
}

type claimLinks struct {
	Self    string `json:"self"`
	Invoice string `json:"invoice,omitempty"`
}

type submitClaimResponse struct {
	ClaimID        string          `json:"claim_id"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SubmissionDate time.Time       `json:"submission_date"`
	Links          claimLinks      `json:"_links"`
}

// validationFailedResponse is returned when a submission breaks one or more
// business rules. The claim is not persisted in that case.
type validationFailedResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations"`
}

type getClaimResponse struct {
	ClaimID        string          `json:"claim_id"`
	LecturerID     string          `json:"lecturer_id"`
	LecturerName   string          `json:"lecturer_name,omitempty"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SubmissionDate time.Time       `json:"submission_date"`
	Status         string          `json:"status"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
	ProcessedBy    string          `json:"processed_by,omitempty"`
	Links          claimLinks      `json:"_links"`
}

// claimSummaryResponse is the lightweight item used in list and dashboard
// responses. It intentionally omits processing details to keep payloads small.
type claimSummaryResponse struct {
	ClaimID        string          `json:"claim_id"`
	LecturerID     string          `json:"lecturer_id"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SubmissionDate time.Time       `json:"submission_date"`
	Status         string          `json:"status"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listClaimsResponse struct {
	Data       []claimSummaryResponse `json:"data"`
	Pagination paginationResponse     `json:"pagination"`
}

type dashboardResponse struct {
	PendingClaims  int                    `json:"pending_claims"`
	ApprovedClaims int                    `json:"approved_claims"`
	RejectedClaims int                    `json:"rejected_claims"`
	TotalEarnings  decimal.Decimal        `json:"total_earnings"`
	RecentClaims   []claimSummaryResponse `json:"recent_claims"`
}
