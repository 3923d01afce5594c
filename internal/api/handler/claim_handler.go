package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cmcs/claims-api/internal/api/metrics"
	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

// AutoApprovalQueue enqueues a submitted claim for asynchronous
// auto-approval processing.
type AutoApprovalQueue interface {
	Enqueue(job ports.ApprovalJob)
}

// ClaimHandler handles HTTP requests for claim submission and retrieval.
type ClaimHandler struct {
	service ports.ClaimService
	queue   AutoApprovalQueue
}

func NewClaimHandler(service ports.ClaimService, queue AutoApprovalQueue) *ClaimHandler {
	return &ClaimHandler{service: service, queue: queue}
}

// Submit handles POST /v1/claims.
//
// @Summary      Submit a monthly claim
// @Tags         claims
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitClaimRequest  true  "Claim details"
// @Success      201   {object}  submitClaimResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  validationFailedResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/claims [post]
func (h *ClaimHandler) Submit(c echo.Context) error {
	_, lecturerID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req submitClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.SubmitClaim(c.Request().Context(), ports.SubmitClaimInput{
		LecturerID:  lecturerID,
		HoursWorked: req.HoursWorked,
		HourlyRate:  req.HourlyRate,
	})
	if err != nil {
		return err
	}

	if len(result.Violations) > 0 {
		metrics.ClaimsSubmittedTotal.WithLabelValues("rejected").Inc()
		for _, v := range result.Violations {
			metrics.ValidationFailuresTotal.WithLabelValues(ruleLabel(v)).Inc()
		}
		return c.JSON(http.StatusUnprocessableEntity, validationFailedResponse{
			Error:      "claim validation failed",
			Violations: result.Violations,
		})
	}

	metrics.ClaimsSubmittedTotal.WithLabelValues("accepted").Inc()
	h.queue.Enqueue(ports.ApprovalJob{ClaimID: result.ClaimID, LecturerID: lecturerID})

	return c.JSON(http.StatusCreated, submitClaimResponse{
		ClaimID:        result.ClaimID,
		Status:         result.Status,
		TotalAmount:    result.TotalAmount,
		SubmissionDate: result.SubmissionDate,
		Links:          claimLinks{Self: "/v1/claims/" + result.ClaimID},
	})
}

// Get handles GET /v1/claims/:id.
//
// @Summary      Get a claim by id
// @Tags         claims
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Claim id"
// @Success      200  {object}  getClaimResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/claims/{id} [get]
func (h *ClaimHandler) Get(c echo.Context) error {
	role, lecturerID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetClaim(c.Request().Context(), ports.GetClaimInput{
		ClaimID:    c.Param("id"),
		Role:       role,
		LecturerID: lecturerID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGetClaimResponse(detail))
}

// List handles GET /v1/claims.
//
// @Summary      List claims
// @Tags         claims
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"  Enums(pending, approved, rejected, paid)
// @Param        lecturer_id query    string  false  "Filter by lecturer (staff only)"
// @Param        date_from  query     string  false  "Submission date lower bound (RFC 3339)"
// @Param        date_to    query     string  false  "Submission date upper bound (RFC 3339)"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size"
// @Success      200  {object}  listClaimsResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/claims [get]
func (h *ClaimHandler) List(c echo.Context) error {
	role, lecturerID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	input := ports.ListClaimsInput{
		Role:       role,
		LecturerID: lecturerID,
		Status:     c.QueryParam("status"),
	}
	// Staff may scope the list to one lecturer; lecturer callers are always
	// forced onto their own claims by the service.
	if role != domain.RoleLecturer {
		input.LecturerID = c.QueryParam("lecturer_id")
	}

	if input.DateFrom, err = parseTimeParam(c.QueryParam("date_from")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date_from")
	}
	if input.DateTo, err = parseTimeParam(c.QueryParam("date_to")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date_to")
	}
	input.Page, _ = strconv.Atoi(c.QueryParam("page"))
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListClaims(c.Request().Context(), input)
	if err != nil {
		return err
	}

	items := make([]claimSummaryResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, toClaimSummaryResponse(s))
	}

	return c.JSON(http.StatusOK, listClaimsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Dashboard handles GET /v1/dashboard/lecturer.
//
// @Summary      Lecturer dashboard summary
// @Tags         claims
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/dashboard/lecturer [get]
func (h *ClaimHandler) Dashboard(c echo.Context) error {
	_, lecturerID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	summary, err := h.service.LecturerDashboard(c.Request().Context(), lecturerID)
	if err != nil {
		return err
	}

	recent := make([]claimSummaryResponse, 0, len(summary.RecentClaims))
	for _, s := range summary.RecentClaims {
		recent = append(recent, toClaimSummaryResponse(s))
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		PendingClaims:  summary.PendingClaims,
		ApprovedClaims: summary.ApprovedClaims,
		RejectedClaims: summary.RejectedClaims,
		TotalEarnings:  summary.TotalEarnings,
		RecentClaims:   recent,
	})
}

func toGetClaimResponse(d *ports.ClaimDetail) getClaimResponse {
	links := claimLinks{Self: "/v1/claims/" + d.ID}
	if d.Status == string(domain.StatusApproved) {
		links.Invoice = "/v1/claims/" + d.ID + "/invoice"
	}
	return getClaimResponse{
		ClaimID:        d.ID,
		LecturerID:     d.LecturerID,
		LecturerName:   d.LecturerName,
		HoursWorked:    d.HoursWorked,
		HourlyRate:     d.HourlyRate,
		TotalAmount:    d.TotalAmount,
		SubmissionDate: d.SubmissionDate,
		Status:         d.Status,
		ProcessedAt:    d.ProcessedAt,
		ProcessedBy:    d.ProcessedBy,
		Links:          links,
	}
}

func toClaimSummaryResponse(s ports.ClaimSummary) claimSummaryResponse {
	return claimSummaryResponse{
		ClaimID:        s.ID,
		LecturerID:     s.LecturerID,
		HoursWorked:    s.HoursWorked,
		HourlyRate:     s.HourlyRate,
		TotalAmount:    s.TotalAmount,
		SubmissionDate: s.SubmissionDate,
		Status:         s.Status,
	}
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// ruleLabel maps a validation violation message to its metric label.
func ruleLabel(violation string) string {
	switch {
	case strings.HasPrefix(violation, "Hours worked"):
		return "hours_range"
	case strings.HasPrefix(violation, "Hourly rate"):
		return "rate_range"
	case strings.HasPrefix(violation, "Monthly hours"):
		return "monthly_limit"
	}
	return "other"
}
