package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cmcs/claims-api/internal/api/metrics"
	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

const defaultReportsLimit = 50

// ReportHandler handles HR report generation and listing.
type ReportHandler struct {
	service ports.ReportService
	clock   ports.Clock
}

func NewReportHandler(service ports.ReportService, clock ports.Clock) *ReportHandler {
	return &ReportHandler{service: service, clock: clock}
}

type reportResponse struct {
	ID          string    `json:"id"`
	ReportType  string    `json:"report_type"`
	GeneratedAt time.Time `json:"generated_at"`
	GeneratedBy string    `json:"generated_by"`
	Data        string    `json:"data"`
}

// GenerateMonthly handles POST /v1/reports/monthly.
//
// @Summary      Generate a monthly claims report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        month  query     string  false  "Target month (YYYY-MM, defaults to the current month)"
// @Success      201    {object}  reportResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/reports/monthly [post]
func (h *ReportHandler) GenerateMonthly(c echo.Context) error {
	month := h.clock.Now()
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "month must match format YYYY-MM")
		}
		month = parsed
	}

	report, err := h.service.GenerateMonthlyReport(c.Request().Context(), month)
	if err != nil {
		return err
	}

	metrics.ReportsGeneratedTotal.Inc()
	return c.JSON(http.StatusCreated, toReportResponse(report))
}

// List handles GET /v1/reports.
//
// @Summary      List generated reports, newest first
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of reports to return"
// @Success      200    {array}   reportResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultReportsLimit
	}

	reports, err := h.service.ListReports(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	out := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

func toReportResponse(r *domain.HRReport) reportResponse {
	return reportResponse{
		ID:          r.ID,
		ReportType:  r.ReportType,
		GeneratedAt: r.GeneratedAt,
		GeneratedBy: r.GeneratedBy,
		Data:        r.Data,
	}
}
