package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

const reportGeneratedBy = "System"

// ReportService aggregates claims into monthly report artifacts.
type ReportService struct {
	claims  ports.ClaimRepository
	reports ports.ReportRepository
	clock   ports.Clock
	logger  zerolog.Logger
}

func NewReportService(
	claims ports.ClaimRepository,
	reports ports.ReportRepository,
	clock ports.Clock,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{claims: claims, reports: reports, clock: clock, logger: logger}
}

// GenerateMonthlyReport aggregates every claim submitted in the calendar
// month containing `month` and appends a new report row. Reports are
// append-only: a rerun for the same month produces a second row rather
// than replacing the first.
func (s *ReportService) GenerateMonthlyReport(ctx context.Context, month time.Time) (*domain.HRReport, error) {
	from, to := monthBounds(month)
	claims, err := s.claims.FindInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}

	summary := ports.MonthlySummary{
		Month:          from.Format("2006-01"),
		TotalClaims:    len(claims),
		TotalAmount:    decimal.Zero,
		ClaimsByStatus: make(map[string]int),
	}
	for _, c := range claims {
		summary.ClaimsByStatus[string(c.Status)]++
		if c.Status == domain.StatusApproved {
			summary.ApprovedClaims++
			summary.TotalAmount = summary.TotalAmount.Add(c.TotalAmount)
		}
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("monthly report: serialize: %w", err)
	}

	report := &domain.HRReport{
		ID:          uuid.NewString(),
		ReportType:  domain.ReportTypeMonthly,
		GeneratedAt: s.clock.Now(),
		GeneratedBy: reportGeneratedBy,
		Data:        string(payload),
	}
	if err := s.reports.Append(ctx, report); err != nil {
		return nil, fmt.Errorf("monthly report: persist: %w", err)
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Str("month", summary.Month).
		Int("total_claims", summary.TotalClaims).
		Int("approved_claims", summary.ApprovedClaims).
		Msg("monthly report generated")

	return report, nil
}

// ListReports returns up to limit report records, newest first.
func (s *ReportService) ListReports(ctx context.Context, limit int) ([]*domain.HRReport, error) {
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return s.reports.ListRecent(ctx, limit)
}
