package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmcs/claims-api/internal/core/domain"
)

// MonthlySummary is the aggregate snapshot serialized into a monthly
// report record.
type MonthlySummary struct {
	Month          string          `json:"month"`
	TotalClaims    int             `json:"total_claims"`
	ApprovedClaims int             `json:"approved_claims"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ClaimsByStatus map[string]int  `json:"claims_by_status"`
}

// ReportService generates and lists report artifacts.
type ReportService interface {
	// GenerateMonthlyReport aggregates all claims submitted within the
	// calendar month containing `month` and appends a new report record.
	// Each invocation creates a fresh row; reruns for the same month are
	// never deduplicated.
	GenerateMonthlyReport(ctx context.Context, month time.Time) (*domain.HRReport, error)
	ListReports(ctx context.Context, limit int) ([]*domain.HRReport, error)
}
