package ports

import (
	"context"

	"github.com/cmcs/claims-api/internal/core/domain"
)

// ReportRepository is an append-only store for report artifacts.
// Reports are never updated or deleted after insert.
type ReportRepository interface {
	Append(ctx context.Context, r *domain.HRReport) error
	// ListRecent returns up to limit reports, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.HRReport, error)
}
