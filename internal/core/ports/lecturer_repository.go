package ports

import (
	"context"

	"github.com/cmcs/claims-api/internal/core/domain"
)

// LecturerRepository provides read access to the lecturer reference data,
// plus the upsert used when a lecturer account registers.
type LecturerRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Lecturer, error)
	Upsert(ctx context.Context, l *domain.Lecturer) error
}
