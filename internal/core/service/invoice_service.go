package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

// InvoiceService renders invoice payloads for approved claims.
type InvoiceService struct {
	claims    ports.ClaimRepository
	lecturers ports.LecturerRepository
	clock     ports.Clock
	logger    zerolog.Logger
}

func NewInvoiceService(
	claims ports.ClaimRepository,
	lecturers ports.LecturerRepository,
	clock ports.Clock,
	logger zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{claims: claims, lecturers: lecturers, clock: clock, logger: logger}
}

// GenerateInvoice builds the invoice projection for an approved claim.
// The invoice number embeds the generation date, so repeated calls on
// different days yield different numbers for the same claim.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, claimID string) (*ports.Invoice, error) {
	claim, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != domain.StatusApproved {
		return nil, fmt.Errorf("invoice for claim %s: %w (status %s)",
			claimID, domain.ErrClaimNotApproved, claim.Status)
	}

	var lecturerName string
	if lecturer, err := s.lecturers.FindByID(ctx, claim.LecturerID); err == nil {
		lecturerName = lecturer.FullName
	}

	now := s.clock.Now()
	invoice := &ports.Invoice{
		InvoiceNumber:  fmt.Sprintf("INV-%s-%s", claim.ID, now.Format("20060102")),
		ClaimID:        claim.ID,
		LecturerName:   lecturerName,
		HoursWorked:    claim.HoursWorked,
		HourlyRate:     claim.HourlyRate,
		TotalAmount:    claim.TotalAmount,
		SubmissionDate: claim.SubmissionDate,
		InvoiceDate:    now,
	}

	s.logger.Info().
		Str("claim_id", claim.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Msg("invoice generated")

	return invoice, nil
}
