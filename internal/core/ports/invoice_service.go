package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the payload rendered for a single approved claim. It is a
// projection: nothing is persisted when an invoice is generated.
type Invoice struct {
	InvoiceNumber  string          `json:"invoice_number"`
	ClaimID        string          `json:"claim_id"`
	LecturerName   string          `json:"lecturer_name"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SubmissionDate time.Time       `json:"submission_date"`
	InvoiceDate    time.Time       `json:"invoice_date"`
}

// InvoiceService renders invoices for approved claims.
type InvoiceService interface {
	// GenerateInvoice fails with domain.ErrClaimNotFound when no claim with
	// that id exists and domain.ErrClaimNotApproved when its status is not
	// approved. A missing lecturer record renders an empty lecturer name
	// rather than failing.
	GenerateInvoice(ctx context.Context, claimID string) (*Invoice, error)
}
