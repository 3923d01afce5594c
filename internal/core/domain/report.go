package domain

import "time"

// Report types stored in the report_type field.
const (
	ReportTypeMonthly = "Monthly"
)

// HRReport is an append-only report artifact. The aggregate snapshot is
// kept as serialized JSON in Data; rows are never updated after insert.
type HRReport struct {
	ID          string    `json:"id"`
	ReportType  string    `json:"report_type"`
	GeneratedAt time.Time `json:"generated_at"`
	GeneratedBy string    `json:"generated_by"`
	Data        string    `json:"data"`
}
