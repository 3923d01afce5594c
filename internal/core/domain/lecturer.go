package domain

import "time"

// Lecturer is the external contract-lecturer reference. The claims
// subsystem only reads it: the record's existence backs the contract
// validity check, the name feeds invoices.
type Lecturer struct {
	ID                string     `json:"id"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email,omitempty"`
	ContactNumber     string     `json:"contact_number,omitempty"`
	ContractStartDate time.Time  `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date,omitempty"` // nil = open-ended contract
	Active            bool       `json:"active"`
}
