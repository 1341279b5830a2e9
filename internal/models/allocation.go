package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PDCAllocation is the database row for a manual PDC allocation.
type PDCAllocation struct {
	AllocationID     string          `db:"allocation_id"`
	AllocationNumber string          `db:"allocation_number"`
	StatementLineID  string          `db:"statement_line_id"`
	AllocationDate   time.Time       `db:"allocation_date"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           string          `db:"status"`
	Reason           string          `db:"reason"`
	ConfirmedAt      *time.Time      `db:"confirmed_at"`
	ConfirmedBy      string          `db:"confirmed_by"`
	AuditFields
}

// PDCAllocationLine is the database row for one slice of an allocation.
type PDCAllocationLine struct {
	AllocationLineID string          `db:"allocation_line_id"`
	AllocationID     string          `db:"allocation_id"`
	PDCID            string          `db:"pdc_id"`
	Amount           decimal.Decimal `db:"amount"`
	Notes            string          `db:"notes"`
}

// AmbiguousMatchLog is the database row for an abstained auto-match.
// Candidate cheque IDs are stored as a text array.
type AmbiguousMatchLog struct {
	LogID           string          `db:"log_id"`
	StatementLineID string          `db:"statement_line_id"`
	DetectedAt      time.Time       `db:"detected_at"`
	CandidatePDCIDs []string        `db:"candidate_pdc_ids"`
	Amount          decimal.Decimal `db:"criteria_amount"`
	Date            time.Time       `db:"criteria_date"`
	ToleranceDays   int             `db:"criteria_tolerance_days"`
	Reference       string          `db:"criteria_reference"`
	Resolution      string          `db:"resolution"`
	ResolvedAt      *time.Time      `db:"resolved_at"`
	ResolvedBy      string          `db:"resolved_by"`
	AllocationID    *string         `db:"allocation_id"`
	Notes           string          `db:"notes"`
}
