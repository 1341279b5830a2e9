package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationStatus is the lifecycle state of a manual PDC allocation.
type AllocationStatus string

const (
	AllocationDraft     AllocationStatus = "DRAFT"
	AllocationConfirmed AllocationStatus = "CONFIRMED"
	AllocationReversed  AllocationStatus = "REVERSED"
)

// PDCAllocation maps one bank statement line to several PDCs when automatic
// matching cannot decide. The allocation's line amounts must sum exactly to
// the statement line's amount before confirmation is accepted.
type PDCAllocation struct {
	AllocationID     string              `json:"allocationID"`
	AllocationNumber string              `json:"allocationNumber"`
	StatementLineID  string              `json:"statementLineID"`
	AllocationDate   time.Time           `json:"allocationDate"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	Status           AllocationStatus    `json:"status"`
	Reason           string              `json:"reason,omitempty"`
	ConfirmedAt      *time.Time          `json:"confirmedAt,omitempty"`
	ConfirmedBy      string              `json:"confirmedBy,omitempty"`
	Lines            []PDCAllocationLine `json:"lines,omitempty"`
	AuditFields
}

// AllocatedTotal sums the loaded allocation lines.
func (a *PDCAllocation) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range a.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

// PDCAllocationLine assigns part of a statement line's amount to one PDC.
type PDCAllocationLine struct {
	AllocationLineID string          `json:"allocationLineID"`
	AllocationID     string          `json:"allocationID"`
	PDCID            string          `json:"pdcID"`
	Amount           decimal.Decimal `json:"amount"`
	Notes            string          `json:"notes,omitempty"`
}

// MatchResolution is the state of an ambiguous-match record.
type MatchResolution string

const (
	ResolutionPending   MatchResolution = "PENDING"
	ResolutionAllocated MatchResolution = "ALLOCATED"
	ResolutionRejected  MatchResolution = "REJECTED"
)

// AmbiguousMatchLog records a statement line whose amount matched more than
// one outstanding PDC. The matcher never guesses; resolution requires a
// confirmed manual allocation. Kept forever as an audit trail.
type AmbiguousMatchLog struct {
	LogID           string          `json:"logID"`
	StatementLineID string          `json:"statementLineID"`
	DetectedAt      time.Time       `json:"detectedAt"`
	CandidatePDCIDs []string        `json:"candidatePDCIDs"`
	MatchCriteria   MatchCriteria   `json:"matchCriteria"`
	Resolution      MatchResolution `json:"resolution"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty"`
	ResolvedBy      string          `json:"resolvedBy,omitempty"`
	AllocationID    string          `json:"allocationID,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// MatchCriteria captures what the matcher compared when candidates tied.
type MatchCriteria struct {
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	ToleranceDays int             `json:"toleranceDays"`
	Reference     string          `json:"reference,omitempty"`
}
