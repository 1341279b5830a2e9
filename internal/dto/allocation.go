package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// AllocationLineRequest assigns part of a statement line's amount to a PDC.
type AllocationLineRequest struct {
	PDCID  string          `json:"pdcID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required,dec_positive"`
	Notes  string          `json:"notes"`
}

// CreateAllocationRequest splits one statement line across several PDCs.
// The line amounts must sum exactly to the statement line amount.
type CreateAllocationRequest struct {
	StatementLineID string                  `json:"statementLineID" binding:"required"`
	Reason          string                  `json:"reason"`
	Lines           []AllocationLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// AllocationLineResponse defines the data returned for an allocation line.
type AllocationLineResponse struct {
	AllocationLineID string          `json:"allocationLineID"`
	PDCID            string          `json:"pdcID"`
	Amount           decimal.Decimal `json:"amount"`
	Notes            string          `json:"notes,omitempty"`
}

// AllocationResponse defines the data returned for a PDC allocation.
type AllocationResponse struct {
	AllocationID     string                   `json:"allocationID"`
	AllocationNumber string                   `json:"allocationNumber"`
	StatementLineID  string                   `json:"statementLineID"`
	AllocationDate   time.Time                `json:"allocationDate"`
	TotalAmount      decimal.Decimal          `json:"totalAmount"`
	Status           domain.AllocationStatus  `json:"status"`
	Reason           string                   `json:"reason,omitempty"`
	ConfirmedAt      *time.Time               `json:"confirmedAt,omitempty"`
	ConfirmedBy      string                   `json:"confirmedBy,omitempty"`
	Lines            []AllocationLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	CreatedBy        string                   `json:"createdBy"`
}

// AmbiguousLogResponse defines the data returned for an ambiguous-match log.
type AmbiguousLogResponse struct {
	LogID           string                 `json:"logID"`
	StatementLineID string                 `json:"statementLineID"`
	DetectedAt      time.Time              `json:"detectedAt"`
	CandidatePDCIDs []string               `json:"candidatePDCIDs"`
	Amount          decimal.Decimal        `json:"amount"`
	Date            time.Time              `json:"date"`
	ToleranceDays   int                    `json:"toleranceDays"`
	Resolution      domain.MatchResolution `json:"resolution"`
	ResolvedAt      *time.Time             `json:"resolvedAt,omitempty"`
	ResolvedBy      string                 `json:"resolvedBy,omitempty"`
	AllocationID    string                 `json:"allocationID,omitempty"`
}

// ListAmbiguousLogsResponse wraps a page of pending logs.
type ListAmbiguousLogsResponse struct {
	Logs      []AmbiguousLogResponse `json:"logs"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// ToAllocationResponse converts a domain.PDCAllocation with its lines.
func ToAllocationResponse(a *domain.PDCAllocation) AllocationResponse {
	lines := make([]AllocationLineResponse, len(a.Lines))
	for i, l := range a.Lines {
		lines[i] = AllocationLineResponse{
			AllocationLineID: l.AllocationLineID,
			PDCID:            l.PDCID,
			Amount:           l.Amount,
			Notes:            l.Notes,
		}
	}
	return AllocationResponse{
		AllocationID:     a.AllocationID,
		AllocationNumber: a.AllocationNumber,
		StatementLineID:  a.StatementLineID,
		AllocationDate:   a.AllocationDate,
		TotalAmount:      a.TotalAmount,
		Status:           a.Status,
		Reason:           a.Reason,
		ConfirmedAt:      a.ConfirmedAt,
		ConfirmedBy:      a.ConfirmedBy,
		Lines:            lines,
		CreatedAt:        a.CreatedAt,
		CreatedBy:        a.CreatedBy,
	}
}

// ToAmbiguousLogResponse converts a domain.AmbiguousMatchLog.
func ToAmbiguousLogResponse(l *domain.AmbiguousMatchLog) AmbiguousLogResponse {
	return AmbiguousLogResponse{
		LogID:           l.LogID,
		StatementLineID: l.StatementLineID,
		DetectedAt:      l.DetectedAt,
		CandidatePDCIDs: l.CandidatePDCIDs,
		Amount:          l.MatchCriteria.Amount,
		Date:            l.MatchCriteria.Date,
		ToleranceDays:   l.MatchCriteria.ToleranceDays,
		Resolution:      l.Resolution,
		ResolvedAt:      l.ResolvedAt,
		ResolvedBy:      l.ResolvedBy,
		AllocationID:    l.AllocationID,
	}
}

// ToAmbiguousLogResponses converts a slice of domain.AmbiguousMatchLog.
func ToAmbiguousLogResponses(logs []domain.AmbiguousMatchLog) []AmbiguousLogResponse {
	responses := make([]AmbiguousLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToAmbiguousLogResponse(&logs[i])
	}
	return responses
}
