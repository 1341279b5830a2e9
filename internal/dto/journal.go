package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// JournalLineRequest defines one line of a journal entry. Exactly one of
// debit or credit must be positive.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest defines the data needed to create a draft entry.
type CreateJournalEntryRequest struct {
	Date        time.Time            `json:"date" binding:"required" time_format:"2006-01-02"`
	Reference   string               `json:"reference"`
	Description string               `json:"description"`
	EntryType   domain.EntryType     `json:"entryType"`
	Source      domain.SourceModule  `json:"source"`
	SourceID    string               `json:"sourceID"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest replaces the header and lines of a draft entry.
type UpdateJournalEntryRequest struct {
	Date        *time.Time           `json:"date" time_format:"2006-01-02"`
	Reference   *string              `json:"reference"`
	Description *string              `json:"description"`
	Lines       []JournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// ReverseJournalEntryRequest carries the mandatory reversal reason.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID        string                `json:"entryID"`
	EntryNumber    string                `json:"entryNumber"`
	Date           time.Time             `json:"date"`
	Reference      string                `json:"reference"`
	Description    string                `json:"description"`
	Status         domain.EntryStatus    `json:"status"`
	EntryType      domain.EntryType      `json:"entryType"`
	Source         domain.SourceModule   `json:"source"`
	SourceID       string                `json:"sourceID,omitempty"`
	FiscalYearID   string                `json:"fiscalYearID,omitempty"`
	PeriodID       string                `json:"periodID,omitempty"`
	TotalDebit     decimal.Decimal       `json:"totalDebit"`
	TotalCredit    decimal.Decimal       `json:"totalCredit"`
	ReversalOfID   string                `json:"reversalOfID,omitempty"`
	ReversalReason string                `json:"reversalReason,omitempty"`
	PostedAt       *time.Time            `json:"postedAt,omitempty"`
	PostedBy       string                `json:"postedBy,omitempty"`
	Lines          []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	CreatedBy      string                `json:"createdBy"`
}

// ListJournalEntriesParams defines pagination for entry listings.
type ListJournalEntriesParams struct {
	Limit     int    `form:"limit"`
	NextToken string `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		LineNumber:  l.LineNumber,
		AccountID:   l.AccountID,
		Description: l.Description,
		Debit:       l.Debit,
		Credit:      l.Credit,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry with its lines.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i := range e.Lines {
		lines[i] = ToJournalLineResponse(&e.Lines[i])
	}
	return JournalEntryResponse{
		EntryID:        e.EntryID,
		EntryNumber:    e.EntryNumber,
		Date:           e.Date,
		Reference:      e.Reference,
		Description:    e.Description,
		Status:         e.Status,
		EntryType:      e.EntryType,
		Source:         e.Source,
		SourceID:       e.SourceID,
		FiscalYearID:   e.FiscalYearID,
		PeriodID:       e.PeriodID,
		TotalDebit:     e.TotalDebit,
		TotalCredit:    e.TotalCredit,
		ReversalOfID:   e.ReversalOfID,
		ReversalReason: e.ReversalReason,
		PostedAt:       e.PostedAt,
		PostedBy:       e.PostedBy,
		Lines:          lines,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// ToJournalEntryResponses converts a slice of domain.JournalEntry.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return responses
}
