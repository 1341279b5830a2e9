package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database row for a journal entry header.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"`
	EntryNumber       string          `db:"entry_number"`
	EntryDate         time.Time       `db:"entry_date"`
	Reference         string          `db:"reference"`
	Description       string          `db:"description"`
	Status            string          `db:"status"`
	EntryType         string          `db:"entry_type"`
	SourceModule      string          `db:"source_module"`
	SourceID          string          `db:"source_id"`
	IsSystemGenerated bool            `db:"is_system_generated"`
	IsLocked          bool            `db:"is_locked"`
	FiscalYearID      *string         `db:"fiscal_year_id"` // Set at posting time
	PeriodID          *string         `db:"period_id"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	ReversalOfID      *string         `db:"reversal_of_id"`
	ReversalReason    string          `db:"reversal_reason"`
	PostedAt          *time.Time      `db:"posted_at"`
	PostedBy          string          `db:"posted_by"`
	AuditFields
}

// JournalLine is the database row for one line of a journal entry. Exactly
// one of debit and credit is positive; the other is zero.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNumber  int             `db:"line_number"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
}
