package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "DRAFT"
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// EntryType classifies a journal entry.
type EntryType string

const (
	EntryTypeStandard  EntryType = "STANDARD"
	EntryTypeOpening   EntryType = "OPENING"
	EntryTypeAdjusting EntryType = "ADJUSTING"
	EntryTypeReversal  EntryType = "REVERSAL"
	EntryTypeClosing   EntryType = "CLOSING"
)

// SourceModule identifies the calling module that created an entry. Anything
// other than SourceManual marks the entry system-generated.
type SourceModule string

const (
	SourceManual       SourceModule = "MANUAL"
	SourceSales        SourceModule = "SALES"
	SourcePurchase     SourceModule = "PURCHASE"
	SourcePayment      SourceModule = "PAYMENT"
	SourcePayroll      SourceModule = "PAYROLL"
	SourceProperty     SourceModule = "PROPERTY"
	SourcePDC          SourceModule = "PDC"
	SourceReversal     SourceModule = "REVERSAL"
	SourceAdjustment   SourceModule = "ADJUSTMENT"
	SourceOpeningBal   SourceModule = "OPENING_BALANCE"
	SourceYearEnd      SourceModule = "YEAR_END"
	SourceBankTransfer SourceModule = "BANK_TRANSFER"
)

// JournalEntry is a balanced financial event composed of at least two lines.
// Posted entries are immutable; corrections happen only through reversal.
type JournalEntry struct {
	EntryID     string       `json:"entryID"`
	EntryNumber string       `json:"entryNumber"` // Sequential, immutable once assigned
	Date        time.Time    `json:"date"`
	Reference   string       `json:"reference,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      EntryStatus  `json:"status"`
	EntryType   EntryType    `json:"entryType"`
	Source      SourceModule `json:"source"`
	SourceID    string       `json:"sourceID,omitempty"` // ID of the originating document

	IsSystemGenerated bool `json:"isSystemGenerated"`
	// IsLocked flips on posting. Locked entries reject every direct mutation;
	// only the reversal path may supersede them.
	IsLocked bool `json:"isLocked"`

	FiscalYearID string `json:"fiscalYearID,omitempty"`
	PeriodID     string `json:"periodID,omitempty"`

	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`

	ReversalOfID   string `json:"reversalOfID,omitempty"` // Set on the reversing entry
	ReversalReason string `json:"reversalReason,omitempty"`

	PostedAt *time.Time `json:"postedAt,omitempty"`
	PostedBy string     `json:"postedBy,omitempty"`

	Lines []JournalLine `json:"lines,omitempty"` // Loaded separately in list paths
	AuditFields
}

// IsBalanced reports whether total debits equal total credits.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}

// IsDeletable reports whether the entry may be hard-deleted: draft, manual
// entries only. Posted entries must be reversed, never deleted.
func (e *JournalEntry) IsDeletable() bool {
	return e.Status == EntryDraft && !e.IsSystemGenerated && !e.IsLocked
}

// IsReversible reports whether the reversal path applies. Period and fiscal
// year openness is checked separately by the period guard.
func (e *JournalEntry) IsReversible() bool {
	return e.Status == EntryPosted
}

// CalculateTotals recomputes TotalDebit/TotalCredit from the loaded lines.
func (e *JournalEntry) CalculateTotals() {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, line := range e.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	e.TotalDebit = debit
	e.TotalCredit = credit
}

// JournalLine is a single debit or credit against one leaf account. Exactly
// one of Debit/Credit is strictly positive; the other is zero. Lines are
// owned by their entry and are never reparented.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// SignedEffect returns the line's effect on an account balance given the
// account's normal-balance direction: +debit-credit for debit-increasing
// accounts, +credit-debit otherwise.
func (l *JournalLine) SignedEffect(debitIncreases bool) decimal.Decimal {
	if debitIncreases {
		return l.Debit.Sub(l.Credit)
	}
	return l.Credit.Sub(l.Debit)
}
