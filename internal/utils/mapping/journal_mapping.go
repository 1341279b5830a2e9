package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to its model form.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.Date,
		Reference:         d.Reference,
		Description:       d.Description,
		Status:            string(d.Status),
		EntryType:         string(d.EntryType),
		SourceModule:      string(d.Source),
		SourceID:          d.SourceID,
		IsSystemGenerated: d.IsSystemGenerated,
		IsLocked:          d.IsLocked,
		FiscalYearID:      strPtrOrNil(d.FiscalYearID),
		PeriodID:          strPtrOrNil(d.PeriodID),
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		ReversalOfID:      strPtrOrNil(d.ReversalOfID),
		ReversalReason:    d.ReversalReason,
		PostedAt:          d.PostedAt,
		PostedBy:          d.PostedBy,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry header to its domain form.
// Lines are attached separately by the caller.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		EntryNumber:       m.EntryNumber,
		Date:              m.EntryDate,
		Reference:         m.Reference,
		Description:       m.Description,
		Status:            domain.EntryStatus(m.Status),
		EntryType:         domain.EntryType(m.EntryType),
		Source:            domain.SourceModule(m.SourceModule),
		SourceID:          m.SourceID,
		IsSystemGenerated: m.IsSystemGenerated,
		IsLocked:          m.IsLocked,
		FiscalYearID:      strOrEmpty(m.FiscalYearID),
		PeriodID:          strOrEmpty(m.PeriodID),
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		ReversalOfID:      strOrEmpty(m.ReversalOfID),
		ReversalReason:    m.ReversalReason,
		PostedAt:          m.PostedAt,
		PostedBy:          m.PostedBy,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to its model form.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		LineNumber:  d.LineNumber,
		AccountID:   d.AccountID,
		Description: d.Description,
		Debit:       d.Debit,
		Credit:      d.Credit,
	}
}

// ToDomainJournalLine converts a model JournalLine to its domain form.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		LineNumber:  m.LineNumber,
		AccountID:   m.AccountID,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
	}
}
