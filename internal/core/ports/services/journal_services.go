package services

import (
	"context"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// ListEntriesByAccount retrieves posted entries touching an account.
	ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entries.
type JournalWriterSvc interface {
	// CreateEntry persists a new draft entry with its lines. Structural
	// validation runs here; period checks wait until posting.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateDraftEntry replaces the header and lines of a draft entry.
	UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error)

	// DeleteDraftEntry removes a draft entry. Posted entries are immutable.
	DeleteDraftEntry(ctx context.Context, entryID string, requestingUserID string) error

	// PostEntry validates and posts a draft entry, updating account balances
	// atomically. Validation collects every violation before reporting.
	PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a dated mirror image of a posted entry
	// and marks the original REVERSED.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
