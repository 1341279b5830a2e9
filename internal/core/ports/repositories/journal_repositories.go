package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// JournalReader defines read operations for journal entries and lines.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByIDs retrieves multiple entries (without lines) keyed by ID.
	FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.JournalEntry, error)

	// ListEntries retrieves entries newest-first using token pagination.
	ListEntries(ctx context.Context, limit int, nextToken string) ([]domain.JournalEntry, string, error)

	// ListEntriesByAccount retrieves posted entries touching an account.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken string) ([]domain.JournalEntry, string, error)

	// FindLineByID retrieves a single journal line.
	FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error)

	// FindReversalOf returns the reversal entry for an original, if any.
	FindReversalOf(ctx context.Context, originalEntryID string) (*domain.JournalEntry, error)

	// FindMatchableLine returns the single posted, unlinked journal line on
	// glAccountID with the given side and amount whose entry date falls in
	// [from, to]. Lines already linked to a statement line are excluded.
	// Returns ErrNotFound when none qualifies and ErrConflict when more than
	// one does.
	FindMatchableLine(ctx context.Context, glAccountID string, debit bool, amount decimal.Decimal, from, to time.Time) (*domain.JournalLine, error)
}

// JournalWriter defines write operations for journal entries. Posting and
// reversal mutate account balances, so each runs in its own transaction with
// the touched accounts locked in ID order.
type JournalWriter interface {
	// NextEntryNumber reserves the next sequential entry number.
	NextEntryNumber(ctx context.Context) (string, error)

	// SaveDraftEntry persists a new draft entry with its lines.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateDraftEntry replaces the header and lines of a draft entry.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteDraftEntry removes a draft entry and its lines.
	DeleteDraftEntry(ctx context.Context, entryID string) error

	// PostEntry marks the entry posted and applies balanceChanges to the
	// touched accounts in a single transaction.
	PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error

	// SaveReversal inserts the reversal as a posted entry, applies
	// balanceChanges, and marks the original entry REVERSED, atomically.
	SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// JournalRepositoryFacade combines journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
