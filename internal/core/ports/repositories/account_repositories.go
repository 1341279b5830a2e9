package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// HasActiveChildren reports whether the account has active children.
	// Accounts with active children are parents and must not be posted to.
	HasActiveChildren(ctx context.Context, accountID string) (bool, error)

	// LeafStatusByIDs returns, for each given account, whether it is a leaf.
	LeafStatusByIDs(ctx context.Context, accountIDs []string) (map[string]bool, error)
}

// AccountWriter defines write operations for account data. Balance columns
// are deliberately absent here: only the posting path may touch them.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an account's mutable details. The opening balance
	// is rejected once locked by a first posting.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive. Accounts are never
	// hard-deleted.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountPostingSupport defines the operations the ledger engine uses while
// posting, always inside an open transaction.
type AccountPostingSupport interface {
	// FindAccountsByIDsForUpdate selects accounts with row locks, ordered by
	// ID so concurrent postings acquire locks in a consistent order.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChangesInTx applies signed balance deltas and sets the
	// opening-balance lock on every touched account, within tx.
	ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountPostingSupport
}
