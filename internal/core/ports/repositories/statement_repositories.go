package repositories

import (
	"context"
	"time"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// StatementReader defines read operations for bank statements and lines.
type StatementReader interface {
	FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error)
	ListStatements(ctx context.Context, bankAccountID string, limit int, nextToken string) ([]domain.BankStatement, string, error)

	FindLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error)
	FindLinesByStatementID(ctx context.Context, statementID string) ([]domain.BankStatementLine, error)

	// FindUnmatchedLines returns the statement's unmatched lines in line order.
	FindUnmatchedLines(ctx context.Context, statementID string) ([]domain.BankStatementLine, error)

	// CountUnmatchedLines returns how many lines are still unmatched.
	CountUnmatchedLines(ctx context.Context, statementID string) (int, error)

	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
}

// StatementWriter defines write operations for bank statements and lines.
type StatementWriter interface {
	NextStatementNumber(ctx context.Context) (string, error)

	SaveStatement(ctx context.Context, stmt domain.BankStatement) error

	// ImportLines appends lines to a draft statement and refreshes the
	// statement totals in one transaction.
	ImportLines(ctx context.Context, statementID string, lines []domain.BankStatementLine, userID string, now time.Time) error

	// MatchLine records a match on a statement line. The update is
	// conditional: it succeeds only while the line is still unmatched and the
	// referenced record is not already linked elsewhere, so a concurrent
	// match loses cleanly with ErrConflict.
	MatchLine(ctx context.Context, line domain.BankStatementLine, userID string, now time.Time) error

	// ClearLineMatch reverts a matched line to unmatched.
	ClearLineMatch(ctx context.Context, lineID string, userID string, now time.Time) error

	// UpdateStatementStatus moves the statement between workflow states.
	UpdateStatementStatus(ctx context.Context, statementID string, status domain.StatementStatus, userID string, now time.Time) error

	// FinalizeStatement marks the statement reconciled and flags every
	// payment linked from its lines as reconciled, in one transaction.
	FinalizeStatement(ctx context.Context, statementID string, userID string, now time.Time) error

	SaveBankAccount(ctx context.Context, ba domain.BankAccount) error

	// AcquireReconcileLock takes an advisory lock keyed on the bank account,
	// serializing auto-match and finalize runs against it. The returned
	// release function must be called when the run completes.
	AcquireReconcileLock(ctx context.Context, bankAccountID string) (release func(), err error)
}

// StatementRepositoryFacade combines statement repository interfaces.
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
