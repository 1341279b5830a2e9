package services

import (
	"context"
	"io"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// StatementReaderSvc defines read operations for statements and bank accounts.
type StatementReaderSvc interface {
	GetStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, []domain.BankStatementLine, error)
	ListStatements(ctx context.Context, params dto.ListStatementsParams) (*dto.ListStatementsResponse, error)
	GetStatementLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error)

	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
}

// StatementWriterSvc defines statement lifecycle operations.
type StatementWriterSvc interface {
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error)

	CreateStatement(ctx context.Context, req dto.CreateStatementRequest, creatorUserID string) (*domain.BankStatement, error)

	// ImportLinesCSV parses statement rows from CSV and appends them to a
	// draft statement.
	ImportLinesCSV(ctx context.Context, statementID string, r io.Reader, requestingUserID string) (*dto.ImportLinesResult, error)

	// ImportLinesXLSX parses statement rows from the first sheet of an XLSX
	// workbook and appends them to a draft statement.
	ImportLinesXLSX(ctx context.Context, statementID string, r io.Reader, requestingUserID string) (*dto.ImportLinesResult, error)

	// FinalizeStatement marks a fully matched, balanced statement reconciled
	// and flags its linked payments.
	FinalizeStatement(ctx context.Context, statementID string, requestingUserID string) (*domain.BankStatement, error)

	// LockStatement makes a reconciled statement permanently immutable.
	LockStatement(ctx context.Context, statementID string, requestingUserID string) error
}

// MatcherSvc defines matching operations over statement lines.
type MatcherSvc interface {
	// AutoMatch runs the deterministic matcher over every unmatched line of
	// a statement: payments first, then journal lines, then outstanding
	// PDCs. Ties are logged and skipped, never guessed.
	AutoMatch(ctx context.Context, statementID string, requestingUserID string) (*dto.AutoMatchResult, error)

	// MatchLineWithPayment links a statement line to a payment by hand.
	MatchLineWithPayment(ctx context.Context, lineID string, req dto.MatchPaymentRequest, requestingUserID string) (*domain.BankStatementLine, error)

	// MatchLineWithJournal links a statement line to a journal line by hand.
	MatchLineWithJournal(ctx context.Context, lineID string, req dto.MatchJournalRequest, requestingUserID string) (*domain.BankStatementLine, error)

	// CreateAdjustment posts a journal entry for a bank-originated item and
	// marks the line adjusted.
	CreateAdjustment(ctx context.Context, lineID string, req dto.CreateAdjustmentRequest, requestingUserID string) (*domain.BankStatementLine, error)

	// UnmatchLine reverts a matched line while the statement is mutable.
	UnmatchLine(ctx context.Context, lineID string, requestingUserID string) (*domain.BankStatementLine, error)
}

// ReconciliationSvcFacade combines statement and matcher service interfaces.
type ReconciliationSvcFacade interface {
	StatementReaderSvc
	StatementWriterSvc
	MatcherSvc
}
