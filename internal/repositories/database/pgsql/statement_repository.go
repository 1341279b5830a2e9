package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	"github.com/crestlinehq/ledgerengine/internal/models"
	"github.com/crestlinehq/ledgerengine/internal/utils/mapping"
	"github.com/crestlinehq/ledgerengine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bankAccountColumns = `bank_account_id, name, account_number, bank_name, gl_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`
const statementColumns = `statement_id, statement_number, bank_account_id, start_date, end_date, opening_balance, closing_balance, total_debits, total_credits, status, reconciled_at, reconciled_by, notes, created_at, created_by, last_updated_at, last_updated_by`
const statementLineColumns = `line_id, statement_id, line_number, transaction_date, value_date, description, reference, debit, credit, balance, reconciliation_status, match_method, matched_record_type, matched_payment_id, matched_journal_line_id, adjustment_entry_id, matched_at, matched_by`

type PgxStatementRepository struct {
	BaseRepository
}

// newPgxStatementRepository creates a new repository for bank statement data.
func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepositoryFacade {
	return &PgxStatementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

func scanBankAccount(row pgxRow) (models.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID,
		&m.Name,
		&m.AccountNumber,
		&m.BankName,
		&m.GLAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanStatement(row pgxRow) (models.BankStatement, error) {
	var m models.BankStatement
	err := row.Scan(
		&m.StatementID,
		&m.StatementNumber,
		&m.BankAccountID,
		&m.StartDate,
		&m.EndDate,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.TotalDebits,
		&m.TotalCredits,
		&m.Status,
		&m.ReconciledAt,
		&m.ReconciledBy,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanStatementLine(row pgxRow) (models.BankStatementLine, error) {
	var m models.BankStatementLine
	err := row.Scan(
		&m.LineID,
		&m.StatementID,
		&m.LineNumber,
		&m.TransactionDate,
		&m.ValueDate,
		&m.Description,
		&m.Reference,
		&m.Debit,
		&m.Credit,
		&m.Balance,
		&m.ReconciliationStatus,
		&m.MatchMethod,
		&m.MatchedRecordType,
		&m.MatchedPaymentID,
		&m.MatchedJournalLineID,
		&m.AdjustmentEntryID,
		&m.MatchedAt,
		&m.MatchedBy,
	)
	return m, err
}

// FindStatementByID retrieves a statement header.
func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM bank_statements WHERE statement_id = $1;`

	m, err := scanStatement(r.Pool.QueryRow(ctx, query, statementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	d := mapping.ToDomainBankStatement(m)
	return &d, nil
}

// ListStatements retrieves statements for a bank account, newest first, with
// token pagination keyed on (start_date, created_at).
func (r *PgxStatementRepository) ListStatements(ctx context.Context, bankAccountID string, limit int, nextToken string) ([]domain.BankStatement, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + statementColumns + ` FROM bank_statements WHERE bank_account_id = $1`
	args := []any{bankAccountID}
	if nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (start_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY start_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query statements for bank account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	statements := []domain.BankStatement{}
	for rows.Next() {
		m, err := scanStatement(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan statement row: %w", err)
		}
		statements = append(statements, mapping.ToDomainBankStatement(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating statement rows: %w", rows.Err())
	}

	var token string
	if len(statements) > limit {
		statements = statements[:limit]
		last := statements[len(statements)-1]
		token = pagination.EncodeToken(last.StartDate, last.CreatedAt)
	}
	return statements, token, nil
}

// FindLineByID retrieves a single statement line.
func (r *PgxStatementRepository) FindLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error) {
	query := `SELECT ` + statementLineColumns + ` FROM bank_statement_lines WHERE line_id = $1;`

	m, err := scanStatementLine(r.Pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	d := mapping.ToDomainStatementLine(m)
	return &d, nil
}

// FindLinesByStatementID retrieves all lines of a statement in line order.
func (r *PgxStatementRepository) FindLinesByStatementID(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	query := `SELECT ` + statementLineColumns + ` FROM bank_statement_lines WHERE statement_id = $1 ORDER BY line_number;`
	return r.queryLines(ctx, query, statementID)
}

// FindUnmatchedLines retrieves the statement's unmatched lines in line order.
func (r *PgxStatementRepository) FindUnmatchedLines(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	query := `SELECT ` + statementLineColumns + ` FROM bank_statement_lines WHERE statement_id = $1 AND reconciliation_status = 'UNMATCHED' ORDER BY line_number;`
	return r.queryLines(ctx, query, statementID)
}

func (r *PgxStatementRepository) queryLines(ctx context.Context, query string, statementID string) ([]domain.BankStatementLine, error) {
	rows, err := r.Pool.Query(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for statement %s: %w", statementID, err)
	}
	defer rows.Close()

	lines := []domain.BankStatementLine{}
	for rows.Next() {
		m, err := scanStatementLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainStatementLine(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating statement line rows: %w", rows.Err())
	}
	return lines, nil
}

// CountUnmatchedLines returns how many lines are still unmatched.
func (r *PgxStatementRepository) CountUnmatchedLines(ctx context.Context, statementID string) (int, error) {
	query := `SELECT COUNT(*) FROM bank_statement_lines WHERE statement_id = $1 AND reconciliation_status = 'UNMATCHED';`

	var count int
	if err := r.Pool.QueryRow(ctx, query, statementID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unmatched lines for statement %s: %w", statementID, err)
	}
	return count, nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxStatementRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`

	m, err := scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	d := mapping.ToDomainBankAccount(m)
	return &d, nil
}

// ListBankAccounts retrieves all registered bank accounts.
func (r *PgxStatementRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.BankAccount{}
	for rows.Next() {
		m, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainBankAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating bank account rows: %w", rows.Err())
	}
	return accounts, nil
}

// NextStatementNumber reserves the next sequential statement number.
func (r *PgxStatementRepository) NextStatementNumber(ctx context.Context) (string, error) {
	number, err := nextNumber(ctx, r.Pool, "statement_number_seq", "BST")
	if err != nil {
		return "", fmt.Errorf("failed to reserve statement number: %w", err)
	}
	return number, nil
}

// SaveStatement inserts a new statement header.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, stmt domain.BankStatement) error {
	m := mapping.ToModelBankStatement(stmt)

	query := `
		INSERT INTO bank_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.StatementID,
		m.StatementNumber,
		m.BankAccountID,
		m.StartDate,
		m.EndDate,
		m.OpeningBalance,
		m.ClosingBalance,
		m.TotalDebits,
		m.TotalCredits,
		m.Status,
		m.ReconciledAt,
		m.ReconciledBy,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: statement %s already exists", apperrors.ErrDuplicate, m.StatementNumber)
		}
		return fmt.Errorf("failed to save statement %s: %w", m.StatementID, err)
	}
	return nil
}

// ImportLines appends lines to a statement and refreshes the statement
// totals in one transaction.
func (r *PgxStatementRepository) ImportLines(ctx context.Context, statementID string, lines []domain.BankStatementLine, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO bank_statement_lines (` + statementLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelStatementLine(line)
		batch.Queue(query,
			m.LineID,
			m.StatementID,
			m.LineNumber,
			m.TransactionDate,
			m.ValueDate,
			m.Description,
			m.Reference,
			m.Debit,
			m.Credit,
			m.Balance,
			m.ReconciliationStatus,
			m.MatchMethod,
			m.MatchedRecordType,
			m.MatchedPaymentID,
			m.MatchedJournalLineID,
			m.AdjustmentEntryID,
			m.MatchedAt,
			m.MatchedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert statement lines: %w", err)
	}

	totalsQuery := `
		UPDATE bank_statements
		SET total_debits = (SELECT COALESCE(SUM(debit), 0) FROM bank_statement_lines WHERE statement_id = $1),
		    total_credits = (SELECT COALESCE(SUM(credit), 0) FROM bank_statement_lines WHERE statement_id = $1),
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE statement_id = $1;
	`
	if _, err := tx.Exec(ctx, totalsQuery, statementID, now, userID); err != nil {
		return fmt.Errorf("failed to refresh totals of statement %s: %w", statementID, err)
	}
	return r.Commit(ctx, tx)
}

// MatchLine records a match on a statement line. The update is conditional
// on the line still being unmatched and the referenced payment or journal
// line not being claimed by any other statement line, so a concurrent match
// loses cleanly.
func (r *PgxStatementRepository) MatchLine(ctx context.Context, line domain.BankStatementLine, userID string, now time.Time) error {
	m := mapping.ToModelStatementLine(line)

	query := `
		UPDATE bank_statement_lines
		SET reconciliation_status = $2,
		    match_method = $3,
		    matched_record_type = $4,
		    matched_payment_id = $5,
		    matched_journal_line_id = $6,
		    adjustment_entry_id = $7,
		    matched_at = $8,
		    matched_by = $9
		WHERE line_id = $1
		  AND reconciliation_status = 'UNMATCHED'
		  AND ($5::text IS NULL OR NOT EXISTS (
		      SELECT 1 FROM bank_statement_lines o WHERE o.matched_payment_id = $5 AND o.line_id <> $1
		  ))
		  AND ($6::text IS NULL OR NOT EXISTS (
		      SELECT 1 FROM bank_statement_lines o WHERE o.matched_journal_line_id = $6 AND o.line_id <> $1
		  ));
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.LineID,
		m.ReconciliationStatus,
		m.MatchMethod,
		m.MatchedRecordType,
		m.MatchedPaymentID,
		m.MatchedJournalLineID,
		m.AdjustmentEntryID,
		now,
		userID,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: record already claimed by another statement line", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to match statement line %s: %w", m.LineID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: line %s already matched or record claimed", apperrors.ErrConflict, m.LineID)
	}
	return nil
}

// ClearLineMatch reverts a matched line to unmatched.
func (r *PgxStatementRepository) ClearLineMatch(ctx context.Context, lineID string, userID string, now time.Time) error {
	query := `
		UPDATE bank_statement_lines
		SET reconciliation_status = 'UNMATCHED',
		    match_method = '',
		    matched_record_type = '',
		    matched_payment_id = NULL,
		    matched_journal_line_id = NULL,
		    adjustment_entry_id = NULL,
		    matched_at = NULL,
		    matched_by = ''
		WHERE line_id = $1 AND reconciliation_status <> 'UNMATCHED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("failed to clear match of statement line %s: %w", lineID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: line %s is not matched", apperrors.ErrConflict, lineID)
	}

	touchQuery := `
		UPDATE bank_statements
		SET last_updated_at = $2, last_updated_by = $3
		WHERE statement_id = (SELECT statement_id FROM bank_statement_lines WHERE line_id = $1);
	`
	if _, err := r.Pool.Exec(ctx, touchQuery, lineID, now, userID); err != nil {
		return fmt.Errorf("failed to touch statement of line %s: %w", lineID, err)
	}
	return nil
}

// UpdateStatementStatus moves the statement between workflow states.
func (r *PgxStatementRepository) UpdateStatementStatus(ctx context.Context, statementID string, status domain.StatementStatus, userID string, now time.Time) error {
	query := `
		UPDATE bank_statements
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE statement_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, statementID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of statement %s: %w", statementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FinalizeStatement marks the statement reconciled and flags every payment
// linked from its lines as reconciled, in one transaction.
func (r *PgxStatementRepository) FinalizeStatement(ctx context.Context, statementID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE bank_statements
		SET status = 'RECONCILED', reconciled_at = $2, reconciled_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE statement_id = $1 AND status IN ('DRAFT', 'IN_PROGRESS');
	`
	cmdTag, err := tx.Exec(ctx, query, statementID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to finalize statement %s: %w", statementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: statement %s cannot be finalized", apperrors.ErrConflict, statementID)
	}

	paymentsQuery := `
		UPDATE payments
		SET status = 'RECONCILED', last_updated_at = $2, last_updated_by = $3
		WHERE payment_id IN (
		    SELECT matched_payment_id FROM bank_statement_lines
		    WHERE statement_id = $1 AND matched_payment_id IS NOT NULL
		);
	`
	if _, err := tx.Exec(ctx, paymentsQuery, statementID, now, userID); err != nil {
		return fmt.Errorf("failed to mark matched payments reconciled: %w", err)
	}
	return r.Commit(ctx, tx)
}

// SaveBankAccount inserts a new bank account.
func (r *PgxStatementRepository) SaveBankAccount(ctx context.Context, ba domain.BankAccount) error {
	m := mapping.ToModelBankAccount(ba)

	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankAccountID,
		m.Name,
		m.AccountNumber,
		m.BankName,
		m.GLAccountID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: bank account %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// AcquireReconcileLock takes a session advisory lock keyed on the bank
// account, serializing auto-match and finalize runs against it. The lock
// rides a dedicated pooled connection held until release.
func (r *PgxStatementRepository) AcquireReconcileLock(ctx context.Context, bankAccountID string) (func(), error) {
	conn, err := r.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection for reconcile lock: %w", err)
	}

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtextextended($1, 0));`, bankAccountID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to take reconcile lock for bank account %s: %w", bankAccountID, err)
	}

	release := func() {
		// Unlock on a background context: release must work even when the
		// request context is already cancelled.
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock(hashtextextended($1, 0));`, bankAccountID)
		conn.Release()
	}
	return release, nil
}
