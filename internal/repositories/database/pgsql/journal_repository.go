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
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, entry_number, entry_date, reference, description, status, entry_type, source_module, source_id, is_system_generated, is_locked, fiscal_year_id, period_id, total_debit, total_credit, reversal_of_id, reversal_reason, posted_at, posted_by, created_at, created_by, last_updated_at, last_updated_by`
const lineColumns = `line_id, entry_id, line_number, account_id, description, debit, credit`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountPostingSupport
}

// newPgxJournalRepository creates a new repository for journal entry data.
// The account repository is injected so posting can lock and update account
// balances inside the same transaction.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountPostingSupport) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgxRow) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Reference,
		&m.Description,
		&m.Status,
		&m.EntryType,
		&m.SourceModule,
		&m.SourceID,
		&m.IsSystemGenerated,
		&m.IsLocked,
		&m.FiscalYearID,
		&m.PeriodID,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.ReversalOfID,
		&m.ReversalReason,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgxRow) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.LineNumber,
		&m.AccountID,
		&m.Description,
		&m.Debit,
		&m.Credit,
	)
	return m, err
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)

	lines, err := r.findLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

func (r *PgxJournalRepository) findLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", rows.Err())
	}
	return lines, nil
}

// FindEntriesByIDs retrieves multiple entry headers keyed by ID.
func (r *PgxJournalRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.JournalEntry, error) {
	if len(entryIDs) == 0 {
		return map[string]domain.JournalEntry{}, nil
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by IDs: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]domain.JournalEntry)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row during batch fetch: %w", err)
		}
		entries[m.EntryID] = mapping.ToDomainJournalEntry(m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating entry rows during batch fetch: %w", rows.Err())
	}
	return entries, nil
}

// ListEntries retrieves entry headers newest-first using token pagination
// keyed on (entry_date, created_at).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken string) ([]domain.JournalEntry, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	args := []any{}
	if nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (entry_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating entry rows: %w", rows.Err())
	}

	var token string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token = pagination.EncodeToken(last.Date, last.CreatedAt)
	}
	return entries, token, nil
}

// ListEntriesByAccount retrieves posted entry headers touching an account,
// newest-first with token pagination.
func (r *PgxJournalRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken string) ([]domain.JournalEntry, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT DISTINCT ` + prefixColumns("e", entryColumns) + `
		FROM journal_entries e
		JOIN journal_lines l ON l.entry_id = e.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED'`
	args := []any{accountID}
	if nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (e.entry_date, e.created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY e.entry_date DESC, e.created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating entry rows: %w", rows.Err())
	}

	var token string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token = pagination.EncodeToken(last.Date, last.CreatedAt)
	}
	return entries, token, nil
}

// FindLineByID retrieves a single journal line.
func (r *PgxJournalRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE line_id = $1;`

	m, err := scanLine(r.Pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal line %s: %w", lineID, err)
	}
	line := mapping.ToDomainJournalLine(m)
	return &line, nil
}

// FindReversalOf returns the reversal entry for an original, if any.
func (r *PgxJournalRepository) FindReversalOf(ctx context.Context, originalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE reversal_of_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, originalEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reversal of entry %s: %w", originalEntryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindMatchableLine returns the single posted, unclaimed journal line on the
// GL account with the given side and amount whose entry date falls inside
// [from, to]. LIMIT 2 distinguishes "exactly one" from "more than one".
func (r *PgxJournalRepository) FindMatchableLine(ctx context.Context, glAccountID string, debit bool, amount decimal.Decimal, from, to time.Time) (*domain.JournalLine, error) {
	side := "l.debit"
	if !debit {
		side = "l.credit"
	}
	query := `
		SELECT ` + prefixColumns("l", lineColumns) + `
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND ` + side + ` = $2
		  AND e.status = 'POSTED'
		  AND e.entry_date >= $3 AND e.entry_date <= $4
		  AND NOT EXISTS (
		      SELECT 1 FROM bank_statement_lines b WHERE b.matched_journal_line_id = l.line_id
		  )
		ORDER BY e.entry_date, l.line_id
		LIMIT 2;
	`

	rows, err := r.Pool.Query(ctx, query, glAccountID, amount, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchable lines: %w", err)
	}
	defer rows.Close()

	candidates := []models.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matchable line row: %w", err)
		}
		candidates = append(candidates, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating matchable line rows: %w", rows.Err())
	}

	switch len(candidates) {
	case 0:
		return nil, apperrors.ErrNotFound
	case 1:
		line := mapping.ToDomainJournalLine(candidates[0])
		return &line, nil
	default:
		return nil, fmt.Errorf("%w: multiple journal lines match amount %s", apperrors.ErrConflict, amount.String())
	}
}

// NextEntryNumber reserves the next sequential entry number.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context) (string, error) {
	number, err := nextNumber(ctx, r.Pool, "journal_entry_number_seq", "JE")
	if err != nil {
		return "", fmt.Errorf("failed to reserve entry number: %w", err)
	}
	return number, nil
}

// SaveDraftEntry persists a new draft entry with its lines in one transaction.
func (r *PgxJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertLinesInTx(ctx, tx, entry.Lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.Status,
		m.EntryType,
		m.SourceModule,
		m.SourceID,
		m.IsSystemGenerated,
		m.IsLocked,
		m.FiscalYearID,
		m.PeriodID,
		m.TotalDebit,
		m.TotalCredit,
		m.ReversalOfID,
		m.ReversalReason,
		m.PostedAt,
		m.PostedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: entry %s already exists", apperrors.ErrDuplicate, m.EntryNumber)
		}
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

func (r *PgxJournalRepository) insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query, m.LineID, m.EntryID, m.LineNumber, m.AccountID, m.Description, m.Debit, m.Credit)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert journal lines: %w", err)
	}
	return nil
}

// UpdateDraftEntry replaces the header and lines of a draft entry. The
// status guard in the WHERE clause keeps posted entries immutable.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET entry_date = $2, reference = $3, description = $4, entry_type = $5,
		    total_debit = $6, total_credit = $7, last_updated_at = $8, last_updated_by = $9
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.EntryType,
		m.TotalDebit,
		m.TotalCredit,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft entry %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
		return fmt.Errorf("failed to delete old lines of entry %s: %w", m.EntryID, err)
	}
	if err := r.insertLinesInTx(ctx, tx, entry.Lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteDraftEntry removes a draft entry and its lines.
func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return r.Commit(ctx, tx)
}

// PostEntry marks the entry posted and applies balance changes to the
// touched accounts in a single transaction. Accounts are locked in ID order
// before their balances move.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', is_locked = TRUE, fiscal_year_id = $2, period_id = $3,
		    posted_at = $4, posted_by = $5, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query, m.EntryID, m.FiscalYearID, m.PeriodID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to post entry %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not a draft", apperrors.ErrConflict, m.EntryID)
	}

	if err := r.applyBalances(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveReversal inserts the reversal as a posted entry, applies balance
// changes, and marks the original entry REVERSED, atomically.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryInTx(ctx, tx, reversal); err != nil {
		return err
	}
	if err := r.insertLinesInTx(ctx, tx, reversal.Lines); err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx,
		`UPDATE journal_entries SET status = 'REVERSED', last_updated_at = $2, last_updated_by = $3 WHERE entry_id = $1 AND status = 'POSTED';`,
		originalEntryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not posted", apperrors.ErrConflict, originalEntryID)
	}

	if err := r.applyBalances(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) applyBalances(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	if err := r.accountRepo.ApplyBalanceChangesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}
