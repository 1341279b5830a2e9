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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fiscalYearColumns = `fiscal_year_id, name, start_date, end_date, is_closed, closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`
const periodColumns = `period_id, fiscal_year_id, name, start_date, end_date, is_locked, locked_at, locked_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxPeriodRepository creates a new repository for fiscal year and period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{pool: pool}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanFiscalYear(row pgxRow) (models.FiscalYear, error) {
	var m models.FiscalYear
	err := row.Scan(
		&m.FiscalYearID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPeriod(row pgxRow) (models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.FiscalYearID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsLocked,
		&m.LockedAt,
		&m.LockedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindFiscalYearByID retrieves a fiscal year by its ID.
func (r *PgxPeriodRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE fiscal_year_id = $1;`

	m, err := scanFiscalYear(r.pool.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	d := mapping.ToDomainFiscalYear(m)
	return &d, nil
}

// FindPeriodByID retrieves an accounting period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`

	m, err := scanPeriod(r.pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	d := mapping.ToDomainPeriod(m)
	return &d, nil
}

// FindFiscalYearForDate returns the fiscal year whose range contains the date.
func (r *PgxPeriodRepository) FindFiscalYearForDate(ctx context.Context, d time.Time) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE start_date <= $1 AND end_date >= $1;`

	m, err := scanFiscalYear(r.pool.QueryRow(ctx, query, d))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year for date %s: %w", d.Format("2006-01-02"), err)
	}
	fy := mapping.ToDomainFiscalYear(m)
	return &fy, nil
}

// FindPeriodForDate returns the accounting period whose range contains the date.
func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, d time.Time) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE start_date <= $1 AND end_date >= $1;`

	m, err := scanPeriod(r.pool.QueryRow(ctx, query, d))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period for date %s: %w", d.Format("2006-01-02"), err)
	}
	p := mapping.ToDomainPeriod(m)
	return &p, nil
}

// FindOpenPeriodForDate returns the unlocked period containing the date.
func (r *PgxPeriodRepository) FindOpenPeriodForDate(ctx context.Context, d time.Time) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE start_date <= $1 AND end_date >= $1 AND is_locked = FALSE;`

	m, err := scanPeriod(r.pool.QueryRow(ctx, query, d))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open period for date %s: %w", d.Format("2006-01-02"), err)
	}
	p := mapping.ToDomainPeriod(m)
	return &p, nil
}

// ListFiscalYears retrieves all fiscal years, newest first.
func (r *PgxPeriodRepository) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years ORDER BY start_date DESC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal years: %w", err)
	}
	defer rows.Close()

	years := []domain.FiscalYear{}
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		years = append(years, mapping.ToDomainFiscalYear(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fiscal year rows: %w", rows.Err())
	}
	return years, nil
}

// ListPeriods retrieves the periods of a fiscal year in date order.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE fiscal_year_id = $1 ORDER BY start_date;`

	rows, err := r.pool.Query(ctx, query, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods for fiscal year %s: %w", fiscalYearID, err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainPeriod(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", rows.Err())
	}
	return periods, nil
}

// SaveFiscalYear inserts a new fiscal year. Overlapping ranges are rejected
// by an exclusion constraint and surface as ErrDuplicate.
func (r *PgxPeriodRepository) SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(fy)

	query := `
		INSERT INTO fiscal_years (` + fiscalYearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.FiscalYearID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsClosed,
		m.ClosedAt,
		m.ClosedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") || isExclusionViolation(err) {
			return fmt.Errorf("%w: fiscal year overlaps an existing year", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save fiscal year %s: %w", m.FiscalYearID, err)
	}
	return nil
}

// SavePeriod inserts a new accounting period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, p domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(p)

	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PeriodID,
		m.FiscalYearID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsLocked,
		m.LockedAt,
		m.LockedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") || isExclusionViolation(err) {
			return fmt.Errorf("%w: period overlaps an existing period", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save period %s: %w", m.PeriodID, err)
	}
	return nil
}

// CloseFiscalYear marks a fiscal year closed.
func (r *PgxPeriodRepository) CloseFiscalYear(ctx context.Context, fiscalYearID string, userID string, now time.Time) error {
	query := `
		UPDATE fiscal_years
		SET is_closed = TRUE, closed_at = $2, closed_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE fiscal_year_id = $1 AND is_closed = FALSE;
	`
	return r.execStateChange(ctx, query, fiscalYearID, now, userID)
}

// ReopenFiscalYear reverts a closed fiscal year. Administrative override only.
func (r *PgxPeriodRepository) ReopenFiscalYear(ctx context.Context, fiscalYearID string, userID string, now time.Time) error {
	query := `
		UPDATE fiscal_years
		SET is_closed = FALSE, closed_at = NULL, closed_by = '', last_updated_at = $2, last_updated_by = $3
		WHERE fiscal_year_id = $1 AND is_closed = TRUE;
	`
	return r.execStateChange(ctx, query, fiscalYearID, now, userID)
}

// LockPeriod marks a period locked against posting.
func (r *PgxPeriodRepository) LockPeriod(ctx context.Context, periodID string, userID string, now time.Time) error {
	query := `
		UPDATE accounting_periods
		SET is_locked = TRUE, locked_at = $2, locked_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1 AND is_locked = FALSE;
	`
	return r.execStateChange(ctx, query, periodID, now, userID)
}

// UnlockPeriod reverts a locked period. Administrative override only.
func (r *PgxPeriodRepository) UnlockPeriod(ctx context.Context, periodID string, userID string, now time.Time) error {
	query := `
		UPDATE accounting_periods
		SET is_locked = FALSE, locked_at = NULL, locked_by = '', last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1 AND is_locked = TRUE;
	`
	return r.execStateChange(ctx, query, periodID, now, userID)
}

// execStateChange runs a conditional one-row state transition. Zero rows
// affected means the row is missing or already in the target state.
func (r *PgxPeriodRepository) execStateChange(ctx context.Context, query string, id string, now time.Time, userID string) error {
	cmdTag, err := r.pool.Exec(ctx, query, id, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute state change for %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
