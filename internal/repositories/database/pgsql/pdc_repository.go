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

const pdcColumns = `pdc_id, pdc_number, cheque_number, bank_name, cheque_date, amount, tenant_id, drawer_name, purpose, status, deposit_status, received_date, deposited_date, deposited_to_bank_id, cleared_date, clearing_reference, deposit_entry_id, clearing_entry_id, bounce_entry_id, bounce_date, bounce_reason, bounce_charges, replaced_by_id, statement_line_id, reconciled, reconciled_at, reconciled_by, notes, created_at, created_by, last_updated_at, last_updated_by`
const tenantColumns = `tenant_id, name, ar_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxPDCRepository struct {
	pool *pgxpool.Pool
}

// newPgxPDCRepository creates a new repository for post-dated cheque data.
func newPgxPDCRepository(pool *pgxpool.Pool) portsrepo.PDCRepositoryFacade {
	return &PgxPDCRepository{pool: pool}
}

var _ portsrepo.PDCRepositoryFacade = (*PgxPDCRepository)(nil)

func scanPDC(row pgxRow) (models.PDCCheque, error) {
	var m models.PDCCheque
	err := row.Scan(
		&m.PDCID,
		&m.PDCNumber,
		&m.ChequeNumber,
		&m.BankName,
		&m.ChequeDate,
		&m.Amount,
		&m.TenantID,
		&m.DrawerName,
		&m.Purpose,
		&m.Status,
		&m.DepositStatus,
		&m.ReceivedDate,
		&m.DepositedDate,
		&m.DepositedToBankID,
		&m.ClearedDate,
		&m.ClearingReference,
		&m.DepositEntryID,
		&m.ClearingEntryID,
		&m.BounceEntryID,
		&m.BounceDate,
		&m.BounceReason,
		&m.BounceCharges,
		&m.ReplacedByID,
		&m.StatementLineID,
		&m.Reconciled,
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

func scanTenant(row pgxRow) (models.Tenant, error) {
	var m models.Tenant
	err := row.Scan(
		&m.TenantID,
		&m.Name,
		&m.ARAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindPDCByID retrieves a cheque by its ID.
func (r *PgxPDCRepository) FindPDCByID(ctx context.Context, pdcID string) (*domain.PDCCheque, error) {
	query := `SELECT ` + pdcColumns + ` FROM pdc_cheques WHERE pdc_id = $1;`

	m, err := scanPDC(r.pool.QueryRow(ctx, query, pdcID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	d := mapping.ToDomainPDC(m)
	return &d, nil
}

// ListPDCs retrieves cheques, optionally filtered by status, newest first
// with token pagination keyed on (cheque_date, created_at).
func (r *PgxPDCRepository) ListPDCs(ctx context.Context, status domain.PDCStatus, limit int, nextToken string) ([]domain.PDCCheque, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + pdcColumns + ` FROM pdc_cheques WHERE 1 = 1`
	args := []any{}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, lastDate, lastCreatedAt)
		query += fmt.Sprintf(` AND (cheque_date, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY cheque_date DESC, created_at DESC LIMIT $%d;`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query cheques: %w", err)
	}
	defer rows.Close()

	pdcs := []domain.PDCCheque{}
	for rows.Next() {
		m, err := scanPDC(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan cheque row: %w", err)
		}
		pdcs = append(pdcs, mapping.ToDomainPDC(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating cheque rows: %w", rows.Err())
	}

	var token string
	if len(pdcs) > limit {
		pdcs = pdcs[:limit]
		last := pdcs[len(pdcs)-1]
		token = pagination.EncodeToken(last.ChequeDate, last.CreatedAt)
	}
	return pdcs, token, nil
}

// FindOutstandingByAmount returns deposited, in-clearing, unreconciled
// cheques of the given amount with cheque dates inside [from, to], ordered
// by cheque date then cheque number for deterministic candidate lists.
func (r *PgxPDCRepository) FindOutstandingByAmount(ctx context.Context, amount decimal.Decimal, from, to time.Time) ([]domain.PDCCheque, error) {
	query := `
		SELECT ` + pdcColumns + `
		FROM pdc_cheques
		WHERE status = 'DEPOSITED'
		  AND deposit_status = 'IN_CLEARING'
		  AND reconciled = FALSE
		  AND amount = $1
		  AND cheque_date >= $2 AND cheque_date <= $3
		ORDER BY cheque_date, cheque_number;
	`

	rows, err := r.pool.Query(ctx, query, amount, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding cheques: %w", err)
	}
	defer rows.Close()

	pdcs := []domain.PDCCheque{}
	for rows.Next() {
		m, err := scanPDC(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outstanding cheque row: %w", err)
		}
		pdcs = append(pdcs, mapping.ToDomainPDC(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating outstanding cheque rows: %w", rows.Err())
	}
	return pdcs, nil
}

// FindPDCByStatementLineID returns the cheque reconciled against a
// statement line.
func (r *PgxPDCRepository) FindPDCByStatementLineID(ctx context.Context, lineID string) (*domain.PDCCheque, error) {
	query := `SELECT ` + pdcColumns + ` FROM pdc_cheques WHERE statement_line_id = $1;`

	m, err := scanPDC(r.pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cheque for statement line %s: %w", lineID, err)
	}
	d := mapping.ToDomainPDC(m)
	return &d, nil
}

// FindTenantByID retrieves a tenant by its ID.
func (r *PgxPDCRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1;`

	m, err := scanTenant(r.pool.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	d := mapping.ToDomainTenant(m)
	return &d, nil
}

// ListTenants retrieves all tenants ordered by name.
func (r *PgxPDCRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []domain.Tenant{}
	for rows.Next() {
		m, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, mapping.ToDomainTenant(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", rows.Err())
	}
	return tenants, nil
}

// NextPDCNumber reserves the next sequential cheque tracking number.
func (r *PgxPDCRepository) NextPDCNumber(ctx context.Context) (string, error) {
	number, err := nextNumber(ctx, r.pool, "pdc_number_seq", "PDC")
	if err != nil {
		return "", fmt.Errorf("failed to reserve cheque tracking number: %w", err)
	}
	return number, nil
}

// SavePDC inserts a new cheque. A violation of the composite identity
// constraint (cheque_number, bank_name, cheque_date, amount, tenant_id)
// surfaces as ErrDuplicate.
func (r *PgxPDCRepository) SavePDC(ctx context.Context, cheque domain.PDCCheque) error {
	m := mapping.ToModelPDC(cheque)

	query := `
		INSERT INTO pdc_cheques (` + pdcColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PDCID,
		m.PDCNumber,
		m.ChequeNumber,
		m.BankName,
		m.ChequeDate,
		m.Amount,
		m.TenantID,
		m.DrawerName,
		m.Purpose,
		m.Status,
		m.DepositStatus,
		m.ReceivedDate,
		m.DepositedDate,
		m.DepositedToBankID,
		m.ClearedDate,
		m.ClearingReference,
		m.DepositEntryID,
		m.ClearingEntryID,
		m.BounceEntryID,
		m.BounceDate,
		m.BounceReason,
		m.BounceCharges,
		m.ReplacedByID,
		m.StatementLineID,
		m.Reconciled,
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
			return fmt.Errorf("%w: cheque %s from %s already registered", apperrors.ErrDuplicate, m.ChequeNumber, m.BankName)
		}
		return fmt.Errorf("failed to save cheque %s: %w", m.PDCID, err)
	}
	return nil
}

// UpdatePDC replaces the mutable state of a cheque.
func (r *PgxPDCRepository) UpdatePDC(ctx context.Context, cheque domain.PDCCheque) error {
	m := mapping.ToModelPDC(cheque)

	query := `
		UPDATE pdc_cheques
		SET status = $2,
		    deposit_status = $3,
		    deposited_date = $4,
		    deposited_to_bank_id = $5,
		    cleared_date = $6,
		    clearing_reference = $7,
		    deposit_entry_id = $8,
		    clearing_entry_id = $9,
		    bounce_entry_id = $10,
		    bounce_date = $11,
		    bounce_reason = $12,
		    bounce_charges = $13,
		    replaced_by_id = $14,
		    statement_line_id = $15,
		    reconciled = $16,
		    reconciled_at = $17,
		    reconciled_by = $18,
		    notes = $19,
		    last_updated_at = $20,
		    last_updated_by = $21
		WHERE pdc_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.PDCID,
		m.Status,
		m.DepositStatus,
		m.DepositedDate,
		m.DepositedToBankID,
		m.ClearedDate,
		m.ClearingReference,
		m.DepositEntryID,
		m.ClearingEntryID,
		m.BounceEntryID,
		m.BounceDate,
		m.BounceReason,
		m.BounceCharges,
		m.ReplacedByID,
		m.StatementLineID,
		m.Reconciled,
		m.ReconciledAt,
		m.ReconciledBy,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: statement line already linked to another cheque", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update cheque %s: %w", m.PDCID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveTenant inserts a new tenant.
func (r *PgxPDCRepository) SaveTenant(ctx context.Context, t domain.Tenant) error {
	m := mapping.ToModelTenant(t)

	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.TenantID,
		m.Name,
		m.ARAccountID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: tenant %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save tenant %s: %w", m.TenantID, err)
	}
	return nil
}
