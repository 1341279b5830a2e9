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

const allocationColumns = `allocation_id, allocation_number, statement_line_id, allocation_date, total_amount, status, reason, confirmed_at, confirmed_by, created_at, created_by, last_updated_at, last_updated_by`
const allocationLineColumns = `allocation_line_id, allocation_id, pdc_id, amount, notes`
const ambiguousLogColumns = `log_id, statement_line_id, detected_at, candidate_pdc_ids, criteria_amount, criteria_date, criteria_tolerance_days, criteria_reference, resolution, resolved_at, resolved_by, allocation_id, notes`

type PgxAllocationRepository struct {
	BaseRepository
}

// newPgxAllocationRepository creates a new repository for PDC allocation and
// ambiguous-match log data.
func newPgxAllocationRepository(pool *pgxpool.Pool) portsrepo.AllocationRepositoryFacade {
	return &PgxAllocationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AllocationRepositoryFacade = (*PgxAllocationRepository)(nil)

func scanAllocation(row pgxRow) (models.PDCAllocation, error) {
	var m models.PDCAllocation
	err := row.Scan(
		&m.AllocationID,
		&m.AllocationNumber,
		&m.StatementLineID,
		&m.AllocationDate,
		&m.TotalAmount,
		&m.Status,
		&m.Reason,
		&m.ConfirmedAt,
		&m.ConfirmedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanAllocationLine(row pgxRow) (models.PDCAllocationLine, error) {
	var m models.PDCAllocationLine
	err := row.Scan(
		&m.AllocationLineID,
		&m.AllocationID,
		&m.PDCID,
		&m.Amount,
		&m.Notes,
	)
	return m, err
}

func scanAmbiguousLog(row pgxRow) (models.AmbiguousMatchLog, error) {
	var m models.AmbiguousMatchLog
	err := row.Scan(
		&m.LogID,
		&m.StatementLineID,
		&m.DetectedAt,
		&m.CandidatePDCIDs,
		&m.Amount,
		&m.Date,
		&m.ToleranceDays,
		&m.Reference,
		&m.Resolution,
		&m.ResolvedAt,
		&m.ResolvedBy,
		&m.AllocationID,
		&m.Notes,
	)
	return m, err
}

// FindAllocationByID retrieves an allocation with its lines.
func (r *PgxAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.PDCAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM pdc_allocations WHERE allocation_id = $1;`

	m, err := scanAllocation(r.Pool.QueryRow(ctx, query, allocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find allocation %s: %w", allocationID, err)
	}
	alloc := mapping.ToDomainAllocation(m)

	lines, err := r.findAllocationLines(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	alloc.Lines = lines
	return &alloc, nil
}

func (r *PgxAllocationRepository) findAllocationLines(ctx context.Context, allocationID string) ([]domain.PDCAllocationLine, error) {
	query := `SELECT ` + allocationLineColumns + ` FROM pdc_allocation_lines WHERE allocation_id = $1 ORDER BY allocation_line_id;`

	rows, err := r.Pool.Query(ctx, query, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for allocation %s: %w", allocationID, err)
	}
	defer rows.Close()

	lines := []domain.PDCAllocationLine{}
	for rows.Next() {
		m, err := scanAllocationLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainAllocationLine(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating allocation line rows: %w", rows.Err())
	}
	return lines, nil
}

// ListAllocations retrieves the allocations against a statement line.
func (r *PgxAllocationRepository) ListAllocations(ctx context.Context, statementLineID string) ([]domain.PDCAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM pdc_allocations WHERE statement_line_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, statementLineID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations for line %s: %w", statementLineID, err)
	}
	defer rows.Close()

	allocations := []domain.PDCAllocation{}
	for rows.Next() {
		m, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, mapping.ToDomainAllocation(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating allocation rows: %w", rows.Err())
	}

	for i := range allocations {
		lines, err := r.findAllocationLines(ctx, allocations[i].AllocationID)
		if err != nil {
			return nil, err
		}
		allocations[i].Lines = lines
	}
	return allocations, nil
}

// PDCsInActiveAllocations returns which of the given cheques already sit in
// a draft or confirmed allocation.
func (r *PgxAllocationRepository) PDCsInActiveAllocations(ctx context.Context, pdcIDs []string) (map[string]bool, error) {
	if len(pdcIDs) == 0 {
		return map[string]bool{}, nil
	}

	query := `
		SELECT DISTINCT l.pdc_id
		FROM pdc_allocation_lines l
		JOIN pdc_allocations a ON a.allocation_id = l.allocation_id
		WHERE l.pdc_id = ANY($1) AND a.status IN ('DRAFT', 'CONFIRMED');
	`

	rows, err := r.Pool.Query(ctx, query, pdcIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query active allocations: %w", err)
	}
	defer rows.Close()

	active := make(map[string]bool, len(pdcIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan active allocation row: %w", err)
		}
		active[id] = true
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating active allocation rows: %w", rows.Err())
	}
	return active, nil
}

// FindAmbiguousLogByLine retrieves the most recent log for a statement line.
func (r *PgxAllocationRepository) FindAmbiguousLogByLine(ctx context.Context, statementLineID string) (*domain.AmbiguousMatchLog, error) {
	query := `SELECT ` + ambiguousLogColumns + ` FROM ambiguous_match_logs WHERE statement_line_id = $1 ORDER BY detected_at DESC LIMIT 1;`

	m, err := scanAmbiguousLog(r.Pool.QueryRow(ctx, query, statementLineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ambiguous-match log for line %s: %w", statementLineID, err)
	}
	d := mapping.ToDomainAmbiguousLog(m)
	return &d, nil
}

// ListPendingAmbiguousLogs retrieves unresolved logs oldest-first with token
// pagination keyed on detection time.
func (r *PgxAllocationRepository) ListPendingAmbiguousLogs(ctx context.Context, limit int, nextToken string) ([]domain.AmbiguousMatchLog, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + ambiguousLogColumns + ` FROM ambiguous_match_logs WHERE resolution = 'PENDING'`
	args := []any{}
	if nextToken != "" {
		lastDetectedAt, err := pagination.DecodeDateBasedToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, lastDetectedAt)
		query += fmt.Sprintf(` AND detected_at > $%d`, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY detected_at LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query pending ambiguous-match logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.AmbiguousMatchLog{}
	for rows.Next() {
		m, err := scanAmbiguousLog(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan ambiguous-match log row: %w", err)
		}
		logs = append(logs, mapping.ToDomainAmbiguousLog(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating ambiguous-match log rows: %w", rows.Err())
	}

	var token string
	if len(logs) > limit {
		logs = logs[:limit]
		token = pagination.EncodeDateBasedToken(logs[len(logs)-1].DetectedAt)
	}
	return logs, token, nil
}

// NextAllocationNumber reserves the next sequential allocation number.
func (r *PgxAllocationRepository) NextAllocationNumber(ctx context.Context) (string, error) {
	number, err := nextNumber(ctx, r.Pool, "allocation_number_seq", "ALC")
	if err != nil {
		return "", fmt.Errorf("failed to reserve allocation number: %w", err)
	}
	return number, nil
}

// SaveAllocation persists an allocation with its lines in one transaction.
func (r *PgxAllocationRepository) SaveAllocation(ctx context.Context, alloc domain.PDCAllocation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelAllocation(alloc)
	query := `
		INSERT INTO pdc_allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.AllocationID,
		m.AllocationNumber,
		m.StatementLineID,
		m.AllocationDate,
		m.TotalAmount,
		m.Status,
		m.Reason,
		m.ConfirmedAt,
		m.ConfirmedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: allocation %s already exists", apperrors.ErrDuplicate, m.AllocationNumber)
		}
		return fmt.Errorf("failed to save allocation %s: %w", m.AllocationID, err)
	}

	lineQuery := `
		INSERT INTO pdc_allocation_lines (` + allocationLineColumns + `)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, line := range alloc.Lines {
		lm := mapping.ToModelAllocationLine(line)
		batch.Queue(lineQuery, lm.AllocationLineID, lm.AllocationID, lm.PDCID, lm.Amount, lm.Notes)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert allocation lines: %w", err)
	}
	return r.Commit(ctx, tx)
}

// UpdateAllocationStatus moves an allocation between workflow states,
// stamping confirmation metadata when the target state is CONFIRMED.
func (r *PgxAllocationRepository) UpdateAllocationStatus(ctx context.Context, allocationID string, status domain.AllocationStatus, userID string, now time.Time) error {
	query := `
		UPDATE pdc_allocations
		SET status = $2,
		    confirmed_at = CASE WHEN $2 = 'CONFIRMED' THEN $3 ELSE confirmed_at END,
		    confirmed_by = CASE WHEN $2 = 'CONFIRMED' THEN $4 ELSE confirmed_by END,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE allocation_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, allocationID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of allocation %s: %w", allocationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveAmbiguousLog records an abstained auto-match. A rerun against the same
// line replaces its pending log rather than stacking duplicates.
func (r *PgxAllocationRepository) SaveAmbiguousLog(ctx context.Context, log domain.AmbiguousMatchLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM ambiguous_match_logs WHERE statement_line_id = $1 AND resolution = 'PENDING';`,
		log.StatementLineID); err != nil {
		return fmt.Errorf("failed to replace pending log for line %s: %w", log.StatementLineID, err)
	}

	m := mapping.ToModelAmbiguousLog(log)
	query := `
		INSERT INTO ambiguous_match_logs (` + ambiguousLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.LogID,
		m.StatementLineID,
		m.DetectedAt,
		m.CandidatePDCIDs,
		m.Amount,
		m.Date,
		m.ToleranceDays,
		m.Reference,
		m.Resolution,
		m.ResolvedAt,
		m.ResolvedBy,
		m.AllocationID,
		m.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save ambiguous-match log %s: %w", m.LogID, err)
	}
	return r.Commit(ctx, tx)
}

// ResolveAmbiguousLog marks a pending log allocated or rejected.
func (r *PgxAllocationRepository) ResolveAmbiguousLog(ctx context.Context, logID string, resolution domain.MatchResolution, allocationID *string, userID string, now time.Time) error {
	query := `
		UPDATE ambiguous_match_logs
		SET resolution = $2, resolved_at = $3, resolved_by = $4, allocation_id = $5
		WHERE log_id = $1 AND resolution = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, logID, string(resolution), now, userID, allocationID)
	if err != nil {
		return fmt.Errorf("failed to resolve ambiguous-match log %s: %w", logID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: log %s is not pending", apperrors.ErrConflict, logID)
	}
	return nil
}
