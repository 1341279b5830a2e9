package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	"github.com/crestlinehq/ledgerengine/internal/models"
	"github.com/crestlinehq/ledgerengine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mappingColumns = `mapping_id, transaction_type, account_id, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxMappingRepository struct {
	BaseRepository
}

// newPgxMappingRepository creates a new repository for transaction-type to
// account mappings.
func newPgxMappingRepository(pool *pgxpool.Pool) portsrepo.MappingRepositoryFacade {
	return &PgxMappingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MappingRepositoryFacade = (*PgxMappingRepository)(nil)

func scanMapping(row pgxRow) (models.AccountMapping, error) {
	var m models.AccountMapping
	err := row.Scan(
		&m.MappingID,
		&m.TransactionType,
		&m.AccountID,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindMappingByType returns the mapping for a transaction type, or
// ErrNotFound when none is configured.
func (r *PgxMappingRepository) FindMappingByType(ctx context.Context, txType domain.MappingTransactionType) (*domain.AccountMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM account_mappings WHERE transaction_type = $1;`

	m, err := scanMapping(r.Pool.QueryRow(ctx, query, string(txType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mapping for %s: %w", txType, err)
	}
	d := mapping.ToDomainAccountMapping(m)
	return &d, nil
}

// ListMappings retrieves all configured mappings ordered by transaction type.
func (r *PgxMappingRepository) ListMappings(ctx context.Context) ([]domain.AccountMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM account_mappings ORDER BY transaction_type;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	mappings := []domain.AccountMapping{}
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		mappings = append(mappings, mapping.ToDomainAccountMapping(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating mapping rows: %w", rows.Err())
	}
	return mappings, nil
}

// SaveMapping creates or replaces the mapping for its transaction type.
func (r *PgxMappingRepository) SaveMapping(ctx context.Context, d domain.AccountMapping) error {
	m := mapping.ToModelAccountMapping(d)
	query := `
		INSERT INTO account_mappings (` + mappingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (transaction_type) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			description = EXCLUDED.description,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MappingID,
		m.TransactionType,
		m.AccountID,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save mapping for %s: %w", m.TransactionType, err)
	}
	return nil
}
