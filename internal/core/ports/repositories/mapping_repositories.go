package repositories

import (
	"context"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// MappingReader defines read operations for account mappings.
type MappingReader interface {
	// FindMappingByType returns the active mapping for a transaction type,
	// or ErrNotFound when none is configured.
	FindMappingByType(ctx context.Context, txType domain.MappingTransactionType) (*domain.AccountMapping, error)

	ListMappings(ctx context.Context) ([]domain.AccountMapping, error)
}

// MappingWriter defines write operations for account mappings.
type MappingWriter interface {
	// SaveMapping creates or replaces the mapping for its transaction type.
	SaveMapping(ctx context.Context, m domain.AccountMapping) error
}

// MappingRepositoryFacade combines mapping repository interfaces.
type MappingRepositoryFacade interface {
	MappingReader
	MappingWriter
}
