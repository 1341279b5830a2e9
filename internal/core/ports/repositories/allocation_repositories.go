package repositories

import (
	"context"
	"time"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// AllocationReader defines read operations for PDC allocations and
// ambiguous-match logs.
type AllocationReader interface {
	// FindAllocationByID retrieves an allocation with its lines.
	FindAllocationByID(ctx context.Context, allocationID string) (*domain.PDCAllocation, error)
	ListAllocations(ctx context.Context, statementLineID string) ([]domain.PDCAllocation, error)

	// PDCsInActiveAllocations returns which of the given cheques already sit
	// in a draft or confirmed allocation.
	PDCsInActiveAllocations(ctx context.Context, pdcIDs []string) (map[string]bool, error)

	FindAmbiguousLogByLine(ctx context.Context, statementLineID string) (*domain.AmbiguousMatchLog, error)
	ListPendingAmbiguousLogs(ctx context.Context, limit int, nextToken string) ([]domain.AmbiguousMatchLog, string, error)
}

// AllocationWriter defines write operations for allocations and logs.
type AllocationWriter interface {
	// NextAllocationNumber reserves the next sequential allocation number.
	NextAllocationNumber(ctx context.Context) (string, error)

	// SaveAllocation persists an allocation with its lines.
	SaveAllocation(ctx context.Context, alloc domain.PDCAllocation) error

	UpdateAllocationStatus(ctx context.Context, allocationID string, status domain.AllocationStatus, userID string, now time.Time) error

	// SaveAmbiguousLog records an abstained auto-match. One log per
	// statement line; a rerun replaces the pending log for that line.
	SaveAmbiguousLog(ctx context.Context, log domain.AmbiguousMatchLog) error

	// ResolveAmbiguousLog marks a pending log allocated or rejected.
	ResolveAmbiguousLog(ctx context.Context, logID string, resolution domain.MatchResolution, allocationID *string, userID string, now time.Time) error
}

// AllocationRepositoryFacade combines allocation repository interfaces.
type AllocationRepositoryFacade interface {
	AllocationReader
	AllocationWriter
}
