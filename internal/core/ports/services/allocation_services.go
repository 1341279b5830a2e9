package services

import (
	"context"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// AllocationReaderSvc defines read operations for allocations and logs.
type AllocationReaderSvc interface {
	GetAllocationByID(ctx context.Context, allocationID string) (*domain.PDCAllocation, error)
	ListPendingAmbiguousLogs(ctx context.Context, limit int, nextToken string) (*dto.ListAmbiguousLogsResponse, error)
}

// AllocationWriterSvc defines the manual resolution path for ambiguous
// matches: a draft allocation splits the statement line across cheques, and
// confirmation clears and matches them atomically.
type AllocationWriterSvc interface {
	CreateAllocation(ctx context.Context, req dto.CreateAllocationRequest, creatorUserID string) (*domain.PDCAllocation, error)

	// ConfirmAllocation applies a draft allocation: clears every allocated
	// cheque, marks the statement line matched, and resolves the pending
	// ambiguous-match log.
	ConfirmAllocation(ctx context.Context, allocationID string, requestingUserID string) (*domain.PDCAllocation, error)

	// RejectAmbiguousLog closes a pending log without allocating.
	RejectAmbiguousLog(ctx context.Context, logID string, requestingUserID string) error
}

// AllocationSvcFacade combines allocation service interfaces.
type AllocationSvcFacade interface {
	AllocationReaderSvc
	AllocationWriterSvc
}
