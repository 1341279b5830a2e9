package services

import (
	"context"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// MappingSvcFacade manages the account mappings that route generated
// postings (PDC control, bounce charges, bank charges) to GL accounts.
type MappingSvcFacade interface {
	UpsertMapping(ctx context.Context, req dto.UpsertMappingRequest, requestingUserID string) (*domain.AccountMapping, error)
	ListMappings(ctx context.Context) ([]domain.AccountMapping, error)

	// ValidateRequiredMappings checks that every required mapping resolves
	// to an active leaf account.
	ValidateRequiredMappings(ctx context.Context) (*dto.MappingValidationResult, error)
}
