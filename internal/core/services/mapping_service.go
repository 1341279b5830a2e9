package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
)

var ErrMappingAccountNotLeaf = errors.New("mapped account must be a leaf account")

// mappingService manages the transaction-type to GL-account bindings that
// generated postings resolve through.
type mappingService struct {
	mappingRepo portsrepo.MappingRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewMappingService creates a new mapping service.
func NewMappingService(mappingRepo portsrepo.MappingRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.MappingSvcFacade {
	return &mappingService{mappingRepo: mappingRepo, accountRepo: accountRepo}
}

var _ portssvc.MappingSvcFacade = (*mappingService)(nil)

// UpsertMapping binds a transaction type to an account, replacing any
// previous binding for that type. The account must be an active leaf.
func (s *mappingService) UpsertMapping(ctx context.Context, req dto.UpsertMappingRequest, requestingUserID string) (*domain.AccountMapping, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrAccountInactive, account.Code)
	}
	hasChildren, err := s.accountRepo.HasActiveChildren(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check account children: %w", err)
	}
	if hasChildren {
		return nil, fmt.Errorf("%w: %s", ErrMappingAccountNotLeaf, account.Code)
	}

	now := time.Now().UTC()
	mapping := domain.AccountMapping{
		MappingID:       uuid.NewString(),
		TransactionType: req.TransactionType,
		AccountID:       req.AccountID,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if existing, err := s.mappingRepo.FindMappingByType(ctx, req.TransactionType); err == nil {
		mapping.MappingID = existing.MappingID
		mapping.CreatedAt = existing.CreatedAt
		mapping.CreatedBy = existing.CreatedBy
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up existing mapping: %w", err)
	}

	if err := s.mappingRepo.SaveMapping(ctx, mapping); err != nil {
		logger.Error("Failed to save mapping", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save mapping: %w", err)
	}
	logger.Info("Account mapping saved",
		slog.String("transaction_type", string(req.TransactionType)),
		slog.String("account_id", req.AccountID))
	return &mapping, nil
}

// ListMappings retrieves all configured mappings.
func (s *mappingService) ListMappings(ctx context.Context) ([]domain.AccountMapping, error) {
	return s.mappingRepo.ListMappings(ctx)
}

// ValidateRequiredMappings checks every required mapping resolves to an
// active leaf account. Run at setup and before enabling PDC operations.
func (s *mappingService) ValidateRequiredMappings(ctx context.Context) (*dto.MappingValidationResult, error) {
	result := &dto.MappingValidationResult{Valid: true}

	for _, txType := range domain.RequiredMappings {
		mapping, err := s.mappingRepo.FindMappingByType(ctx, txType)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				result.Valid = false
				result.Problems = append(result.Problems, fmt.Sprintf("%s: no mapping configured", txType))
				continue
			}
			return nil, fmt.Errorf("failed to look up mapping %s: %w", txType, err)
		}
		account, err := s.accountRepo.FindAccountByID(ctx, mapping.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				result.Valid = false
				result.Problems = append(result.Problems, fmt.Sprintf("%s: mapped account %s does not exist", txType, mapping.AccountID))
				continue
			}
			return nil, fmt.Errorf("failed to find mapped account for %s: %w", txType, err)
		}
		if !account.IsActive {
			result.Valid = false
			result.Problems = append(result.Problems, fmt.Sprintf("%s: account %s is inactive", txType, account.Code))
			continue
		}
		hasChildren, err := s.accountRepo.HasActiveChildren(ctx, mapping.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check account children for %s: %w", txType, err)
		}
		if hasChildren {
			result.Valid = false
			result.Problems = append(result.Problems, fmt.Sprintf("%s: account %s is not a leaf", txType, account.Code))
		}
	}
	return result, nil
}
