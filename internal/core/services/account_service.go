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

var (
	ErrAccountInactive      = errors.New("account is inactive")
	ErrAccountHasChildren   = errors.New("account has active child accounts")
	ErrOpeningBalanceLocked = errors.New("opening balance is locked after first posting")
	ErrParentTypeMismatch   = errors.New("child account type must match parent account type")
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account after structural validation.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", apperrors.ErrValidation)
	}
	// Income and expense accounts accumulate from zero each year; an opening
	// balance on one would fabricate revenue or cost out of thin air.
	if (req.AccountType == domain.Income || req.AccountType == domain.Expense) && !req.OpeningBalance.IsZero() {
		return nil, fmt.Errorf("%w: %s accounts cannot have an opening balance", apperrors.ErrValidation, req.AccountType)
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}

	parentAccountID := ""
	if req.ParentAccountID != nil {
		parentAccountID = *req.ParentAccountID
	}
	if parentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, parentAccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent account %s: %w", parentAccountID, err)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: parent account %s", ErrAccountInactive, parent.AccountID)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent %s is %s", ErrParentTypeMismatch, parent.AccountID, parent.AccountType)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		Code:             req.Code,
		Name:             req.Name,
		AccountType:      req.AccountType,
		AccountCategory:  req.AccountCategory,
		ParentAccountID:  parentAccountID,
		IsContra:         req.IsContra,
		IsCashAccount:    req.IsCashAccount,
		OverdraftAllowed: req.OverdraftAllowed,
		OpeningBalance:   req.OpeningBalance,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a specific account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountByCode retrieves an account by its unique code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find account with code %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts retrieves accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount updates mutable account details. Changing a locked opening
// balance is refused; the correction path is an adjusting journal entry.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountCategory != nil {
		account.AccountCategory = *req.AccountCategory
	}
	if req.IsCashAccount != nil {
		account.IsCashAccount = *req.IsCashAccount
	}
	if req.OverdraftAllowed != nil {
		account.OverdraftAllowed = *req.OverdraftAllowed
	}
	if req.OpeningBalance != nil {
		if account.OpeningBalanceLocked {
			return nil, fmt.Errorf("%w: account %s", ErrOpeningBalanceLocked, accountID)
		}
		if req.OpeningBalance.IsNegative() {
			return nil, fmt.Errorf("%w: opening balance cannot be negative", apperrors.ErrValidation)
		}
		if (account.AccountType == domain.Income || account.AccountType == domain.Expense) && !req.OpeningBalance.IsZero() {
			return nil, fmt.Errorf("%w: %s accounts cannot have an opening balance", apperrors.ErrValidation, account.AccountType)
		}
		account.OpeningBalance = *req.OpeningBalance
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account inactive. Accounts with active children
// or a non-zero balance stay active.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if !account.IsActive {
		return nil
	}

	hasChildren, err := s.accountRepo.HasActiveChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check children of account %s: %w", accountID, err)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s", ErrAccountHasChildren, accountID)
	}
	if !account.CurrentBalance().IsZero() {
		return fmt.Errorf("%w: account %s has a non-zero balance", apperrors.ErrConflict, accountID)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
