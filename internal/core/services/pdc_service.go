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
	ErrPDCNotReceived    = errors.New("cheque is not in received state")
	ErrPDCNotOutstanding = errors.New("cheque is not deposited and in clearing")
	ErrPDCNotBounceable  = errors.New("cheque cannot bounce from its current state")
	ErrPDCNotReplaceable = errors.New("only bounced or returned cheques can be replaced")
	ErrPDCReconciled     = errors.New("cheque is reconciled against a statement line")
	ErrTenantInactive    = errors.New("tenant is inactive")
	ErrMappingMissing    = errors.New("required account mapping is not configured")
)

// pdcService drives the post-dated cheque lifecycle. Every state change that
// moves value posts a journal entry through the ledger engine; the service
// itself never touches balances.
type pdcService struct {
	pdcRepo       portsrepo.PDCRepositoryFacade
	mappingRepo   portsrepo.MappingReader
	statementRepo portsrepo.StatementReader
	accountRepo   portsrepo.AccountReader
	journalSvc    portssvc.JournalSvcFacade
}

// NewPDCService creates a new PDC service.
func NewPDCService(
	pdcRepo portsrepo.PDCRepositoryFacade,
	mappingRepo portsrepo.MappingReader,
	statementRepo portsrepo.StatementReader,
	accountRepo portsrepo.AccountReader,
	journalSvc portssvc.JournalSvcFacade,
) portssvc.PDCSvcFacade {
	return &pdcService{
		pdcRepo:       pdcRepo,
		mappingRepo:   mappingRepo,
		statementRepo: statementRepo,
		accountRepo:   accountRepo,
		journalSvc:    journalSvc,
	}
}

var _ portssvc.PDCSvcFacade = (*pdcService)(nil)

// mappedAccountID resolves a transaction type to its configured GL account
// and verifies the account is usable.
func (s *pdcService) mappedAccountID(ctx context.Context, txType domain.MappingTransactionType) (string, error) {
	m, err := s.mappingRepo.FindMappingByType(ctx, txType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrMappingMissing, txType)
		}
		return "", fmt.Errorf("failed to resolve mapping %s: %w", txType, err)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, m.AccountID)
	if err != nil {
		return "", fmt.Errorf("failed to find mapped account for %s: %w", txType, err)
	}
	if !account.IsActive {
		return "", fmt.Errorf("%w: mapped account %s for %s", ErrAccountInactive, account.Code, txType)
	}
	return m.AccountID, nil
}

// postLifecycleEntry creates and posts a system journal entry for a cheque
// transition.
func (s *pdcService) postLifecycleEntry(ctx context.Context, cheque *domain.PDCCheque, date time.Time, description string, lines []dto.JournalLineRequest, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalSvc.CreateEntry(ctx, dto.CreateJournalEntryRequest{
		Date:        date,
		Reference:   cheque.ChequeNumber,
		Description: description,
		EntryType:   domain.EntryTypeStandard,
		Source:      domain.SourcePDC,
		SourceID:    cheque.PDCID,
		Lines:       lines,
	}, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry for cheque %s: %w", cheque.PDCNumber, err)
	}
	posted, err := s.journalSvc.PostEntry(ctx, entry.EntryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to post entry for cheque %s: %w", cheque.PDCNumber, err)
	}
	return posted, nil
}

// activeTenant loads a tenant and requires it active.
func (s *pdcService) activeTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.pdcRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	if !tenant.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrTenantInactive, tenant.Name)
	}
	return tenant, nil
}

// CreatePDC registers a received cheque. Identity is the composite of cheque
// number, bank, date, amount and tenant; a duplicate is rejected.
func (s *pdcService) CreatePDC(ctx context.Context, req dto.CreatePDCRequest, creatorUserID string) (*domain.PDCCheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: cheque amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.activeTenant(ctx, req.TenantID); err != nil {
		return nil, err
	}

	number, err := s.pdcRepo.NextPDCNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve cheque tracking number: %w", err)
	}

	now := time.Now().UTC()
	receivedDate := req.ReceivedDate
	if receivedDate.IsZero() {
		receivedDate = now.Truncate(24 * time.Hour)
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = domain.PurposeRent
	}

	cheque := domain.PDCCheque{
		PDCID:         uuid.NewString(),
		PDCNumber:     number,
		ChequeNumber:  req.ChequeNumber,
		BankName:      req.BankName,
		ChequeDate:    req.ChequeDate,
		Amount:        req.Amount,
		TenantID:      req.TenantID,
		DrawerName:    req.DrawerName,
		Purpose:       purpose,
		Status:        domain.PDCReceived,
		DepositStatus: domain.DepositPending,
		ReceivedDate:  receivedDate,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.pdcRepo.SavePDC(ctx, cheque); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: cheque %s from %s already registered", apperrors.ErrDuplicate, req.ChequeNumber, req.BankName)
		}
		logger.Error("Failed to save cheque", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save cheque: %w", err)
	}
	logger.Info("Cheque registered", slog.String("pdc_id", cheque.PDCID), slog.String("pdc_number", cheque.PDCNumber))
	return &cheque, nil
}

// GetPDCByID retrieves a cheque.
func (s *pdcService) GetPDCByID(ctx context.Context, pdcID string) (*domain.PDCCheque, error) {
	cheque, err := s.pdcRepo.FindPDCByID(ctx, pdcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	return cheque, nil
}

// ListPDCs retrieves a paginated list of cheques.
func (s *pdcService) ListPDCs(ctx context.Context, params dto.ListPDCsParams) (*dto.ListPDCsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	pdcs, nextToken, err := s.pdcRepo.ListPDCs(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	return &dto.ListPDCsResponse{
		PDCs:      dto.ToPDCResponses(pdcs),
		NextToken: nextToken,
	}, nil
}

// DepositPDC hands a received cheque to the bank. Value moves from the
// tenant's receivable into the PDC control account; the bank GL is not
// touched until the cheque clears.
func (s *pdcService) DepositPDC(ctx context.Context, pdcID string, req dto.DepositPDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cheque, err := s.pdcRepo.FindPDCByID(ctx, pdcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	if cheque.Status != domain.PDCReceived {
		return nil, fmt.Errorf("%w: cheque %s is %s", ErrPDCNotReceived, cheque.PDCNumber, cheque.Status)
	}
	if _, err := s.statementRepo.FindBankAccountByID(ctx, req.BankAccountID); err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
	}

	tenant, err := s.activeTenant(ctx, cheque.TenantID)
	if err != nil {
		return nil, err
	}
	controlAccountID, err := s.mappedAccountID(ctx, domain.MappingPDCControl)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	depositDate := now.Truncate(24 * time.Hour)
	if req.DepositDate != nil {
		depositDate = *req.DepositDate
	}

	description := fmt.Sprintf("PDC deposit: cheque %s, %s", cheque.ChequeNumber, tenant.Name)
	entry, err := s.postLifecycleEntry(ctx, cheque, depositDate, description, []dto.JournalLineRequest{
		{AccountID: controlAccountID, Description: description, Debit: cheque.Amount},
		{AccountID: tenant.ARAccountID, Description: description, Credit: cheque.Amount},
	}, requestingUserID)
	if err != nil {
		return nil, err
	}

	cheque.Status = domain.PDCDeposited
	cheque.DepositStatus = domain.DepositInClearing
	cheque.DepositedDate = &depositDate
	cheque.DepositedToBankID = req.BankAccountID
	cheque.DepositEntryID = entry.EntryID
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = requestingUserID
	if err := s.pdcRepo.UpdatePDC(ctx, *cheque); err != nil {
		logger.Error("Failed to update cheque after deposit", slog.String("error", err.Error()), slog.String("pdc_id", pdcID))
		return nil, fmt.Errorf("failed to update cheque: %w", err)
	}
	logger.Info("Cheque deposited", slog.String("pdc_id", pdcID), slog.String("entry_id", entry.EntryID))
	return cheque, nil
}

// ClearPDC confirms the bank honored a deposited cheque. Value moves from
// the PDC control account into the bank GL.
func (s *pdcService) ClearPDC(ctx context.Context, pdcID string, req dto.ClearPDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cheque, err := s.pdcRepo.FindPDCByID(ctx, pdcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	if !cheque.IsOutstanding() {
		return nil, fmt.Errorf("%w: cheque %s is %s/%s", ErrPDCNotOutstanding, cheque.PDCNumber, cheque.Status, cheque.DepositStatus)
	}

	bankAccount, err := s.statementRepo.FindBankAccountByID(ctx, cheque.DepositedToBankID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", cheque.DepositedToBankID, err)
	}
	controlAccountID, err := s.mappedAccountID(ctx, domain.MappingPDCControl)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	clearedDate := now.Truncate(24 * time.Hour)
	if req.ClearedDate != nil {
		clearedDate = *req.ClearedDate
	}

	description := fmt.Sprintf("PDC clearing: cheque %s", cheque.ChequeNumber)
	entry, err := s.postLifecycleEntry(ctx, cheque, clearedDate, description, []dto.JournalLineRequest{
		{AccountID: bankAccount.GLAccountID, Description: description, Debit: cheque.Amount},
		{AccountID: controlAccountID, Description: description, Credit: cheque.Amount},
	}, requestingUserID)
	if err != nil {
		return nil, err
	}

	cheque.Status = domain.PDCCleared
	cheque.DepositStatus = domain.DepositCleared
	cheque.ClearedDate = &clearedDate
	cheque.ClearingReference = req.ClearingReference
	cheque.ClearingEntryID = entry.EntryID
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = requestingUserID
	if err := s.pdcRepo.UpdatePDC(ctx, *cheque); err != nil {
		logger.Error("Failed to update cheque after clearing", slog.String("error", err.Error()), slog.String("pdc_id", pdcID))
		return nil, fmt.Errorf("failed to update cheque: %w", err)
	}
	logger.Info("Cheque cleared", slog.String("pdc_id", pdcID), slog.String("entry_id", entry.EntryID))
	return cheque, nil
}

// BouncePDC records a refused cheque. The receivable is restored from
// whichever account currently holds the value: the bank GL when the cheque
// had cleared, the PDC control account while it was still in clearing.
// Bounce charges, when given, are billed to the tenant against the
// configured charges account in the same entry.
func (s *pdcService) BouncePDC(ctx context.Context, pdcID string, req dto.BouncePDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Reason == "" {
		return nil, ErrReasonRequired
	}
	if req.BounceCharges.IsNegative() {
		return nil, fmt.Errorf("%w: bounce charges cannot be negative", apperrors.ErrValidation)
	}

	cheque, err := s.pdcRepo.FindPDCByID(ctx, pdcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	if !cheque.CanBounce() {
		return nil, fmt.Errorf("%w: cheque %s is %s", ErrPDCNotBounceable, cheque.PDCNumber, cheque.Status)
	}
	if cheque.Reconciled {
		return nil, fmt.Errorf("%w: cheque %s", ErrPDCReconciled, cheque.PDCNumber)
	}

	tenant, err := s.activeTenant(ctx, cheque.TenantID)
	if err != nil {
		return nil, err
	}

	var creditAccountID string
	if cheque.Status == domain.PDCCleared {
		bankAccount, err := s.statementRepo.FindBankAccountByID(ctx, cheque.DepositedToBankID)
		if err != nil {
			return nil, fmt.Errorf("failed to find bank account %s: %w", cheque.DepositedToBankID, err)
		}
		creditAccountID = bankAccount.GLAccountID
	} else {
		creditAccountID, err = s.mappedAccountID(ctx, domain.MappingPDCControl)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	bounceDate := now.Truncate(24 * time.Hour)
	if req.BounceDate != nil {
		bounceDate = *req.BounceDate
	}

	description := fmt.Sprintf("PDC bounce: cheque %s, %s", cheque.ChequeNumber, req.Reason)
	lines := []dto.JournalLineRequest{
		{AccountID: tenant.ARAccountID, Description: description, Debit: cheque.Amount},
		{AccountID: creditAccountID, Description: description, Credit: cheque.Amount},
	}
	if req.BounceCharges.IsPositive() {
		chargesAccountID, err := s.mappedAccountID(ctx, domain.MappingBounceCharges)
		if err != nil {
			return nil, err
		}
		chargeDescription := fmt.Sprintf("Bounce charges: cheque %s", cheque.ChequeNumber)
		lines = append(lines,
			dto.JournalLineRequest{AccountID: tenant.ARAccountID, Description: chargeDescription, Debit: req.BounceCharges},
			dto.JournalLineRequest{AccountID: chargesAccountID, Description: chargeDescription, Credit: req.BounceCharges},
		)
	}

	entry, err := s.postLifecycleEntry(ctx, cheque, bounceDate, description, lines, requestingUserID)
	if err != nil {
		return nil, err
	}

	cheque.Status = domain.PDCBounced
	cheque.DepositStatus = domain.DepositBounced
	cheque.BounceDate = &bounceDate
	cheque.BounceReason = req.Reason
	cheque.BounceCharges = req.BounceCharges
	cheque.BounceEntryID = entry.EntryID
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = requestingUserID
	if err := s.pdcRepo.UpdatePDC(ctx, *cheque); err != nil {
		logger.Error("Failed to update cheque after bounce", slog.String("error", err.Error()), slog.String("pdc_id", pdcID))
		return nil, fmt.Errorf("failed to update cheque: %w", err)
	}
	logger.Info("Cheque bounced", slog.String("pdc_id", pdcID), slog.String("entry_id", entry.EntryID), slog.String("reason", req.Reason))
	return cheque, nil
}

// ReturnPDC hands an undeposited cheque back to the tenant. No value has
// moved yet, so no entry is posted.
func (s *pdcService) ReturnPDC(ctx context.Context, pdcID string, requestingUserID string) (*domain.PDCCheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cheque, err := s.pdcRepo.FindPDCByID(ctx, pdcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	if cheque.Status != domain.PDCReceived {
		return nil, fmt.Errorf("%w: cheque %s is %s", ErrPDCNotReceived, cheque.PDCNumber, cheque.Status)
	}

	now := time.Now().UTC()
	cheque.Status = domain.PDCReturned
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = requestingUserID
	if err := s.pdcRepo.UpdatePDC(ctx, *cheque); err != nil {
		logger.Error("Failed to return cheque", slog.String("error", err.Error()), slog.String("pdc_id", pdcID))
		return nil, fmt.Errorf("failed to return cheque: %w", err)
	}
	logger.Info("Cheque returned to tenant", slog.String("pdc_id", pdcID))
	return cheque, nil
}

// ReplacePDC registers a new cheque in place of a bounced or returned one
// and links the two.
func (s *pdcService) ReplacePDC(ctx context.Context, pdcID string, req dto.ReplacePDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	old, err := s.pdcRepo.FindPDCByID(ctx, pdcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	if old.Status != domain.PDCBounced && old.Status != domain.PDCReturned {
		return nil, fmt.Errorf("%w: cheque %s is %s", ErrPDCNotReplaceable, old.PDCNumber, old.Status)
	}

	replacement, err := s.CreatePDC(ctx, dto.CreatePDCRequest{
		ChequeNumber: req.ChequeNumber,
		BankName:     req.BankName,
		ChequeDate:   req.ChequeDate,
		Amount:       req.Amount,
		TenantID:     old.TenantID,
		DrawerName:   old.DrawerName,
		Purpose:      old.Purpose,
		Notes:        req.Notes,
	}, requestingUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	old.Status = domain.PDCReplaced
	old.ReplacedByID = replacement.PDCID
	old.LastUpdatedAt = now
	old.LastUpdatedBy = requestingUserID
	if err := s.pdcRepo.UpdatePDC(ctx, *old); err != nil {
		logger.Error("Failed to link replacement cheque", slog.String("error", err.Error()), slog.String("pdc_id", pdcID))
		return nil, fmt.Errorf("failed to link replacement cheque: %w", err)
	}
	logger.Info("Cheque replaced", slog.String("pdc_id", pdcID), slog.String("replacement_id", replacement.PDCID))
	return replacement, nil
}

// CancelPDC voids a cheque that was never deposited.
func (s *pdcService) CancelPDC(ctx context.Context, pdcID string, requestingUserID string) (*domain.PDCCheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cheque, err := s.pdcRepo.FindPDCByID(ctx, pdcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", pdcID, err)
	}
	if cheque.Status != domain.PDCReceived {
		return nil, fmt.Errorf("%w: cheque %s is %s", ErrPDCNotReceived, cheque.PDCNumber, cheque.Status)
	}

	now := time.Now().UTC()
	cheque.Status = domain.PDCCancelled
	cheque.LastUpdatedAt = now
	cheque.LastUpdatedBy = requestingUserID
	if err := s.pdcRepo.UpdatePDC(ctx, *cheque); err != nil {
		logger.Error("Failed to cancel cheque", slog.String("error", err.Error()), slog.String("pdc_id", pdcID))
		return nil, fmt.Errorf("failed to cancel cheque: %w", err)
	}
	logger.Info("Cheque cancelled", slog.String("pdc_id", pdcID))
	return cheque, nil
}

// CreateTenant registers a tenant and its receivable account binding.
func (s *pdcService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	arAccount, err := s.accountRepo.FindAccountByID(ctx, req.ARAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find AR account %s: %w", req.ARAccountID, err)
	}
	if arAccount.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: receivable account must be an asset account", apperrors.ErrValidation)
	}
	if !arAccount.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrAccountInactive, arAccount.Code)
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:    uuid.NewString(),
		Name:        req.Name,
		ARAccountID: req.ARAccountID,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.pdcRepo.SaveTenant(ctx, tenant); err != nil {
		logger.Error("Failed to save tenant", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}
	logger.Info("Tenant registered", slog.String("tenant_id", tenant.TenantID), slog.String("name", tenant.Name))
	return &tenant, nil
}

// GetTenantByID retrieves a tenant.
func (s *pdcService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.pdcRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}
	return tenant, nil
}

// ListTenants retrieves all tenants.
func (s *pdcService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return s.pdcRepo.ListTenants(ctx)
}
