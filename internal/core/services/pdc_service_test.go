package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/core/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

type PDCServiceTestSuite struct {
	suite.Suite
	mockPDCRepo       *MockPDCRepository
	mockMappingRepo   *MockMappingRepository
	mockStatementRepo *MockStatementRepository
	mockAccountRepo   *MockAccountRepository
	mockJournalSvc    *MockJournalService
	service           portssvc.PDCSvcFacade
	tenant            domain.Tenant
	bankAccount       domain.BankAccount
	controlMapping    domain.AccountMapping
	controlAccount    domain.Account
	userID            string
}

func (suite *PDCServiceTestSuite) SetupTest() {
	suite.mockPDCRepo = new(MockPDCRepository)
	suite.mockMappingRepo = new(MockMappingRepository)
	suite.mockStatementRepo = new(MockStatementRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalSvc = new(MockJournalService)
	suite.service = services.NewPDCService(
		suite.mockPDCRepo,
		suite.mockMappingRepo,
		suite.mockStatementRepo,
		suite.mockAccountRepo,
		suite.mockJournalSvc,
	)

	suite.userID = uuid.NewString()
	suite.tenant = domain.Tenant{
		TenantID:    uuid.NewString(),
		Name:        "Unit 402 Tenant",
		ARAccountID: uuid.NewString(),
		IsActive:    true,
	}
	suite.bankAccount = domain.BankAccount{
		BankAccountID: uuid.NewString(),
		Name:          "Operating Account",
		GLAccountID:   uuid.NewString(),
		IsActive:      true,
	}
	suite.controlAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1250",
		Name:        "PDC Control",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.controlMapping = domain.AccountMapping{
		MappingID:       uuid.NewString(),
		TransactionType: domain.MappingPDCControl,
		AccountID:       suite.controlAccount.AccountID,
	}
}

func (suite *PDCServiceTestSuite) expectControlMapping() {
	mapping := suite.controlMapping
	account := suite.controlAccount
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingPDCControl).Return(&mapping, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
}

// expectLifecycleEntry wires CreateEntry + PostEntry and captures the request.
func (suite *PDCServiceTestSuite) expectLifecycleEntry(captured *dto.CreateJournalEntryRequest) *domain.JournalEntry {
	draft := domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.EntryDraft}
	posted := draft
	posted.Status = domain.EntryPosted
	suite.mockJournalSvc.On("CreateEntry", mock.Anything, mock.AnythingOfType("dto.CreateJournalEntryRequest"), suite.userID).
		Run(func(args mock.Arguments) {
			*captured = args.Get(1).(dto.CreateJournalEntryRequest)
		}).Return(&draft, nil).Once()
	suite.mockJournalSvc.On("PostEntry", mock.Anything, draft.EntryID, suite.userID).Return(&posted, nil).Once()
	return &posted
}

func (suite *PDCServiceTestSuite) receivedCheque() domain.PDCCheque {
	return domain.PDCCheque{
		PDCID:         uuid.NewString(),
		PDCNumber:     "PDC-000031",
		ChequeNumber:  "300112",
		BankName:      "Emirates NBD",
		ChequeDate:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(12000),
		TenantID:      suite.tenant.TenantID,
		Purpose:       domain.PurposeRent,
		Status:        domain.PDCReceived,
		DepositStatus: domain.DepositPending,
	}
}

func (suite *PDCServiceTestSuite) outstandingCheque() domain.PDCCheque {
	cheque := suite.receivedCheque()
	depositDate := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	cheque.Status = domain.PDCDeposited
	cheque.DepositStatus = domain.DepositInClearing
	cheque.DepositedDate = &depositDate
	cheque.DepositedToBankID = suite.bankAccount.BankAccountID
	cheque.DepositEntryID = uuid.NewString()
	return cheque
}

// --- CreatePDC ---

func (suite *PDCServiceTestSuite) TestCreatePDC_Success() {
	ctx := context.Background()
	tenant := suite.tenant
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, tenant.TenantID).Return(&tenant, nil).Once()
	suite.mockPDCRepo.On("NextPDCNumber", mock.Anything).Return("PDC-000031", nil).Once()

	var saved domain.PDCCheque
	suite.mockPDCRepo.On("SavePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.PDCCheque)
		}).Return(nil).Once()

	cheque, err := suite.service.CreatePDC(ctx, dto.CreatePDCRequest{
		ChequeNumber: "300112",
		BankName:     "Emirates NBD",
		ChequeDate:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(12000),
		TenantID:     tenant.TenantID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("PDC-000031", cheque.PDCNumber)
	suite.Equal(domain.PDCReceived, saved.Status)
	suite.Equal(domain.DepositPending, saved.DepositStatus)
	suite.Equal(domain.PurposeRent, saved.Purpose) // Default when not given
	suite.False(saved.ReceivedDate.IsZero())
	suite.Equal(suite.userID, saved.CreatedBy)
}

func (suite *PDCServiceTestSuite) TestCreatePDC_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.CreatePDC(ctx, dto.CreatePDCRequest{
		ChequeNumber: "300112",
		BankName:     "Emirates NBD",
		Amount:       decimal.Zero,
		TenantID:     suite.tenant.TenantID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPDCRepo.AssertNotCalled(suite.T(), "SavePDC", mock.Anything, mock.Anything)
}

func (suite *PDCServiceTestSuite) TestCreatePDC_InactiveTenant() {
	ctx := context.Background()
	inactive := suite.tenant
	inactive.IsActive = false
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, inactive.TenantID).Return(&inactive, nil).Once()

	_, err := suite.service.CreatePDC(ctx, dto.CreatePDCRequest{
		ChequeNumber: "300112",
		BankName:     "Emirates NBD",
		Amount:       decimal.NewFromInt(12000),
		TenantID:     inactive.TenantID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTenantInactive)
}

func (suite *PDCServiceTestSuite) TestCreatePDC_Duplicate() {
	ctx := context.Background()
	tenant := suite.tenant
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, tenant.TenantID).Return(&tenant, nil).Once()
	suite.mockPDCRepo.On("NextPDCNumber", mock.Anything).Return("PDC-000032", nil).Once()
	suite.mockPDCRepo.On("SavePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreatePDC(ctx, dto.CreatePDCRequest{
		ChequeNumber: "300112",
		BankName:     "Emirates NBD",
		Amount:       decimal.NewFromInt(12000),
		TenantID:     tenant.TenantID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- DepositPDC ---

func (suite *PDCServiceTestSuite) TestDepositPDC_Success() {
	ctx := context.Background()
	cheque := suite.receivedCheque()
	tenant := suite.tenant

	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()
	suite.mockStatementRepo.On("FindBankAccountByID", mock.Anything, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, tenant.TenantID).Return(&tenant, nil).Once()
	suite.expectControlMapping()

	var capturedReq dto.CreateJournalEntryRequest
	posted := suite.expectLifecycleEntry(&capturedReq)

	var updated domain.PDCCheque
	suite.mockPDCRepo.On("UpdatePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.PDCCheque)
		}).Return(nil).Once()

	depositDate := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	result, err := suite.service.DepositPDC(ctx, cheque.PDCID, dto.DepositPDCRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
		DepositDate:   &depositDate,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PDCDeposited, result.Status)
	suite.Equal(domain.DepositInClearing, updated.DepositStatus)
	suite.Equal(suite.bankAccount.BankAccountID, updated.DepositedToBankID)
	suite.Equal(posted.EntryID, updated.DepositEntryID)

	// Deposit moves value from the tenant receivable into PDC control.
	suite.Equal(domain.SourcePDC, capturedReq.Source)
	suite.Equal(cheque.PDCID, capturedReq.SourceID)
	suite.Require().Len(capturedReq.Lines, 2)
	suite.Equal(suite.controlAccount.AccountID, capturedReq.Lines[0].AccountID)
	suite.True(capturedReq.Lines[0].Debit.Equal(cheque.Amount))
	suite.Equal(tenant.ARAccountID, capturedReq.Lines[1].AccountID)
	suite.True(capturedReq.Lines[1].Credit.Equal(cheque.Amount))
}

func (suite *PDCServiceTestSuite) TestDepositPDC_NotReceived() {
	ctx := context.Background()
	cheque := suite.outstandingCheque()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()

	_, err := suite.service.DepositPDC(ctx, cheque.PDCID, dto.DepositPDCRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPDCNotReceived)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PDCServiceTestSuite) TestDepositPDC_MappingMissing() {
	ctx := context.Background()
	cheque := suite.receivedCheque()
	tenant := suite.tenant

	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()
	suite.mockStatementRepo.On("FindBankAccountByID", mock.Anything, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, tenant.TenantID).Return(&tenant, nil).Once()
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingPDCControl).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.DepositPDC(ctx, cheque.PDCID, dto.DepositPDCRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMappingMissing)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

// --- ClearPDC ---

func (suite *PDCServiceTestSuite) TestClearPDC_Success() {
	ctx := context.Background()
	cheque := suite.outstandingCheque()

	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()
	suite.mockStatementRepo.On("FindBankAccountByID", mock.Anything, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()
	suite.expectControlMapping()

	var capturedReq dto.CreateJournalEntryRequest
	posted := suite.expectLifecycleEntry(&capturedReq)
	suite.mockPDCRepo.On("UpdatePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).Return(nil).Once()

	clearedDate := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	result, err := suite.service.ClearPDC(ctx, cheque.PDCID, dto.ClearPDCRequest{
		ClearedDate:       &clearedDate,
		ClearingReference: "CLR-7301",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PDCCleared, result.Status)
	suite.Equal(domain.DepositCleared, result.DepositStatus)
	suite.Equal(posted.EntryID, result.ClearingEntryID)
	suite.Equal("CLR-7301", result.ClearingReference)

	// Clearing moves value from PDC control into the bank GL.
	suite.Require().Len(capturedReq.Lines, 2)
	suite.Equal(suite.bankAccount.GLAccountID, capturedReq.Lines[0].AccountID)
	suite.True(capturedReq.Lines[0].Debit.Equal(cheque.Amount))
	suite.Equal(suite.controlAccount.AccountID, capturedReq.Lines[1].AccountID)
	suite.True(capturedReq.Lines[1].Credit.Equal(cheque.Amount))
}

func (suite *PDCServiceTestSuite) TestClearPDC_NotOutstanding() {
	ctx := context.Background()
	cheque := suite.receivedCheque()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()

	_, err := suite.service.ClearPDC(ctx, cheque.PDCID, dto.ClearPDCRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPDCNotOutstanding)
}

// --- BouncePDC ---

func (suite *PDCServiceTestSuite) TestBouncePDC_InClearingCreditsControl() {
	ctx := context.Background()
	cheque := suite.outstandingCheque()
	tenant := suite.tenant

	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, tenant.TenantID).Return(&tenant, nil).Once()
	suite.expectControlMapping()

	var capturedReq dto.CreateJournalEntryRequest
	posted := suite.expectLifecycleEntry(&capturedReq)

	var updated domain.PDCCheque
	suite.mockPDCRepo.On("UpdatePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.PDCCheque)
		}).Return(nil).Once()

	result, err := suite.service.BouncePDC(ctx, cheque.PDCID, dto.BouncePDCRequest{
		Reason: "insufficient funds",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PDCBounced, result.Status)
	suite.Equal(domain.DepositBounced, updated.DepositStatus)
	suite.Equal("insufficient funds", updated.BounceReason)
	suite.Equal(posted.EntryID, updated.BounceEntryID)

	// Value never reached the bank, so control is restored, not the bank GL.
	suite.Require().Len(capturedReq.Lines, 2)
	suite.Equal(tenant.ARAccountID, capturedReq.Lines[0].AccountID)
	suite.True(capturedReq.Lines[0].Debit.Equal(cheque.Amount))
	suite.Equal(suite.controlAccount.AccountID, capturedReq.Lines[1].AccountID)
	suite.True(capturedReq.Lines[1].Credit.Equal(cheque.Amount))
}

func (suite *PDCServiceTestSuite) TestBouncePDC_ClearedCreditsBankWithCharges() {
	ctx := context.Background()
	cheque := suite.outstandingCheque()
	cheque.Status = domain.PDCCleared
	cheque.DepositStatus = domain.DepositCleared
	tenant := suite.tenant
	charges := decimal.NewFromInt(150)
	chargesAccount := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4250",
		Name:        "Bounce Charge Income",
		AccountType: domain.Income,
		IsActive:    true,
	}
	chargesMapping := domain.AccountMapping{
		MappingID:       uuid.NewString(),
		TransactionType: domain.MappingBounceCharges,
		AccountID:       chargesAccount.AccountID,
	}

	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, tenant.TenantID).Return(&tenant, nil).Once()
	suite.mockStatementRepo.On("FindBankAccountByID", mock.Anything, suite.bankAccount.BankAccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingBounceCharges).Return(&chargesMapping, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, chargesAccount.AccountID).Return(&chargesAccount, nil).Once()

	var capturedReq dto.CreateJournalEntryRequest
	suite.expectLifecycleEntry(&capturedReq)
	suite.mockPDCRepo.On("UpdatePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).Return(nil).Once()

	result, err := suite.service.BouncePDC(ctx, cheque.PDCID, dto.BouncePDCRequest{
		Reason:        "stop payment ordered",
		BounceCharges: charges,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(result.BounceCharges.Equal(charges))

	// The money had cleared, so the bounce comes back out of the bank GL,
	// and the charges are billed to the tenant in the same entry.
	suite.Require().Len(capturedReq.Lines, 4)
	suite.Equal(tenant.ARAccountID, capturedReq.Lines[0].AccountID)
	suite.Equal(suite.bankAccount.GLAccountID, capturedReq.Lines[1].AccountID)
	suite.True(capturedReq.Lines[1].Credit.Equal(cheque.Amount))
	suite.Equal(tenant.ARAccountID, capturedReq.Lines[2].AccountID)
	suite.True(capturedReq.Lines[2].Debit.Equal(charges))
	suite.Equal(chargesAccount.AccountID, capturedReq.Lines[3].AccountID)
	suite.True(capturedReq.Lines[3].Credit.Equal(charges))
}

func (suite *PDCServiceTestSuite) TestBouncePDC_ReasonRequired() {
	ctx := context.Background()

	_, err := suite.service.BouncePDC(ctx, uuid.NewString(), dto.BouncePDCRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReasonRequired)
	suite.mockPDCRepo.AssertNotCalled(suite.T(), "FindPDCByID", mock.Anything, mock.Anything)
}

func (suite *PDCServiceTestSuite) TestBouncePDC_ReconciledRefused() {
	ctx := context.Background()
	cheque := suite.outstandingCheque()
	cheque.Status = domain.PDCCleared
	cheque.DepositStatus = domain.DepositCleared
	cheque.Reconciled = true
	cheque.StatementLineID = uuid.NewString()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()

	_, err := suite.service.BouncePDC(ctx, cheque.PDCID, dto.BouncePDCRequest{Reason: "insufficient funds"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPDCReconciled)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PDCServiceTestSuite) TestBouncePDC_NotBounceable() {
	ctx := context.Background()
	cheque := suite.receivedCheque()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()

	_, err := suite.service.BouncePDC(ctx, cheque.PDCID, dto.BouncePDCRequest{Reason: "insufficient funds"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPDCNotBounceable)
}

// --- Return, replace, cancel ---

func (suite *PDCServiceTestSuite) TestReturnPDC_Success() {
	ctx := context.Background()
	cheque := suite.receivedCheque()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()
	suite.mockPDCRepo.On("UpdatePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).Return(nil).Once()

	result, err := suite.service.ReturnPDC(ctx, cheque.PDCID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PDCReturned, result.Status)
	// No value has moved; returning posts nothing.
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PDCServiceTestSuite) TestReturnPDC_DepositedRefused() {
	ctx := context.Background()
	cheque := suite.outstandingCheque()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()

	_, err := suite.service.ReturnPDC(ctx, cheque.PDCID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPDCNotReceived)
}

func (suite *PDCServiceTestSuite) TestReplacePDC_Success() {
	ctx := context.Background()
	bounced := suite.receivedCheque()
	bounced.Status = domain.PDCBounced
	bounced.DepositStatus = domain.DepositBounced
	tenant := suite.tenant

	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, bounced.PDCID).Return(&bounced, nil).Once()
	suite.mockPDCRepo.On("FindTenantByID", mock.Anything, tenant.TenantID).Return(&tenant, nil).Once()
	suite.mockPDCRepo.On("NextPDCNumber", mock.Anything).Return("PDC-000033", nil).Once()

	var savedReplacement domain.PDCCheque
	suite.mockPDCRepo.On("SavePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).
		Run(func(args mock.Arguments) {
			savedReplacement = args.Get(1).(domain.PDCCheque)
		}).Return(nil).Once()

	var updatedOld domain.PDCCheque
	suite.mockPDCRepo.On("UpdatePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).
		Run(func(args mock.Arguments) {
			updatedOld = args.Get(1).(domain.PDCCheque)
		}).Return(nil).Once()

	replacement, err := suite.service.ReplacePDC(ctx, bounced.PDCID, dto.ReplacePDCRequest{
		ChequeNumber: "300113",
		BankName:     "Emirates NBD",
		ChequeDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Amount:       bounced.Amount,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("PDC-000033", replacement.PDCNumber)
	suite.Equal(bounced.TenantID, savedReplacement.TenantID)
	suite.Equal(bounced.Purpose, savedReplacement.Purpose)
	suite.Equal(domain.PDCReplaced, updatedOld.Status)
	suite.Equal(replacement.PDCID, updatedOld.ReplacedByID)
}

func (suite *PDCServiceTestSuite) TestReplacePDC_OutstandingRefused() {
	ctx := context.Background()
	cheque := suite.outstandingCheque()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()

	_, err := suite.service.ReplacePDC(ctx, cheque.PDCID, dto.ReplacePDCRequest{
		ChequeNumber: "300113",
		BankName:     "Emirates NBD",
		Amount:       cheque.Amount,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPDCNotReplaceable)
	suite.mockPDCRepo.AssertNotCalled(suite.T(), "SavePDC", mock.Anything, mock.Anything)
}

func (suite *PDCServiceTestSuite) TestCancelPDC_Success() {
	ctx := context.Background()
	cheque := suite.receivedCheque()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, cheque.PDCID).Return(&cheque, nil).Once()
	suite.mockPDCRepo.On("UpdatePDC", mock.Anything, mock.AnythingOfType("domain.PDCCheque")).Return(nil).Once()

	result, err := suite.service.CancelPDC(ctx, cheque.PDCID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PDCCancelled, result.Status)
}

// --- Tenants ---

func (suite *PDCServiceTestSuite) TestCreateTenant_Success() {
	ctx := context.Background()
	arAccount := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1150",
		Name:        "AR - Unit 402",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, arAccount.AccountID).Return(&arAccount, nil).Once()

	var saved domain.Tenant
	suite.mockPDCRepo.On("SaveTenant", mock.Anything, mock.AnythingOfType("domain.Tenant")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Tenant)
		}).Return(nil).Once()

	tenant, err := suite.service.CreateTenant(ctx, dto.CreateTenantRequest{
		Name:        "Unit 402 Tenant",
		ARAccountID: arAccount.AccountID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(tenant.IsActive)
	suite.Equal(arAccount.AccountID, saved.ARAccountID)
}

func (suite *PDCServiceTestSuite) TestCreateTenant_NonAssetAR() {
	ctx := context.Background()
	wrongType := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		AccountType: domain.Income,
		IsActive:    true,
	}
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, wrongType.AccountID).Return(&wrongType, nil).Once()

	_, err := suite.service.CreateTenant(ctx, dto.CreateTenantRequest{
		Name:        "Unit 402 Tenant",
		ARAccountID: wrongType.AccountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPDCRepo.AssertNotCalled(suite.T(), "SaveTenant", mock.Anything, mock.Anything)
}

func (suite *PDCServiceTestSuite) TestGetPDCByID_RepoError() {
	ctx := context.Background()
	pdcID := uuid.NewString()
	suite.mockPDCRepo.On("FindPDCByID", mock.Anything, pdcID).Return(nil, assert.AnError).Once()

	_, err := suite.service.GetPDCByID(ctx, pdcID)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

func TestPDCServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PDCServiceTestSuite))
}
