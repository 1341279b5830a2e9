package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/core/services"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockPeriodRepository
	service         portssvc.JournalSvcFacade
	cashAccount     domain.Account
	revenueAccount  domain.Account
	fiscalYear      domain.FiscalYear
	openPeriod      domain.AccountingPeriod
	userID          string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockPeriodRepo)

	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		Name:        "Cash at Bank",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		Name:        "Rental Income",
		AccountType: domain.Income,
		IsActive:    true,
	}

	suite.fiscalYear = domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Name:         "FY 2025",
	}
	suite.openPeriod = domain.AccountingPeriod{
		PeriodID:     uuid.NewString(),
		FiscalYearID: suite.fiscalYear.FiscalYearID,
		Name:         "June 2025",
	}
}

// expectAccountLookups wires the validation-path account fetches for the two
// standard accounts.
func (suite *JournalServiceTestSuite) expectAccountLookups() {
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	leafMap := map[string]bool{
		suite.cashAccount.AccountID:    true,
		suite.revenueAccount.AccountID: true,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(accountsMap, nil)
	suite.mockAccountRepo.On("LeafStatusByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(leafMap, nil)
}

// expectOpenPeriod wires the validation-path period resolution to an open
// period in an open fiscal year.
func (suite *JournalServiceTestSuite) expectOpenPeriod() {
	suite.mockPeriodRepo.On("FindPeriodForDate", mock.Anything, mock.AnythingOfType("time.Time")).Return(&suite.openPeriod, nil)
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil)
}

func (suite *JournalServiceTestSuite) balancedRequest(amount decimal.Decimal) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Date:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Description: "June rent received",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: amount},
			{AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}
}

// --- CreateEntry ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(5000))

	suite.expectAccountLookups()
	suite.expectOpenPeriod()
	suite.mockJournalRepo.On("NextEntryNumber", ctx).Return("JE-000042", nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("JE-000042", entry.EntryNumber)
	suite.Equal(domain.EntryDraft, entry.Status)
	suite.Equal(domain.EntryTypeStandard, entry.EntryType)
	suite.Equal(domain.SourceManual, entry.Source)
	suite.False(entry.IsSystemGenerated)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(5000)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(5000)))
	suite.Len(entry.Lines, 2)
	suite.Equal(1, entry.Lines[0].LineNumber)
	suite.Equal(2, entry.Lines[1].LineNumber)
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SystemSourceFlagged() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(1200))
	req.Source = domain.SourcePDC
	req.SourceID = uuid.NewString()

	suite.expectAccountLookups()
	suite.expectOpenPeriod()
	suite.mockJournalRepo.On("NextEntryNumber", ctx).Return("JE-000043", nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(entry.IsSystemGenerated)
	suite.Equal(domain.SourcePDC, entry.Source)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(90)},
		},
	}
	suite.expectAccountLookups()
	suite.expectOpenPeriod()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Len(vErr.Violations, 1)
	suite.Contains(vErr.Violations[0], "not balanced")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_CollectsAllViolations() {
	ctx := context.Background()
	// One line only, carrying both a debit and a credit.
	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(40)},
		},
	}
	accountsMap := map[string]domain.Account{suite.cashAccount.AccountID: suite.cashAccount}
	leafMap := map[string]bool{suite.cashAccount.AccountID: true}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(accountsMap, nil)
	suite.mockAccountRepo.On("LeafStatusByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(leafMap, nil)
	suite.expectOpenPeriod()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	// Too few lines, both sides set, and the resulting imbalance all reported.
	suite.Len(vErr.Violations, 3)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAndParentAccounts() {
	ctx := context.Background()
	inactive := suite.cashAccount
	inactive.IsActive = false
	parent := suite.revenueAccount

	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: inactive.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: parent.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}
	accountsMap := map[string]domain.Account{
		inactive.AccountID: inactive,
		parent.AccountID:   parent,
	}
	leafMap := map[string]bool{
		inactive.AccountID: true,
		parent.AccountID:   false,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(accountsMap, nil)
	suite.mockAccountRepo.On("LeafStatusByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(leafMap, nil)
	suite.expectOpenPeriod()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Len(vErr.Violations, 2)
	suite.Contains(vErr.Violations[0], "inactive")
	suite.Contains(vErr.Violations[1], "parent account")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	unknownID := uuid.NewString()
	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: unknownID, Credit: decimal.NewFromInt(100)},
		},
	}
	accountsMap := map[string]domain.Account{suite.cashAccount.AccountID: suite.cashAccount}
	leafMap := map[string]bool{suite.cashAccount.AccountID: true}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(accountsMap, nil)
	suite.mockAccountRepo.On("LeafStatusByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(leafMap, nil)
	suite.expectOpenPeriod()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Contains(vErr.Violations[0], "not found")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LockedPeriod() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(800))
	locked := suite.openPeriod
	locked.IsLocked = true

	suite.expectAccountLookups()
	suite.mockPeriodRepo.On("FindPeriodForDate", mock.Anything, req.Date).Return(&locked, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Len(vErr.Violations, 1)
	suite.Contains(vErr.Violations[0], "locked")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "NextEntryNumber", mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything)
}

// --- PostEntry ---

func (suite *JournalServiceTestSuite) draftEntry(amount decimal.Decimal) *domain.JournalEntry {
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-000010",
		Date:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:      domain.EntryDraft,
		EntryType:   domain.EntryTypeStandard,
		Source:      domain.SourceManual,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, LineNumber: 1, AccountID: suite.cashAccount.AccountID, Debit: amount},
			{LineID: uuid.NewString(), EntryID: entryID, LineNumber: 2, AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}
	entry.CalculateTotals()
	return entry
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(2500)
	entry := suite.draftEntry(amount)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.expectAccountLookups()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, entry.Date).Return(&suite.openPeriod, nil).Once()
	suite.mockPeriodRepo.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()

	var capturedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("PostEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			capturedChanges = args.Get(2).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPosted, posted.Status)
	suite.True(posted.IsLocked)
	suite.Equal(suite.openPeriod.PeriodID, posted.PeriodID)
	suite.Equal(suite.fiscalYear.FiscalYearID, posted.FiscalYearID)
	suite.Equal(suite.userID, posted.PostedBy)
	suite.Require().NotNil(posted.PostedAt)

	// Debit-increasing cash goes up, credit-increasing revenue goes up too.
	suite.Require().NotNil(capturedChanges)
	suite.True(capturedChanges[suite.cashAccount.AccountID].Equal(amount))
	suite.True(capturedChanges[suite.revenueAccount.AccountID].Equal(amount))
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_NotDraft() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))
	entry.Status = domain.EntryPosted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_LockedPeriod() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))
	locked := suite.openPeriod
	locked.IsLocked = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.expectAccountLookups()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, entry.Date).Return(&locked, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Len(vErr.Violations, 1)
	suite.Contains(vErr.Violations[0], "locked")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_NoPeriodForDate() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.expectAccountLookups()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, entry.Date).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "no accounting period")
}

func (suite *JournalServiceTestSuite) TestPostEntry_ClosedFiscalYear() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))
	closedFY := suite.fiscalYear
	closedFY.IsClosed = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.expectAccountLookups()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, entry.Date).Return(&suite.openPeriod, nil).Once()
	suite.mockPeriodRepo.On("FindFiscalYearByID", ctx, closedFY.FiscalYearID).Return(&closedFY, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "closed")
}

// --- UpdateDraftEntry / DeleteDraftEntry ---

func (suite *JournalServiceTestSuite) TestUpdateDraftEntry_PostedRejected() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))
	entry.Status = domain.EntryPosted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	newDesc := "edited"
	_, err := suite.service.UpdateDraftEntry(ctx, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &newDesc}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
}

func (suite *JournalServiceTestSuite) TestDeleteDraftEntry_SystemGeneratedRejected() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))
	entry.IsSystemGenerated = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteDraftEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDeletable)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteDraftEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("DeleteDraftEntry", ctx, entry.EntryID).Return(nil).Once()

	err := suite.service.DeleteDraftEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// --- ReverseEntry ---

func (suite *JournalServiceTestSuite) postedEntry(amount decimal.Decimal) *domain.JournalEntry {
	entry := suite.draftEntry(amount)
	entry.Status = domain.EntryPosted
	entry.IsLocked = true
	entry.PeriodID = suite.openPeriod.PeriodID
	entry.FiscalYearID = suite.fiscalYear.FiscalYearID
	postedAt := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	entry.PostedAt = &postedAt
	return entry
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(2500)
	original := suite.postedEntry(amount)

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", ctx, original.EntryID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.openPeriod.PeriodID).Return(&suite.openPeriod, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, mock.AnythingOfType("time.Time")).Return(&suite.openPeriod, nil).Once()
	suite.mockPeriodRepo.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Twice()
	suite.mockJournalRepo.On("NextEntryNumber", ctx).Return("JE-000011", nil).Once()
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(accountsMap, nil)

	var capturedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.JournalEntry"), original.EntryID, mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			capturedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "duplicate capture"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPosted, reversal.Status)
	suite.Equal(domain.EntryTypeReversal, reversal.EntryType)
	suite.Equal(original.EntryID, reversal.ReversalOfID)
	suite.Equal("duplicate capture", reversal.ReversalReason)
	suite.True(reversal.IsSystemGenerated)
	suite.Len(reversal.Lines, 2)
	// Mirror image: the cash debit becomes a credit.
	suite.True(reversal.Lines[0].Credit.Equal(amount))
	suite.True(reversal.Lines[1].Debit.Equal(amount))
	// Both balance deltas flip sign against the original posting.
	suite.True(capturedChanges[suite.cashAccount.AccountID].Equal(amount.Neg()))
	suite.True(capturedChanges[suite.revenueAccount.AccountID].Equal(amount.Neg()))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ReasonRequired() {
	ctx := context.Background()

	_, err := suite.service.ReverseEntry(ctx, uuid.NewString(), dto.ReverseJournalEntryRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReasonRequired)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	entry := suite.draftEntry(decimal.NewFromInt(100))

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, entry.EntryID, dto.ReverseJournalEntryRequest{Reason: "oops"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotReversible)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	original := suite.postedEntry(decimal.NewFromInt(100))
	existing := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: "JE-000012"}

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", ctx, original.EntryID).Return(existing, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "dup"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_OriginalPeriodLocked() {
	ctx := context.Background()
	original := suite.postedEntry(decimal.NewFromInt(100))
	locked := suite.openPeriod
	locked.IsLocked = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", ctx, original.EntryID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, original.PeriodID).Return(&locked, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "late correction"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodLocked)
	// Refused before the reversal is even dated.
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "FindPeriodForDate", mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_OriginalYearClosed() {
	ctx := context.Background()
	original := suite.postedEntry(decimal.NewFromInt(100))
	closedFY := suite.fiscalYear
	closedFY.IsClosed = true

	suite.mockJournalRepo.On("FindEntryByID", ctx, original.EntryID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", ctx, original.EntryID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, original.PeriodID).Return(&suite.openPeriod, nil).Once()
	suite.mockPeriodRepo.On("FindFiscalYearByID", ctx, closedFY.FiscalYearID).Return(&closedFY, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, original.EntryID, dto.ReverseJournalEntryRequest{Reason: "late correction"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Reads ---

func (suite *JournalServiceTestSuite) TestGetEntryByID_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetEntryByID(ctx, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestListEntries_DefaultsLimit() {
	ctx := context.Background()
	entries := []domain.JournalEntry{*suite.postedEntry(decimal.NewFromInt(10))}

	suite.mockJournalRepo.On("ListEntries", ctx, 50, "").Return(entries, "tok", nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListJournalEntriesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Equal("tok", resp.NextToken)
}

func (suite *JournalServiceTestSuite) TestListEntriesByAccount_AccountMissing() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListEntriesByAccount(ctx, accountID, dto.ListJournalEntriesParams{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ListEntriesByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NumberReservationFails() {
	ctx := context.Background()
	req := suite.balancedRequest(decimal.NewFromInt(100))

	suite.expectAccountLookups()
	suite.expectOpenPeriod()
	suite.mockJournalRepo.On("NextEntryNumber", ctx).Return("", assert.AnError).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), assert.AnError.Error())
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
