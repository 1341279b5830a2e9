package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/core/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) assetAccount(code string) domain.Account {
	return domain.Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        "Cash on Hand",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, "1000").Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:           "1000",
		Name:           "Cash on Hand",
		AccountType:    domain.Asset,
		OpeningBalance: decimal.NewFromInt(500),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.True(saved.IsActive)
	suite.Empty(saved.ParentAccountID)
	suite.True(saved.OpeningBalance.Equal(decimal.NewFromInt(500)))
	suite.Equal(suite.userID, saved.CreatedBy)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeOpeningBalance() {
	ctx := context.Background()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:           "1000",
		Name:           "Cash on Hand",
		AccountType:    domain.Asset,
		OpeningBalance: decimal.NewFromInt(-1),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_IncomeOpeningBalance() {
	ctx := context.Background()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:           "4100",
		Name:           "Rental Income",
		AccountType:    domain.Income,
		OpeningBalance: decimal.NewFromInt(100),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := suite.assetAccount("1000")
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, "1000").Return(&existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Cash on Hand",
		AccountType: domain.Asset,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parent := suite.assetAccount("1000")
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, "4100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, parent.AccountID).Return(&parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:            "4100",
		Name:            "Rental Income",
		AccountType:     domain.Income,
		ParentAccountID: &parent.AccountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrParentTypeMismatch)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InactiveParent() {
	ctx := context.Background()
	parent := suite.assetAccount("1000")
	parent.IsActive = false
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, parent.AccountID).Return(&parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_OpeningBalanceLocked() {
	ctx := context.Background()
	account := suite.assetAccount("1000")
	account.OpeningBalanceLocked = true
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()

	newBalance := decimal.NewFromInt(900)
	_, err := suite.service.UpdateAccount(ctx, account.AccountID, dto.UpdateAccountRequest{
		OpeningBalance: &newBalance,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrOpeningBalanceLocked)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ExpenseOpeningBalance() {
	ctx := context.Background()
	account := suite.assetAccount("5200")
	account.AccountType = domain.Expense
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()

	newBalance := decimal.NewFromInt(50)
	_, err := suite.service.UpdateAccount(ctx, account.AccountID, dto.UpdateAccountRequest{
		OpeningBalance: &newBalance,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	ctx := context.Background()
	account := suite.assetAccount("1000")
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()

	var updated domain.Account
	suite.mockAccountRepo.On("UpdateAccount", mock.Anything, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Account)
		}).Return(nil).Once()

	newName := "Main Cash"
	result, err := suite.service.UpdateAccount(ctx, account.AccountID, dto.UpdateAccountRequest{
		Name: &newName,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("Main Cash", result.Name)
	suite.Equal("Main Cash", updated.Name)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	account := suite.assetAccount("1000")
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", mock.Anything, account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_HasChildren() {
	ctx := context.Background()
	account := suite.assetAccount("1000")
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountHasChildren)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NonZeroBalance() {
	ctx := context.Background()
	account := suite.assetAccount("1000")
	account.Balance = decimal.NewFromInt(250)
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, account.AccountID).Return(false, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	account := suite.assetAccount("1000")
	account.IsActive = false
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_ClampsLimit() {
	ctx := context.Background()
	accounts := []domain.Account{suite.assetAccount("1000")}
	suite.mockAccountRepo.On("ListAccounts", mock.Anything, 100, 0).Return(accounts, nil).Once()

	result, err := suite.service.ListAccounts(ctx, 0, 0)

	suite.Require().NoError(err)
	suite.Len(result, 1)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
