package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/core/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

type MappingServiceTestSuite struct {
	suite.Suite
	mockMappingRepo *MockMappingRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.MappingSvcFacade
	controlAccount  domain.Account
	chargesAccount  domain.Account
	userID          string
}

func (suite *MappingServiceTestSuite) SetupTest() {
	suite.mockMappingRepo = new(MockMappingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewMappingService(suite.mockMappingRepo, suite.mockAccountRepo)

	suite.userID = uuid.NewString()
	suite.controlAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1250",
		Name:        "PDC Control",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.chargesAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4250",
		Name:        "Bounce Charge Income",
		AccountType: domain.Income,
		IsActive:    true,
	}
}

func (suite *MappingServiceTestSuite) TestUpsertMapping_CreatesNew() {
	ctx := context.Background()
	account := suite.controlAccount
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, account.AccountID).Return(false, nil).Once()
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingPDCControl).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.AccountMapping
	suite.mockMappingRepo.On("SaveMapping", mock.Anything, mock.AnythingOfType("domain.AccountMapping")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.AccountMapping)
		}).Return(nil).Once()

	mapping, err := suite.service.UpsertMapping(ctx, dto.UpsertMappingRequest{
		TransactionType: domain.MappingPDCControl,
		AccountID:       account.AccountID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(mapping.MappingID)
	suite.Equal(domain.MappingPDCControl, saved.TransactionType)
	suite.Equal(account.AccountID, saved.AccountID)
	suite.Equal(suite.userID, saved.CreatedBy)
}

func (suite *MappingServiceTestSuite) TestUpsertMapping_ReplacesKeepingIdentity() {
	ctx := context.Background()
	account := suite.controlAccount
	createdAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	originalCreator := uuid.NewString()
	existing := domain.AccountMapping{
		MappingID:       uuid.NewString(),
		TransactionType: domain.MappingPDCControl,
		AccountID:       uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt: createdAt,
			CreatedBy: originalCreator,
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, account.AccountID).Return(false, nil).Once()
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingPDCControl).Return(&existing, nil).Once()

	var saved domain.AccountMapping
	suite.mockMappingRepo.On("SaveMapping", mock.Anything, mock.AnythingOfType("domain.AccountMapping")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.AccountMapping)
		}).Return(nil).Once()

	_, err := suite.service.UpsertMapping(ctx, dto.UpsertMappingRequest{
		TransactionType: domain.MappingPDCControl,
		AccountID:       account.AccountID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.MappingID, saved.MappingID)
	suite.Equal(createdAt, saved.CreatedAt)
	suite.Equal(originalCreator, saved.CreatedBy)
	suite.Equal(account.AccountID, saved.AccountID)
	suite.Equal(suite.userID, saved.LastUpdatedBy)
}

func (suite *MappingServiceTestSuite) TestUpsertMapping_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.controlAccount
	inactive.IsActive = false
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, inactive.AccountID).Return(&inactive, nil).Once()

	_, err := suite.service.UpsertMapping(ctx, dto.UpsertMappingRequest{
		TransactionType: domain.MappingPDCControl,
		AccountID:       inactive.AccountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.mockMappingRepo.AssertNotCalled(suite.T(), "SaveMapping", mock.Anything, mock.Anything)
}

func (suite *MappingServiceTestSuite) TestUpsertMapping_NonLeafAccount() {
	ctx := context.Background()
	parent := suite.controlAccount
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, parent.AccountID).Return(&parent, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, parent.AccountID).Return(true, nil).Once()

	_, err := suite.service.UpsertMapping(ctx, dto.UpsertMappingRequest{
		TransactionType: domain.MappingPDCControl,
		AccountID:       parent.AccountID,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMappingAccountNotLeaf)
	suite.mockMappingRepo.AssertNotCalled(suite.T(), "SaveMapping", mock.Anything, mock.Anything)
}

func (suite *MappingServiceTestSuite) TestValidateRequiredMappings_AllValid() {
	ctx := context.Background()
	control := suite.controlAccount
	charges := suite.chargesAccount
	controlMapping := domain.AccountMapping{MappingID: uuid.NewString(), TransactionType: domain.MappingPDCControl, AccountID: control.AccountID}
	chargesMapping := domain.AccountMapping{MappingID: uuid.NewString(), TransactionType: domain.MappingBounceCharges, AccountID: charges.AccountID}

	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingPDCControl).Return(&controlMapping, nil).Once()
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingBounceCharges).Return(&chargesMapping, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, control.AccountID).Return(&control, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, charges.AccountID).Return(&charges, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, control.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, charges.AccountID).Return(false, nil).Once()

	result, err := suite.service.ValidateRequiredMappings(ctx)

	suite.Require().NoError(err)
	suite.True(result.Valid)
	suite.Empty(result.Problems)
}

func (suite *MappingServiceTestSuite) TestValidateRequiredMappings_ReportsEveryProblem() {
	ctx := context.Background()
	inactive := suite.chargesAccount
	inactive.IsActive = false
	chargesMapping := domain.AccountMapping{MappingID: uuid.NewString(), TransactionType: domain.MappingBounceCharges, AccountID: inactive.AccountID}

	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingPDCControl).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingBounceCharges).Return(&chargesMapping, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, inactive.AccountID).Return(&inactive, nil).Once()

	result, err := suite.service.ValidateRequiredMappings(ctx)

	suite.Require().NoError(err)
	suite.False(result.Valid)
	suite.Require().Len(result.Problems, 2)
	suite.Contains(result.Problems[0], "no mapping configured")
	suite.Contains(result.Problems[1], "inactive")
}

func (suite *MappingServiceTestSuite) TestValidateRequiredMappings_NonLeafAccount() {
	ctx := context.Background()
	control := suite.controlAccount
	charges := suite.chargesAccount
	controlMapping := domain.AccountMapping{MappingID: uuid.NewString(), TransactionType: domain.MappingPDCControl, AccountID: control.AccountID}
	chargesMapping := domain.AccountMapping{MappingID: uuid.NewString(), TransactionType: domain.MappingBounceCharges, AccountID: charges.AccountID}

	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingPDCControl).Return(&controlMapping, nil).Once()
	suite.mockMappingRepo.On("FindMappingByType", mock.Anything, domain.MappingBounceCharges).Return(&chargesMapping, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, control.AccountID).Return(&control, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, charges.AccountID).Return(&charges, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, control.AccountID).Return(true, nil).Once()
	suite.mockAccountRepo.On("HasActiveChildren", mock.Anything, charges.AccountID).Return(false, nil).Once()

	result, err := suite.service.ValidateRequiredMappings(ctx)

	suite.Require().NoError(err)
	suite.False(result.Valid)
	suite.Require().Len(result.Problems, 1)
	suite.Contains(result.Problems[0], "not a leaf")
}

func TestMappingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MappingServiceTestSuite))
}
