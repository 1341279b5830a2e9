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

type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodRepository
	service        portssvc.PeriodSvcFacade
	fiscalYear     domain.FiscalYear
	userID         string
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo)

	suite.userID = uuid.NewString()
	suite.fiscalYear = domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Name:         "FY2025",
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *PeriodServiceTestSuite) TestCreateFiscalYear_Success() {
	ctx := context.Background()

	var saved domain.FiscalYear
	suite.mockPeriodRepo.On("SaveFiscalYear", mock.Anything, mock.AnythingOfType("domain.FiscalYear")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.FiscalYear)
		}).Return(nil).Once()

	fy, err := suite.service.CreateFiscalYear(ctx, dto.CreateFiscalYearRequest{
		Name:      "FY2026",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(fy.FiscalYearID)
	suite.Equal("FY2026", saved.Name)
	suite.False(saved.IsClosed)
	suite.Equal(suite.userID, saved.CreatedBy)
}

func (suite *PeriodServiceTestSuite) TestCreateFiscalYear_InvertedDates() {
	ctx := context.Background()

	_, err := suite.service.CreateFiscalYear(ctx, dto.CreateFiscalYearRequest{
		Name:      "FY2026",
		StartDate: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDateRangeInverted)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SaveFiscalYear", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_Success() {
	ctx := context.Background()
	fy := suite.fiscalYear
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil).Once()

	var saved domain.AccountingPeriod
	suite.mockPeriodRepo.On("SavePeriod", mock.Anything, mock.AnythingOfType("domain.AccountingPeriod")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.AccountingPeriod)
		}).Return(nil).Once()

	p, err := suite.service.CreatePeriod(ctx, dto.CreatePeriodRequest{
		FiscalYearID: fy.FiscalYearID,
		Name:         "2025-06",
		StartDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(p.PeriodID)
	suite.Equal(fy.FiscalYearID, saved.FiscalYearID)
	suite.False(saved.IsLocked)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_OutsideFiscalYear() {
	ctx := context.Background()
	fy := suite.fiscalYear
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil).Once()

	_, err := suite.service.CreatePeriod(ctx, dto.CreatePeriodRequest{
		FiscalYearID: fy.FiscalYearID,
		Name:         "2026-01",
		StartDate:    time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodOutsideYear)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_ClosedFiscalYear() {
	ctx := context.Background()
	fy := suite.fiscalYear
	fy.IsClosed = true
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil).Once()

	_, err := suite.service.CreatePeriod(ctx, dto.CreatePeriodRequest{
		FiscalYearID: fy.FiscalYearID,
		Name:         "2025-06",
		StartDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearClosed)
}

func (suite *PeriodServiceTestSuite) TestCloseFiscalYear_PeriodsStillOpen() {
	ctx := context.Background()
	fy := suite.fiscalYear
	periods := []domain.AccountingPeriod{
		{PeriodID: uuid.NewString(), FiscalYearID: fy.FiscalYearID, Name: "2025-01", IsLocked: true},
		{PeriodID: uuid.NewString(), FiscalYearID: fy.FiscalYearID, Name: "2025-02", IsLocked: false},
	}
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil).Once()
	suite.mockPeriodRepo.On("ListPeriods", mock.Anything, fy.FiscalYearID).Return(periods, nil).Once()

	err := suite.service.CloseFiscalYear(ctx, fy.FiscalYearID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodsStillOpen)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "CloseFiscalYear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCloseFiscalYear_Success() {
	ctx := context.Background()
	fy := suite.fiscalYear
	periods := []domain.AccountingPeriod{
		{PeriodID: uuid.NewString(), FiscalYearID: fy.FiscalYearID, Name: "2025-01", IsLocked: true},
		{PeriodID: uuid.NewString(), FiscalYearID: fy.FiscalYearID, Name: "2025-02", IsLocked: true},
	}
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil).Once()
	suite.mockPeriodRepo.On("ListPeriods", mock.Anything, fy.FiscalYearID).Return(periods, nil).Once()
	suite.mockPeriodRepo.On("CloseFiscalYear", mock.Anything, fy.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.CloseFiscalYear(ctx, fy.FiscalYearID, suite.userID)

	suite.Require().NoError(err)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestReopenFiscalYear_NotClosed() {
	ctx := context.Background()
	fy := suite.fiscalYear
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil).Once()

	err := suite.service.ReopenFiscalYear(ctx, fy.FiscalYearID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PeriodServiceTestSuite) TestLockPeriod_Idempotent() {
	ctx := context.Background()
	p := domain.AccountingPeriod{
		PeriodID:     uuid.NewString(),
		FiscalYearID: suite.fiscalYear.FiscalYearID,
		Name:         "2025-06",
		IsLocked:     true,
	}
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, p.PeriodID).Return(&p, nil).Once()

	err := suite.service.LockPeriod(ctx, p.PeriodID, suite.userID)

	suite.Require().NoError(err)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "LockPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestUnlockPeriod_ClosedYearRefused() {
	ctx := context.Background()
	closed := suite.fiscalYear
	closed.IsClosed = true
	p := domain.AccountingPeriod{
		PeriodID:     uuid.NewString(),
		FiscalYearID: closed.FiscalYearID,
		Name:         "2025-06",
		IsLocked:     true,
	}
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, p.PeriodID).Return(&p, nil).Once()
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, closed.FiscalYearID).Return(&closed, nil).Once()

	err := suite.service.UnlockPeriod(ctx, p.PeriodID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearClosed)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UnlockPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestUnlockPeriod_Success() {
	ctx := context.Background()
	fy := suite.fiscalYear
	p := domain.AccountingPeriod{
		PeriodID:     uuid.NewString(),
		FiscalYearID: fy.FiscalYearID,
		Name:         "2025-06",
		IsLocked:     true,
	}
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, p.PeriodID).Return(&p, nil).Once()
	suite.mockPeriodRepo.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil).Once()
	suite.mockPeriodRepo.On("UnlockPeriod", mock.Anything, p.PeriodID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.UnlockPeriod(ctx, p.PeriodID, suite.userID)

	suite.Require().NoError(err)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
