package services

import (
	"context"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// PeriodReaderSvc defines read operations for fiscal years and periods.
type PeriodReaderSvc interface {
	GetFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)
	GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)
	ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriterSvc defines write operations for fiscal years and periods.
type PeriodWriterSvc interface {
	CreateFiscalYear(ctx context.Context, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error)
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorUserID string) (*domain.AccountingPeriod, error)

	// CloseFiscalYear permanently closes a fiscal year. Every period inside
	// it must already be locked.
	CloseFiscalYear(ctx context.Context, fiscalYearID string, requestingUserID string) error

	// ReopenFiscalYear is an administrative override of a close.
	ReopenFiscalYear(ctx context.Context, fiscalYearID string, requestingUserID string) error

	// LockPeriod locks a period against further posting.
	LockPeriod(ctx context.Context, periodID string, requestingUserID string) error

	// UnlockPeriod is an administrative override of a lock. It fails while
	// the owning fiscal year is closed.
	UnlockPeriod(ctx context.Context, periodID string, requestingUserID string) error
}

// PeriodSvcFacade combines period service interfaces.
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
