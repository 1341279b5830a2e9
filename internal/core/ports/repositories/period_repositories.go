package repositories

import (
	"context"
	"time"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// PeriodReader defines read operations for fiscal years and periods.
type PeriodReader interface {
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindFiscalYearForDate returns the fiscal year whose range contains d.
	FindFiscalYearForDate(ctx context.Context, d time.Time) (*domain.FiscalYear, error)

	// FindPeriodForDate returns the accounting period whose range contains d.
	FindPeriodForDate(ctx context.Context, d time.Time) (*domain.AccountingPeriod, error)

	// FindOpenPeriodForDate returns the unlocked period containing d, or
	// ErrNotFound when every candidate is locked.
	FindOpenPeriodForDate(ctx context.Context, d time.Time) (*domain.AccountingPeriod, error)

	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)
	ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for fiscal years and periods.
// Close and lock are one-way in normal operation; the reopen/unlock methods
// exist for explicit administrative override only.
type PeriodWriter interface {
	SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error
	SavePeriod(ctx context.Context, p domain.AccountingPeriod) error

	CloseFiscalYear(ctx context.Context, fiscalYearID string, userID string, now time.Time) error
	ReopenFiscalYear(ctx context.Context, fiscalYearID string, userID string, now time.Time) error

	LockPeriod(ctx context.Context, periodID string, userID string, now time.Time) error
	UnlockPeriod(ctx context.Context, periodID string, userID string, now time.Time) error
}

// PeriodRepositoryFacade combines period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
