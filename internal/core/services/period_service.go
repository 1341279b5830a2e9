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
	ErrPeriodLocked       = errors.New("accounting period is locked")
	ErrFiscalYearClosed   = errors.New("fiscal year is closed")
	ErrNoPeriodForDate    = errors.New("no accounting period covers the date")
	ErrPeriodsStillOpen   = errors.New("fiscal year has unlocked periods")
	ErrPeriodOutsideYear  = errors.New("period dates fall outside the fiscal year")
	ErrDateRangeInverted  = errors.New("start date must be before end date")
)

// periodService guards the posting calendar: fiscal years, periods, and the
// lock transitions between them.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewPeriodService creates a new period service.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// CreateFiscalYear opens a new fiscal year.
func (s *periodService) CreateFiscalYear(ctx context.Context, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.StartDate.Before(req.EndDate) {
		return nil, fmt.Errorf("%w: %s to %s", ErrDateRangeInverted, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	fy := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.periodRepo.SaveFiscalYear(ctx, fy); err != nil {
		logger.Error("Failed to save fiscal year", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save fiscal year: %w", err)
	}
	logger.Info("Fiscal year created", slog.String("fiscal_year_id", fy.FiscalYearID), slog.String("name", fy.Name))
	return &fy, nil
}

// CreatePeriod opens an accounting period inside an open fiscal year.
func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorUserID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.StartDate.Before(req.EndDate) {
		return nil, fmt.Errorf("%w: %s to %s", ErrDateRangeInverted, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}

	fy, err := s.periodRepo.FindFiscalYearByID(ctx, req.FiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", req.FiscalYearID, err)
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("%w: %s", ErrFiscalYearClosed, fy.Name)
	}
	if req.StartDate.Before(fy.StartDate) || req.EndDate.After(fy.EndDate) {
		return nil, fmt.Errorf("%w: fiscal year %s", ErrPeriodOutsideYear, fy.Name)
	}

	now := time.Now().UTC()
	p := domain.AccountingPeriod{
		PeriodID:     uuid.NewString(),
		FiscalYearID: req.FiscalYearID,
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.periodRepo.SavePeriod(ctx, p); err != nil {
		logger.Error("Failed to save period", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save period: %w", err)
	}
	logger.Info("Accounting period created", slog.String("period_id", p.PeriodID), slog.String("name", p.Name))
	return &p, nil
}

// GetFiscalYearByID retrieves a fiscal year.
func (s *periodService) GetFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	fy, err := s.periodRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	return fy, nil
}

// GetPeriodByID retrieves an accounting period.
func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	p, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	return p, nil
}

// ListFiscalYears retrieves all fiscal years, newest first.
func (s *periodService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	return s.periodRepo.ListFiscalYears(ctx)
}

// ListPeriods retrieves the periods of one fiscal year.
func (s *periodService) ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, fiscalYearID)
}

// CloseFiscalYear permanently closes a fiscal year. Every period in the year
// must already be locked.
func (s *periodService) CloseFiscalYear(ctx context.Context, fiscalYearID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	fy, err := s.periodRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if fy.IsClosed {
		return fmt.Errorf("%w: %s", ErrFiscalYearClosed, fy.Name)
	}

	periods, err := s.periodRepo.ListPeriods(ctx, fiscalYearID)
	if err != nil {
		return fmt.Errorf("failed to list periods of fiscal year %s: %w", fiscalYearID, err)
	}
	for _, p := range periods {
		if !p.IsLocked {
			return fmt.Errorf("%w: period %s is not locked", ErrPeriodsStillOpen, p.Name)
		}
	}

	if err := s.periodRepo.CloseFiscalYear(ctx, fiscalYearID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to close fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return fmt.Errorf("failed to close fiscal year: %w", err)
	}
	logger.Info("Fiscal year closed", slog.String("fiscal_year_id", fiscalYearID), slog.String("closed_by", requestingUserID))
	return nil
}

// ReopenFiscalYear reverses a close. Administrative override only.
func (s *periodService) ReopenFiscalYear(ctx context.Context, fiscalYearID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	fy, err := s.periodRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if !fy.IsClosed {
		return fmt.Errorf("%w: fiscal year %s is not closed", apperrors.ErrConflict, fy.Name)
	}

	if err := s.periodRepo.ReopenFiscalYear(ctx, fiscalYearID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to reopen fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return fmt.Errorf("failed to reopen fiscal year: %w", err)
	}
	logger.Warn("Fiscal year reopened", slog.String("fiscal_year_id", fiscalYearID), slog.String("reopened_by", requestingUserID))
	return nil
}

// LockPeriod locks a period against further posting.
func (s *periodService) LockPeriod(ctx context.Context, periodID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	p, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if p.IsLocked {
		return nil
	}

	if err := s.periodRepo.LockPeriod(ctx, periodID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to lock period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return fmt.Errorf("failed to lock period: %w", err)
	}
	logger.Info("Period locked", slog.String("period_id", periodID), slog.String("locked_by", requestingUserID))
	return nil
}

// UnlockPeriod reverses a lock. Refused while the owning fiscal year is
// closed: reopen the year first, explicitly.
func (s *periodService) UnlockPeriod(ctx context.Context, periodID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	p, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if !p.IsLocked {
		return nil
	}

	fy, err := s.periodRepo.FindFiscalYearByID(ctx, p.FiscalYearID)
	if err != nil {
		return fmt.Errorf("failed to find fiscal year %s: %w", p.FiscalYearID, err)
	}
	if fy.IsClosed {
		return fmt.Errorf("%w: %s", ErrFiscalYearClosed, fy.Name)
	}

	if err := s.periodRepo.UnlockPeriod(ctx, periodID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to unlock period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return fmt.Errorf("failed to unlock period: %w", err)
	}
	logger.Warn("Period unlocked", slog.String("period_id", periodID), slog.String("unlocked_by", requestingUserID))
	return nil
}

// resolveOpenPeriod returns the fiscal year and period covering d, requiring
// both to be open. Shared by the posting and reversal paths.
func resolveOpenPeriod(ctx context.Context, periodRepo portsrepo.PeriodReader, d time.Time) (*domain.FiscalYear, *domain.AccountingPeriod, error) {
	p, err := periodRepo.FindPeriodForDate(ctx, d)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoPeriodForDate, d.Format("2006-01-02"))
		}
		return nil, nil, fmt.Errorf("failed to resolve period for %s: %w", d.Format("2006-01-02"), err)
	}
	if p.IsLocked {
		return nil, nil, fmt.Errorf("%w: %s", ErrPeriodLocked, p.Name)
	}
	fy, err := periodRepo.FindFiscalYearByID(ctx, p.FiscalYearID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve fiscal year for period %s: %w", p.PeriodID, err)
	}
	if fy.IsClosed {
		return nil, nil, fmt.Errorf("%w: %s", ErrFiscalYearClosed, fy.Name)
	}
	return fy, p, nil
}
