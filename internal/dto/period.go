package dto

import (
	"time"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// CreateFiscalYearRequest defines the data needed to open a fiscal year.
type CreateFiscalYearRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
}

// CreatePeriodRequest defines the data needed to open an accounting period.
type CreatePeriodRequest struct {
	FiscalYearID string    `json:"fiscalYearID" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	StartDate    time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate      time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
}

// FiscalYearResponse defines the data returned for a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID string     `json:"fiscalYearID"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	ClosedBy     string     `json:"closedBy,omitempty"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID     string     `json:"periodID"`
	FiscalYearID string     `json:"fiscalYearID"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsLocked     bool       `json:"isLocked"`
	LockedAt     *time.Time `json:"lockedAt,omitempty"`
	LockedBy     string     `json:"lockedBy,omitempty"`
}

// ToFiscalYearResponse converts a domain.FiscalYear.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID: fy.FiscalYearID,
		Name:         fy.Name,
		StartDate:    fy.StartDate,
		EndDate:      fy.EndDate,
		IsClosed:     fy.IsClosed,
		ClosedAt:     fy.ClosedAt,
		ClosedBy:     fy.ClosedBy,
	}
}

// ToPeriodResponse converts a domain.AccountingPeriod.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:     p.PeriodID,
		FiscalYearID: p.FiscalYearID,
		Name:         p.Name,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		IsLocked:     p.IsLocked,
		LockedAt:     p.LockedAt,
		LockedBy:     p.LockedBy,
	}
}
