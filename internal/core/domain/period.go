package domain

import "time"

// FiscalYear is a closed date range owning accounting periods. Once closed,
// no journal entry dated inside it may be created, posted or reversed.
type FiscalYear struct {
	FiscalYearID string     `json:"fiscalYearID"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	ClosedBy     string     `json:"closedBy,omitempty"`
	AuditFields
}

// Contains reports whether d falls inside the fiscal year (inclusive).
func (fy *FiscalYear) Contains(d time.Time) bool {
	return !d.Before(fy.StartDate) && !d.After(fy.EndDate)
}

// AccountingPeriod is a (typically monthly) slice of a fiscal year. Locking a
// period freezes every journal entry dated inside it.
type AccountingPeriod struct {
	PeriodID     string     `json:"periodID"`
	FiscalYearID string     `json:"fiscalYearID"`
	Name         string     `json:"name"` // e.g. "January 2025"
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsLocked     bool       `json:"isLocked"`
	LockedAt     *time.Time `json:"lockedAt,omitempty"`
	LockedBy     string     `json:"lockedBy,omitempty"`
	AuditFields
}

// Contains reports whether d falls inside the period (inclusive).
func (p *AccountingPeriod) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
