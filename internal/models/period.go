package models

import "time"

// FiscalYear is the database row for a fiscal year.
type FiscalYear struct {
	FiscalYearID string     `db:"fiscal_year_id"`
	Name         string     `db:"name"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	IsClosed     bool       `db:"is_closed"`
	ClosedAt     *time.Time `db:"closed_at"`
	ClosedBy     string     `db:"closed_by"`
	AuditFields
}

// AccountingPeriod is the database row for an accounting period.
type AccountingPeriod struct {
	PeriodID     string     `db:"period_id"`
	FiscalYearID string     `db:"fiscal_year_id"`
	Name         string     `db:"name"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	IsLocked     bool       `db:"is_locked"`
	LockedAt     *time.Time `db:"locked_at"`
	LockedBy     string     `db:"locked_by"`
	AuditFields
}
