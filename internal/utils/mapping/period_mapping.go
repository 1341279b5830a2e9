package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelFiscalYear converts a domain FiscalYear to its model form.
func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID: d.FiscalYearID,
		Name:         d.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		IsClosed:     d.IsClosed,
		ClosedAt:     d.ClosedAt,
		ClosedBy:     d.ClosedBy,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalYear converts a model FiscalYear to its domain form.
func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		FiscalYearID: m.FiscalYearID,
		Name:         m.Name,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		IsClosed:     m.IsClosed,
		ClosedAt:     m.ClosedAt,
		ClosedBy:     m.ClosedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPeriod converts a domain AccountingPeriod to its model form.
func ToModelPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:     d.PeriodID,
		FiscalYearID: d.FiscalYearID,
		Name:         d.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		IsLocked:     d.IsLocked,
		LockedAt:     d.LockedAt,
		LockedBy:     d.LockedBy,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model AccountingPeriod to its domain form.
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:     m.PeriodID,
		FiscalYearID: m.FiscalYearID,
		Name:         m.Name,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		IsLocked:     m.IsLocked,
		LockedAt:     m.LockedAt,
		LockedBy:     m.LockedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
