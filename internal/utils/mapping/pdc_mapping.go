package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelPDC converts a domain PDCCheque to its model form.
func ToModelPDC(d domain.PDCCheque) models.PDCCheque {
	return models.PDCCheque{
		PDCID:             d.PDCID,
		PDCNumber:         d.PDCNumber,
		ChequeNumber:      d.ChequeNumber,
		BankName:          d.BankName,
		ChequeDate:        d.ChequeDate,
		Amount:            d.Amount,
		TenantID:          d.TenantID,
		DrawerName:        d.DrawerName,
		Purpose:           string(d.Purpose),
		Status:            string(d.Status),
		DepositStatus:     string(d.DepositStatus),
		ReceivedDate:      d.ReceivedDate,
		DepositedDate:     d.DepositedDate,
		DepositedToBankID: strPtrOrNil(d.DepositedToBankID),
		ClearedDate:       d.ClearedDate,
		ClearingReference: d.ClearingReference,
		DepositEntryID:    strPtrOrNil(d.DepositEntryID),
		ClearingEntryID:   strPtrOrNil(d.ClearingEntryID),
		BounceEntryID:     strPtrOrNil(d.BounceEntryID),
		BounceDate:        d.BounceDate,
		BounceReason:      d.BounceReason,
		BounceCharges:     d.BounceCharges,
		ReplacedByID:      strPtrOrNil(d.ReplacedByID),
		StatementLineID:   strPtrOrNil(d.StatementLineID),
		Reconciled:        d.Reconciled,
		ReconciledAt:      d.ReconciledAt,
		ReconciledBy:      d.ReconciledBy,
		Notes:             d.Notes,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPDC converts a model PDCCheque to its domain form.
func ToDomainPDC(m models.PDCCheque) domain.PDCCheque {
	return domain.PDCCheque{
		PDCID:             m.PDCID,
		PDCNumber:         m.PDCNumber,
		ChequeNumber:      m.ChequeNumber,
		BankName:          m.BankName,
		ChequeDate:        m.ChequeDate,
		Amount:            m.Amount,
		TenantID:          m.TenantID,
		DrawerName:        m.DrawerName,
		Purpose:           domain.PDCPurpose(m.Purpose),
		Status:            domain.PDCStatus(m.Status),
		DepositStatus:     domain.DepositStatus(m.DepositStatus),
		ReceivedDate:      m.ReceivedDate,
		DepositedDate:     m.DepositedDate,
		DepositedToBankID: strOrEmpty(m.DepositedToBankID),
		ClearedDate:       m.ClearedDate,
		ClearingReference: m.ClearingReference,
		DepositEntryID:    strOrEmpty(m.DepositEntryID),
		ClearingEntryID:   strOrEmpty(m.ClearingEntryID),
		BounceEntryID:     strOrEmpty(m.BounceEntryID),
		BounceDate:        m.BounceDate,
		BounceReason:      m.BounceReason,
		BounceCharges:     m.BounceCharges,
		ReplacedByID:      strOrEmpty(m.ReplacedByID),
		StatementLineID:   strOrEmpty(m.StatementLineID),
		Reconciled:        m.Reconciled,
		ReconciledAt:      m.ReconciledAt,
		ReconciledBy:      m.ReconciledBy,
		Notes:             m.Notes,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTenant converts a domain Tenant to its model form.
func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:    d.TenantID,
		Name:        d.Name,
		ARAccountID: d.ARAccountID,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTenant converts a model Tenant to its domain form.
func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:    m.TenantID,
		Name:        m.Name,
		ARAccountID: m.ARAccountID,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
