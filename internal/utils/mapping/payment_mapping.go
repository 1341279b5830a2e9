package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelPayment converts a domain Payment to its model form.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		PaymentNumber: d.PaymentNumber,
		PaymentType:   string(d.PaymentType),
		Method:        string(d.Method),
		PaymentDate:   d.PaymentDate,
		PartyName:     d.PartyName,
		Amount:        d.Amount,
		Reference:     d.Reference,
		Status:        string(d.Status),
		BankAccountID: strPtrOrNil(d.BankAccountID),
		EntryID:       strPtrOrNil(d.EntryID),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to its domain form.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		PaymentNumber: m.PaymentNumber,
		PaymentType:   domain.PaymentType(m.PaymentType),
		Method:        domain.PaymentMethod(m.Method),
		PaymentDate:   m.PaymentDate,
		PartyName:     m.PartyName,
		Amount:        m.Amount,
		Reference:     m.Reference,
		Status:        domain.PaymentStatus(m.Status),
		BankAccountID: strOrEmpty(m.BankAccountID),
		EntryID:       strOrEmpty(m.EntryID),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
