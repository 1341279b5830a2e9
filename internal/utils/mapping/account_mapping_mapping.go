package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelAccountMapping converts a domain AccountMapping to its model form.
func ToModelAccountMapping(d domain.AccountMapping) models.AccountMapping {
	return models.AccountMapping{
		MappingID:       d.MappingID,
		TransactionType: string(d.TransactionType),
		AccountID:       d.AccountID,
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountMapping converts a model AccountMapping to its domain form.
func ToDomainAccountMapping(m models.AccountMapping) domain.AccountMapping {
	return domain.AccountMapping{
		MappingID:       m.MappingID,
		TransactionType: domain.MappingTransactionType(m.TransactionType),
		AccountID:       m.AccountID,
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
