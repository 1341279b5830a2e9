package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:            d.AccountID,
		Code:                 d.Code,
		Name:                 d.Name,
		AccountType:          string(d.AccountType),
		AccountCategory:      string(d.AccountCategory),
		ParentAccountID:      strPtrOrNil(d.ParentAccountID),
		Description:          d.Description,
		IsContra:             d.IsContra,
		IsCashAccount:        d.IsCashAccount,
		IsSystem:             d.IsSystem,
		OverdraftAllowed:     d.OverdraftAllowed,
		OpeningBalance:       d.OpeningBalance,
		OpeningBalanceLocked: d.OpeningBalanceLocked,
		Balance:              d.Balance,
		IsActive:             d.IsActive,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:            m.AccountID,
		Code:                 m.Code,
		Name:                 m.Name,
		AccountType:          domain.AccountType(m.AccountType),
		AccountCategory:      domain.AccountCategory(m.AccountCategory),
		ParentAccountID:      strOrEmpty(m.ParentAccountID),
		Description:          m.Description,
		IsContra:             m.IsContra,
		IsCashAccount:        m.IsCashAccount,
		IsSystem:             m.IsSystem,
		OverdraftAllowed:     m.OverdraftAllowed,
		OpeningBalance:       m.OpeningBalance,
		OpeningBalanceLocked: m.OpeningBalanceLocked,
		Balance:              m.Balance,
		IsActive:             m.IsActive,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
