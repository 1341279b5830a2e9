package mapping

import (
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to its model form.
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID: d.BankAccountID,
		Name:          d.Name,
		AccountNumber: d.AccountNumber,
		BankName:      d.BankName,
		GLAccountID:   d.GLAccountID,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to its domain form.
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID: m.BankAccountID,
		Name:          m.Name,
		AccountNumber: m.AccountNumber,
		BankName:      m.BankName,
		GLAccountID:   m.GLAccountID,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankStatement converts a domain BankStatement to its model form.
func ToModelBankStatement(d domain.BankStatement) models.BankStatement {
	return models.BankStatement{
		StatementID:     d.StatementID,
		StatementNumber: d.StatementNumber,
		BankAccountID:   d.BankAccountID,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		OpeningBalance:  d.OpeningBalance,
		ClosingBalance:  d.ClosingBalance,
		TotalDebits:     d.TotalDebits,
		TotalCredits:    d.TotalCredits,
		Status:          string(d.Status),
		ReconciledAt:    d.ReconciledAt,
		ReconciledBy:    d.ReconciledBy,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankStatement converts a model BankStatement to its domain form.
func ToDomainBankStatement(m models.BankStatement) domain.BankStatement {
	return domain.BankStatement{
		StatementID:     m.StatementID,
		StatementNumber: m.StatementNumber,
		BankAccountID:   m.BankAccountID,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		OpeningBalance:  m.OpeningBalance,
		ClosingBalance:  m.ClosingBalance,
		TotalDebits:     m.TotalDebits,
		TotalCredits:    m.TotalCredits,
		Status:          domain.StatementStatus(m.Status),
		ReconciledAt:    m.ReconciledAt,
		ReconciledBy:    m.ReconciledBy,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStatementLine converts a domain BankStatementLine to its model form.
func ToModelStatementLine(d domain.BankStatementLine) models.BankStatementLine {
	return models.BankStatementLine{
		LineID:               d.LineID,
		StatementID:          d.StatementID,
		LineNumber:           d.LineNumber,
		TransactionDate:      d.TransactionDate,
		ValueDate:            d.ValueDate,
		Description:          d.Description,
		Reference:            d.Reference,
		Debit:                d.Debit,
		Credit:               d.Credit,
		Balance:              d.Balance,
		ReconciliationStatus: string(d.ReconciliationStatus),
		MatchMethod:          string(d.MatchMethod),
		MatchedRecordType:    string(d.MatchedRecordType),
		MatchedPaymentID:     strPtrOrNil(d.MatchedPaymentID),
		MatchedJournalLineID: strPtrOrNil(d.MatchedJournalLineID),
		AdjustmentEntryID:    strPtrOrNil(d.AdjustmentEntryID),
		MatchedAt:            d.MatchedAt,
		MatchedBy:            d.MatchedBy,
	}
}

// ToDomainStatementLine converts a model BankStatementLine to its domain form.
func ToDomainStatementLine(m models.BankStatementLine) domain.BankStatementLine {
	return domain.BankStatementLine{
		LineID:               m.LineID,
		StatementID:          m.StatementID,
		LineNumber:           m.LineNumber,
		TransactionDate:      m.TransactionDate,
		ValueDate:            m.ValueDate,
		Description:          m.Description,
		Reference:            m.Reference,
		Debit:                m.Debit,
		Credit:               m.Credit,
		Balance:              m.Balance,
		ReconciliationStatus: domain.ReconciliationStatus(m.ReconciliationStatus),
		MatchMethod:          domain.MatchMethod(m.MatchMethod),
		MatchedRecordType:    domain.MatchedRecordType(m.MatchedRecordType),
		MatchedPaymentID:     strOrEmpty(m.MatchedPaymentID),
		MatchedJournalLineID: strOrEmpty(m.MatchedJournalLineID),
		AdjustmentEntryID:    strOrEmpty(m.AdjustmentEntryID),
		MatchedAt:            m.MatchedAt,
		MatchedBy:            m.MatchedBy,
	}
}
