package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is the database row for a registered bank account.
type BankAccount struct {
	BankAccountID string `db:"bank_account_id"`
	Name          string `db:"name"`
	AccountNumber string `db:"account_number"`
	BankName      string `db:"bank_name"`
	GLAccountID   string `db:"gl_account_id"`
	IsActive      bool   `db:"is_active"`
	AuditFields
}

// BankStatement is the database row for an imported bank statement.
type BankStatement struct {
	StatementID     string          `db:"statement_id"`
	StatementNumber string          `db:"statement_number"`
	BankAccountID   string          `db:"bank_account_id"`
	StartDate       time.Time       `db:"start_date"`
	EndDate         time.Time       `db:"end_date"`
	OpeningBalance  decimal.Decimal `db:"opening_balance"`
	ClosingBalance  decimal.Decimal `db:"closing_balance"`
	TotalDebits     decimal.Decimal `db:"total_debits"`
	TotalCredits    decimal.Decimal `db:"total_credits"`
	Status          string          `db:"status"`
	ReconciledAt    *time.Time      `db:"reconciled_at"`
	ReconciledBy    string          `db:"reconciled_by"`
	Notes           string          `db:"notes"`
	AuditFields
}

// BankStatementLine is the database row for one statement row. The matched_*
// columns are mutually exclusive; partial unique indexes keep a payment or
// journal line from being claimed twice.
type BankStatementLine struct {
	LineID               string          `db:"line_id"`
	StatementID          string          `db:"statement_id"`
	LineNumber           int             `db:"line_number"`
	TransactionDate      time.Time       `db:"transaction_date"`
	ValueDate            *time.Time      `db:"value_date"`
	Description          string          `db:"description"`
	Reference            string          `db:"reference"`
	Debit                decimal.Decimal `db:"debit"`
	Credit               decimal.Decimal `db:"credit"`
	Balance              decimal.Decimal `db:"balance"`
	ReconciliationStatus string          `db:"reconciliation_status"`
	MatchMethod          string          `db:"match_method"`
	MatchedRecordType    string          `db:"matched_record_type"`
	MatchedPaymentID     *string         `db:"matched_payment_id"`
	MatchedJournalLineID *string         `db:"matched_journal_line_id"`
	AdjustmentEntryID    *string         `db:"adjustment_entry_id"`
	MatchedAt            *time.Time      `db:"matched_at"`
	MatchedBy            string          `db:"matched_by"`
}
