package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountCategory groups accounts for trial balance and financial statement
// presentation. Optional; posting logic never depends on it.
type AccountCategory string

const (
	CategoryCashBank         AccountCategory = "CASH_BANK"
	CategoryTradeReceivables AccountCategory = "TRADE_RECEIVABLES"
	CategoryPDCControl       AccountCategory = "PDC_CONTROL"
	CategoryTradePayables    AccountCategory = "TRADE_PAYABLES"
	CategoryOperatingRevenue AccountCategory = "OPERATING_REVENUE"
	CategoryOtherIncome      AccountCategory = "OTHER_INCOME"
	CategoryBankingExpense   AccountCategory = "BANKING_EXPENSE"
	CategoryOtherExpense     AccountCategory = "OTHER_EXPENSE"
)

// Account is a node in the chart of accounts. Only leaf accounts (no active
// children) may receive journal lines; parent accounts exist for grouping.
// Balance reflects the cumulative effect of posted lines only and is written
// exclusively by the ledger engine's posting path.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"` // Unique
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	AccountCategory AccountCategory `json:"accountCategory,omitempty"`
	ParentAccountID string          `json:"parentAccountID,omitempty"` // Nullable, self-referencing
	Description     string          `json:"description,omitempty"`

	// Contra accounts carry the opposite normal balance (e.g. Accumulated
	// Depreciation). The flag is presentation metadata; posting sign is
	// derived from AccountType alone.
	IsContra         bool `json:"isContra"`
	IsCashAccount    bool `json:"isCashAccount"`
	IsSystem         bool `json:"isSystem"`
	OverdraftAllowed bool `json:"overdraftAllowed"`

	OpeningBalance decimal.Decimal `json:"openingBalance"`
	// OpeningBalanceLocked flips on the account's first posting; the opening
	// balance is immutable from then on.
	OpeningBalanceLocked bool            `json:"openingBalanceLocked"`
	Balance              decimal.Decimal `json:"balance"`

	IsActive bool `json:"isActive"` // Soft-deactivate, never delete
	AuditFields
}

// DebitIncreases reports whether debits increase this account's balance.
// Assets and expenses are debit-increasing; liabilities, equity and income
// are credit-increasing.
func (a *Account) DebitIncreases() bool {
	return a.AccountType == Asset || a.AccountType == Expense
}

// CurrentBalance returns opening balance plus posted activity.
func (a *Account) CurrentBalance() decimal.Decimal {
	return a.OpeningBalance.Add(a.Balance)
}

// HasAbnormalBalance reports whether the balance has the opposite sign of the
// account's normal balance.
func (a *Account) HasAbnormalBalance() bool {
	if a.DebitIncreases() {
		return a.Balance.IsNegative()
	}
	return a.Balance.IsPositive()
}
