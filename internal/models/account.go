package models

import (
	"github.com/shopspring/decimal"
)

// Account is the database row for a chart-of-accounts entry.
type Account struct {
	AccountID            string          `db:"account_id"`
	Code                 string          `db:"code"`
	Name                 string          `db:"name"`
	AccountType          string          `db:"account_type"`
	AccountCategory      string          `db:"account_category"`
	ParentAccountID      *string         `db:"parent_account_id"` // Nullable
	Description          string          `db:"description"`
	IsContra             bool            `db:"is_contra"`
	IsCashAccount        bool            `db:"is_cash_account"`
	IsSystem             bool            `db:"is_system"`
	OverdraftAllowed     bool            `db:"overdraft_allowed"`
	OpeningBalance       decimal.Decimal `db:"opening_balance"`
	OpeningBalanceLocked bool            `db:"opening_balance_locked"`
	Balance              decimal.Decimal `db:"balance"` // Movements only, opening balance excluded
	IsActive             bool            `db:"is_active"`
	AuditFields
}
