package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PDCCheque is the database row for a post-dated cheque. A unique constraint
// over (cheque_number, bank_name, cheque_date, amount, tenant_id) enforces
// the composite cheque identity.
type PDCCheque struct {
	PDCID             string          `db:"pdc_id"`
	PDCNumber         string          `db:"pdc_number"`
	ChequeNumber      string          `db:"cheque_number"`
	BankName          string          `db:"bank_name"`
	ChequeDate        time.Time       `db:"cheque_date"`
	Amount            decimal.Decimal `db:"amount"`
	TenantID          string          `db:"tenant_id"`
	DrawerName        string          `db:"drawer_name"`
	Purpose           string          `db:"purpose"`
	Status            string          `db:"status"`
	DepositStatus     string          `db:"deposit_status"`
	ReceivedDate      time.Time       `db:"received_date"`
	DepositedDate     *time.Time      `db:"deposited_date"`
	DepositedToBankID *string         `db:"deposited_to_bank_id"`
	ClearedDate       *time.Time      `db:"cleared_date"`
	ClearingReference string          `db:"clearing_reference"`
	DepositEntryID    *string         `db:"deposit_entry_id"`
	ClearingEntryID   *string         `db:"clearing_entry_id"`
	BounceEntryID     *string         `db:"bounce_entry_id"`
	BounceDate        *time.Time      `db:"bounce_date"`
	BounceReason      string          `db:"bounce_reason"`
	BounceCharges     decimal.Decimal `db:"bounce_charges"`
	ReplacedByID      *string         `db:"replaced_by_id"`
	StatementLineID   *string         `db:"statement_line_id"`
	Reconciled        bool            `db:"reconciled"`
	ReconciledAt      *time.Time      `db:"reconciled_at"`
	ReconciledBy      string          `db:"reconciled_by"`
	Notes             string          `db:"notes"`
	AuditFields
}

// Tenant is the database row for a cheque payer.
type Tenant struct {
	TenantID    string `db:"tenant_id"`
	Name        string `db:"name"`
	ARAccountID string `db:"ar_account_id"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
