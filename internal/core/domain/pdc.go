package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PDCStatus is the lifecycle state of a post-dated cheque.
type PDCStatus string

const (
	PDCReceived  PDCStatus = "RECEIVED"
	PDCDeposited PDCStatus = "DEPOSITED"
	PDCCleared   PDCStatus = "CLEARED"
	PDCBounced   PDCStatus = "BOUNCED"
	PDCReturned  PDCStatus = "RETURNED"
	PDCReplaced  PDCStatus = "REPLACED"
	PDCCancelled PDCStatus = "CANCELLED"
)

// DepositStatus tracks the banking side of a deposited cheque.
type DepositStatus string

const (
	DepositPending    DepositStatus = "PENDING"
	DepositInClearing DepositStatus = "IN_CLEARING"
	DepositCleared    DepositStatus = "CLEARED"
	DepositBounced    DepositStatus = "BOUNCED"
)

// PDCPurpose is what the cheque pays for.
type PDCPurpose string

const (
	PurposeRent            PDCPurpose = "RENT"
	PurposeSecurityDeposit PDCPurpose = "SECURITY_DEPOSIT"
	PurposeMaintenance     PDCPurpose = "MAINTENANCE"
	PurposeOther           PDCPurpose = "OTHER"
)

// PDCCheque is a post-dated cheque tracked through the PDC control account
// until it clears into the bank. Identity is the composite
// (cheque number, bank name, cheque date, amount, tenant): the same physical
// cheque attributes can legitimately belong to different tenants.
//
// deposit() moves value Dr PDC-Control / Cr Tenant-AR; clear() moves it
// Dr Bank / Cr PDC-Control; bounce() restores the receivable from whichever
// account last held the value. All accounting goes through the ledger engine.
type PDCCheque struct {
	PDCID     string `json:"pdcID"`
	PDCNumber string `json:"pdcNumber"`

	ChequeNumber string          `json:"chequeNumber"`
	BankName     string          `json:"bankName"`
	ChequeDate   time.Time       `json:"chequeDate"`
	Amount       decimal.Decimal `json:"amount"`
	TenantID     string          `json:"tenantID"`

	DrawerName string     `json:"drawerName,omitempty"`
	Purpose    PDCPurpose `json:"purpose"`

	Status        PDCStatus     `json:"status"`
	DepositStatus DepositStatus `json:"depositStatus"`

	ReceivedDate      time.Time  `json:"receivedDate"`
	DepositedDate     *time.Time `json:"depositedDate,omitempty"`
	DepositedToBankID string     `json:"depositedToBankID,omitempty"`
	ClearedDate       *time.Time `json:"clearedDate,omitempty"`
	ClearingReference string     `json:"clearingReference,omitempty"`

	DepositEntryID  string `json:"depositEntryID,omitempty"`
	ClearingEntryID string `json:"clearingEntryID,omitempty"`
	BounceEntryID   string `json:"bounceEntryID,omitempty"`

	BounceDate    *time.Time      `json:"bounceDate,omitempty"`
	BounceReason  string          `json:"bounceReason,omitempty"`
	BounceCharges decimal.Decimal `json:"bounceCharges"`

	ReplacedByID string `json:"replacedByID,omitempty"`

	StatementLineID string     `json:"statementLineID,omitempty"`
	Reconciled      bool       `json:"reconciled"`
	ReconciledAt    *time.Time `json:"reconciledAt,omitempty"`
	ReconciledBy    string     `json:"reconciledBy,omitempty"`

	Notes string `json:"notes,omitempty"`
	AuditFields
}

// IsOutstanding reports whether the cheque is deposited and waiting to clear.
// Outstanding cheques are the PDC candidates for statement matching.
func (p *PDCCheque) IsOutstanding() bool {
	return p.Status == PDCDeposited && p.DepositStatus == DepositInClearing
}

// CanBounce reports whether the bounce transition is legal: a cheque can
// bounce while in clearing or even after it initially cleared.
func (p *PDCCheque) CanBounce() bool {
	return p.Status == PDCDeposited || p.Status == PDCCleared
}

// Tenant is the payer behind one or more PDCs. Tenant administration is an
// external concern; the engine only needs the AR account binding.
type Tenant struct {
	TenantID    string `json:"tenantID"`
	Name        string `json:"name"`
	ARAccountID string `json:"arAccountID"` // Receivable account for this tenant
	IsActive    bool   `json:"isActive"`
	AuditFields
}
