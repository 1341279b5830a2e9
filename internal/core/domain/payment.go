package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType distinguishes money received from money paid out.
type PaymentType string

const (
	PaymentReceived PaymentType = "RECEIVED"
	PaymentMade     PaymentType = "MADE"
)

// PaymentStatus is the lifecycle state of a payment. Only confirmed payments
// are candidates for statement matching; finalize marks them reconciled.
type PaymentStatus string

const (
	PaymentDraft      PaymentStatus = "DRAFT"
	PaymentConfirmed  PaymentStatus = "CONFIRMED"
	PaymentReconciled PaymentStatus = "RECONCILED"
	PaymentCancelled  PaymentStatus = "CANCELLED"
)

// PaymentMethod is how the payment moved.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "CASH"
	MethodBank   PaymentMethod = "BANK"
	MethodCheque PaymentMethod = "CHEQUE"
	MethodCard   PaymentMethod = "CARD"
)

// Payment is a recorded cash movement produced by external modules (sales,
// purchase, payroll). The reconciliation matcher consumes confirmed payments
// as match candidates.
type Payment struct {
	PaymentID     string          `json:"paymentID"`
	PaymentNumber string          `json:"paymentNumber"`
	PaymentType   PaymentType     `json:"paymentType"`
	Method        PaymentMethod   `json:"method"`
	PaymentDate   time.Time       `json:"paymentDate"`
	PartyName     string          `json:"partyName"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference,omitempty"`
	Status        PaymentStatus   `json:"status"`
	BankAccountID string          `json:"bankAccountID,omitempty"`
	EntryID       string          `json:"entryID,omitempty"` // Linked journal entry
	AuditFields
}
