package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the database row for a recorded cash movement.
type Payment struct {
	PaymentID     string          `db:"payment_id"`
	PaymentNumber string          `db:"payment_number"`
	PaymentType   string          `db:"payment_type"`
	Method        string          `db:"method"`
	PaymentDate   time.Time       `db:"payment_date"`
	PartyName     string          `db:"party_name"`
	Amount        decimal.Decimal `db:"amount"`
	Reference     string          `db:"reference"`
	Status        string          `db:"status"`
	BankAccountID *string         `db:"bank_account_id"`
	EntryID       *string         `db:"entry_id"`
	AuditFields
}
