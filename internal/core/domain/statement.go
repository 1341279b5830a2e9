package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementStatus is the lifecycle state of a bank statement.
type StatementStatus string

const (
	StatementDraft      StatementStatus = "DRAFT"
	StatementInProgress StatementStatus = "IN_PROGRESS"
	StatementReconciled StatementStatus = "RECONCILED"
	StatementLocked     StatementStatus = "LOCKED"
)

// BalanceTolerance is the maximum absolute difference accepted between the
// declared closing balance and opening + credits - debits at finalize time.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// BankStatement is an imported statement for one bank account over a date
// range. Lines are matched against internal records until the declared
// closing balance is proven consistent, then the statement is finalized
// and optionally locked.
type BankStatement struct {
	StatementID     string          `json:"statementID"`
	StatementNumber string          `json:"statementNumber"`
	BankAccountID   string          `json:"bankAccountID"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"` // As declared by the bank
	ClosingBalance  decimal.Decimal `json:"closingBalance"`
	TotalDebits     decimal.Decimal `json:"totalDebits"` // Computed from lines
	TotalCredits    decimal.Decimal `json:"totalCredits"`
	Status          StatementStatus `json:"status"`
	ReconciledAt    *time.Time      `json:"reconciledAt,omitempty"`
	ReconciledBy    string          `json:"reconciledBy,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	AuditFields
}

// IsMutable reports whether lines may still be imported or re-matched.
func (s *BankStatement) IsMutable() bool {
	return s.Status == StatementDraft || s.Status == StatementInProgress
}

// BalanceDifference returns declared closing minus (opening + credits - debits).
func (s *BankStatement) BalanceDifference() decimal.Decimal {
	calculated := s.OpeningBalance.Add(s.TotalCredits).Sub(s.TotalDebits)
	return s.ClosingBalance.Sub(calculated)
}

// BalanceValid reports whether the declared closing balance is within
// tolerance of the computed one.
func (s *BankStatement) BalanceValid() bool {
	return s.BalanceDifference().Abs().LessThan(BalanceTolerance)
}

// ReconciliationStatus is the match state of a single statement line.
type ReconciliationStatus string

const (
	LineUnmatched ReconciliationStatus = "UNMATCHED"
	LineMatched   ReconciliationStatus = "MATCHED"
	LineAdjusted  ReconciliationStatus = "ADJUSTED"
)

// MatchMethod records whether a match was made automatically or by a person.
type MatchMethod string

const (
	MatchAuto   MatchMethod = "AUTO"
	MatchManual MatchMethod = "MANUAL"
)

// MatchedRecordType identifies which kind of internal record a line matched.
type MatchedRecordType string

const (
	MatchedPayment    MatchedRecordType = "PAYMENT"
	MatchedJournal    MatchedRecordType = "JOURNAL"
	MatchedAdjustment MatchedRecordType = "ADJUSTMENT"
)

// BankStatementLine is one statement row, bank perspective: debit is money
// out, credit is money in. A matched line points at exactly one internal
// record; unmatch clears every pointer.
type BankStatementLine struct {
	LineID          string          `json:"lineID"`
	StatementID     string          `json:"statementID"`
	LineNumber      int             `json:"lineNumber"`
	TransactionDate time.Time       `json:"transactionDate"`
	ValueDate       *time.Time      `json:"valueDate,omitempty"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference,omitempty"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Balance         decimal.Decimal `json:"balance"` // Running balance per the bank

	ReconciliationStatus ReconciliationStatus `json:"reconciliationStatus"`
	MatchMethod          MatchMethod          `json:"matchMethod,omitempty"`
	MatchedRecordType    MatchedRecordType    `json:"matchedRecordType,omitempty"`

	MatchedPaymentID     string `json:"matchedPaymentID,omitempty"`
	MatchedJournalLineID string `json:"matchedJournalLineID,omitempty"`
	AdjustmentEntryID    string `json:"adjustmentEntryID,omitempty"`

	MatchedAt *time.Time `json:"matchedAt,omitempty"`
	MatchedBy string     `json:"matchedBy,omitempty"`
}

// NetAmount is credit minus debit: positive for money in.
func (l *BankStatementLine) NetAmount() decimal.Decimal {
	return l.Credit.Sub(l.Debit)
}

// Amount is the absolute transaction amount regardless of direction.
func (l *BankStatementLine) Amount() decimal.Decimal {
	if l.Credit.IsPositive() {
		return l.Credit
	}
	return l.Debit
}

// IsInflow reports whether the line represents money coming into the bank.
func (l *BankStatementLine) IsInflow() bool {
	return l.Credit.IsPositive()
}

// BankAccount anchors statements and payments to a GL account. The GL account
// is the only place balances live; BankAccount itself holds no money.
type BankAccount struct {
	BankAccountID string `json:"bankAccountID"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	GLAccountID   string `json:"glAccountID"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}
