package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	Name          string `json:"name" binding:"required"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	GLAccountID   string `json:"glAccountID" binding:"required"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID string `json:"bankAccountID"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	GLAccountID   string `json:"glAccountID"`
	IsActive      bool   `json:"isActive"`
}

// CreateStatementRequest defines the data needed to open a statement.
type CreateStatementRequest struct {
	BankAccountID  string          `json:"bankAccountID" binding:"required"`
	StartDate      time.Time       `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate        time.Time       `json:"endDate" binding:"required" time_format:"2006-01-02"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Notes          string          `json:"notes"`
}

// StatementLineResponse defines the data returned for a statement line.
type StatementLineResponse struct {
	LineID               string                      `json:"lineID"`
	StatementID          string                      `json:"statementID"`
	LineNumber           int                         `json:"lineNumber"`
	TransactionDate      time.Time                   `json:"transactionDate"`
	ValueDate            *time.Time                  `json:"valueDate,omitempty"`
	Description          string                      `json:"description"`
	Reference            string                      `json:"reference,omitempty"`
	Debit                decimal.Decimal             `json:"debit"`
	Credit               decimal.Decimal             `json:"credit"`
	Balance              decimal.Decimal             `json:"balance"`
	ReconciliationStatus domain.ReconciliationStatus `json:"reconciliationStatus"`
	MatchMethod          domain.MatchMethod          `json:"matchMethod,omitempty"`
	MatchedRecordType    domain.MatchedRecordType    `json:"matchedRecordType,omitempty"`
	MatchedPaymentID     string                      `json:"matchedPaymentID,omitempty"`
	MatchedJournalLineID string                      `json:"matchedJournalLineID,omitempty"`
	AdjustmentEntryID    string                      `json:"adjustmentEntryID,omitempty"`
	MatchedAt            *time.Time                  `json:"matchedAt,omitempty"`
	MatchedBy            string                      `json:"matchedBy,omitempty"`
}

// StatementResponse defines the data returned for a bank statement.
type StatementResponse struct {
	StatementID       string                  `json:"statementID"`
	StatementNumber   string                  `json:"statementNumber"`
	BankAccountID     string                  `json:"bankAccountID"`
	StartDate         time.Time               `json:"startDate"`
	EndDate           time.Time               `json:"endDate"`
	OpeningBalance    decimal.Decimal         `json:"openingBalance"`
	ClosingBalance    decimal.Decimal         `json:"closingBalance"`
	TotalDebits       decimal.Decimal         `json:"totalDebits"`
	TotalCredits      decimal.Decimal         `json:"totalCredits"`
	BalanceDifference decimal.Decimal         `json:"balanceDifference"`
	Status            domain.StatementStatus  `json:"status"`
	Notes             string                  `json:"notes,omitempty"`
	ReconciledAt      *time.Time              `json:"reconciledAt,omitempty"`
	ReconciledBy      string                  `json:"reconciledBy,omitempty"`
	Lines             []StatementLineResponse `json:"lines,omitempty"`
}

// ListStatementsParams defines filters for statement listings.
type ListStatementsParams struct {
	BankAccountID string `form:"bankAccountID"`
	Limit         int    `form:"limit"`
	NextToken     string `form:"nextToken"`
}

// ListStatementsResponse wraps a page of statements.
type ListStatementsResponse struct {
	Statements []StatementResponse `json:"statements"`
	NextToken  string              `json:"nextToken,omitempty"`
}

// ImportLinesResult reports the outcome of a statement import.
type ImportLinesResult struct {
	StatementID   string `json:"statementID"`
	LinesImported int    `json:"linesImported"`
	LinesSkipped  int    `json:"linesSkipped"`
}

// MatchPaymentRequest links a statement line to a payment by hand.
type MatchPaymentRequest struct {
	PaymentID string `json:"paymentID" binding:"required"`
}

// MatchJournalRequest links a statement line to a journal line by hand.
type MatchJournalRequest struct {
	JournalLineID string `json:"journalLineID" binding:"required"`
}

// CreateAdjustmentRequest books a bank-originated item the ledger missed.
type CreateAdjustmentRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Description string `json:"description"`
}

// AutoMatchResult reports an auto-match run over a statement.
type AutoMatchResult struct {
	StatementID        string `json:"statementID"`
	LinesExamined      int    `json:"linesExamined"`
	PaymentMatches     int    `json:"paymentMatches"`
	JournalMatches     int    `json:"journalMatches"`
	PDCMatches         int    `json:"pdcMatches"`
	AmbiguousLines     int    `json:"ambiguousLines"`
	UnmatchedRemaining int    `json:"unmatchedRemaining"`
}

// ToBankAccountResponse converts a domain.BankAccount.
func ToBankAccountResponse(ba *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID: ba.BankAccountID,
		Name:          ba.Name,
		AccountNumber: ba.AccountNumber,
		BankName:      ba.BankName,
		GLAccountID:   ba.GLAccountID,
		IsActive:      ba.IsActive,
	}
}

// ToStatementLineResponse converts a domain.BankStatementLine.
func ToStatementLineResponse(l *domain.BankStatementLine) StatementLineResponse {
	return StatementLineResponse{
		LineID:               l.LineID,
		StatementID:          l.StatementID,
		LineNumber:           l.LineNumber,
		TransactionDate:      l.TransactionDate,
		ValueDate:            l.ValueDate,
		Description:          l.Description,
		Reference:            l.Reference,
		Debit:                l.Debit,
		Credit:               l.Credit,
		Balance:              l.Balance,
		ReconciliationStatus: l.ReconciliationStatus,
		MatchMethod:          l.MatchMethod,
		MatchedRecordType:    l.MatchedRecordType,
		MatchedPaymentID:     l.MatchedPaymentID,
		MatchedJournalLineID: l.MatchedJournalLineID,
		AdjustmentEntryID:    l.AdjustmentEntryID,
		MatchedAt:            l.MatchedAt,
		MatchedBy:            l.MatchedBy,
	}
}

// ToStatementResponse converts a domain.BankStatement with optional lines.
func ToStatementResponse(s *domain.BankStatement, lines []domain.BankStatementLine) StatementResponse {
	resp := StatementResponse{
		StatementID:       s.StatementID,
		StatementNumber:   s.StatementNumber,
		BankAccountID:     s.BankAccountID,
		StartDate:         s.StartDate,
		EndDate:           s.EndDate,
		OpeningBalance:    s.OpeningBalance,
		ClosingBalance:    s.ClosingBalance,
		TotalDebits:       s.TotalDebits,
		TotalCredits:      s.TotalCredits,
		BalanceDifference: s.BalanceDifference(),
		Status:            s.Status,
		Notes:             s.Notes,
		ReconciledAt:      s.ReconciledAt,
		ReconciledBy:      s.ReconciledBy,
	}
	if len(lines) > 0 {
		resp.Lines = make([]StatementLineResponse, len(lines))
		for i := range lines {
			resp.Lines[i] = ToStatementLineResponse(&lines[i])
		}
	}
	return resp
}

// ToStatementResponses converts a slice of domain.BankStatement.
func ToStatementResponses(stmts []domain.BankStatement) []StatementResponse {
	responses := make([]StatementResponse, len(stmts))
	for i := range stmts {
		responses[i] = ToStatementResponse(&stmts[i], nil)
	}
	return responses
}
