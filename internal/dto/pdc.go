package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// CreatePDCRequest defines the data needed to register a received cheque.
type CreatePDCRequest struct {
	ChequeNumber string            `json:"chequeNumber" binding:"required"`
	BankName     string            `json:"bankName" binding:"required"`
	ChequeDate   time.Time         `json:"chequeDate" binding:"required" time_format:"2006-01-02"`
	Amount       decimal.Decimal   `json:"amount" binding:"required,dec_positive"`
	TenantID     string            `json:"tenantID" binding:"required"`
	DrawerName   string            `json:"drawerName"`
	Purpose      domain.PDCPurpose `json:"purpose"`
	ReceivedDate time.Time         `json:"receivedDate" time_format:"2006-01-02"`
	Notes        string            `json:"notes"`
}

// DepositPDCRequest moves a received cheque into clearing.
type DepositPDCRequest struct {
	BankAccountID string     `json:"bankAccountID" binding:"required"`
	DepositDate   *time.Time `json:"depositDate" time_format:"2006-01-02"`
}

// ClearPDCRequest confirms the bank honored a deposited cheque.
type ClearPDCRequest struct {
	ClearedDate       *time.Time `json:"clearedDate" time_format:"2006-01-02"`
	ClearingReference string     `json:"clearingReference"`
}

// BouncePDCRequest records a cheque the bank refused.
type BouncePDCRequest struct {
	Reason        string          `json:"reason" binding:"required"`
	BounceDate    *time.Time      `json:"bounceDate" time_format:"2006-01-02"`
	BounceCharges decimal.Decimal `json:"bounceCharges"`
}

// ReplacePDCRequest swaps a bounced or returned cheque for a new one.
type ReplacePDCRequest struct {
	ChequeNumber string          `json:"chequeNumber" binding:"required"`
	BankName     string          `json:"bankName" binding:"required"`
	ChequeDate   time.Time       `json:"chequeDate" binding:"required" time_format:"2006-01-02"`
	Amount       decimal.Decimal `json:"amount" binding:"required,dec_positive"`
	Notes        string          `json:"notes"`
}

// PDCResponse defines the data returned for a post-dated cheque.
type PDCResponse struct {
	PDCID             string               `json:"pdcID"`
	PDCNumber         string               `json:"pdcNumber"`
	ChequeNumber      string               `json:"chequeNumber"`
	BankName          string               `json:"bankName"`
	ChequeDate        time.Time            `json:"chequeDate"`
	Amount            decimal.Decimal      `json:"amount"`
	TenantID          string               `json:"tenantID"`
	DrawerName        string               `json:"drawerName,omitempty"`
	Purpose           domain.PDCPurpose    `json:"purpose"`
	Status            domain.PDCStatus     `json:"status"`
	DepositStatus     domain.DepositStatus `json:"depositStatus"`
	ReceivedDate      time.Time            `json:"receivedDate"`
	DepositedDate     *time.Time           `json:"depositedDate,omitempty"`
	DepositedToBankID string               `json:"depositedToBankID,omitempty"`
	ClearedDate       *time.Time           `json:"clearedDate,omitempty"`
	ClearingReference string               `json:"clearingReference,omitempty"`
	DepositEntryID    string               `json:"depositEntryID,omitempty"`
	ClearingEntryID   string               `json:"clearingEntryID,omitempty"`
	BounceEntryID     string               `json:"bounceEntryID,omitempty"`
	BounceDate        *time.Time           `json:"bounceDate,omitempty"`
	BounceReason      string               `json:"bounceReason,omitempty"`
	BounceCharges     decimal.Decimal      `json:"bounceCharges"`
	ReplacedByID      string               `json:"replacedByID,omitempty"`
	StatementLineID   string               `json:"statementLineID,omitempty"`
	Reconciled        bool                 `json:"reconciled"`
	Notes             string               `json:"notes,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	CreatedBy         string               `json:"createdBy"`
}

// ListPDCsParams defines filters for cheque listings.
type ListPDCsParams struct {
	Status    domain.PDCStatus `form:"status"`
	Limit     int              `form:"limit"`
	NextToken string           `form:"nextToken"`
}

// ListPDCsResponse wraps a page of cheques.
type ListPDCsResponse struct {
	PDCs      []PDCResponse `json:"pdcs"`
	NextToken string        `json:"nextToken,omitempty"`
}

// CreateTenantRequest defines the data needed to register a tenant.
type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required"`
	ARAccountID string `json:"arAccountID" binding:"required"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID    string `json:"tenantID"`
	Name        string `json:"name"`
	ARAccountID string `json:"arAccountID"`
	IsActive    bool   `json:"isActive"`
}

// ToPDCResponse converts a domain.PDCCheque.
func ToPDCResponse(p *domain.PDCCheque) PDCResponse {
	return PDCResponse{
		PDCID:             p.PDCID,
		PDCNumber:         p.PDCNumber,
		ChequeNumber:      p.ChequeNumber,
		BankName:          p.BankName,
		ChequeDate:        p.ChequeDate,
		Amount:            p.Amount,
		TenantID:          p.TenantID,
		DrawerName:        p.DrawerName,
		Purpose:           p.Purpose,
		Status:            p.Status,
		DepositStatus:     p.DepositStatus,
		ReceivedDate:      p.ReceivedDate,
		DepositedDate:     p.DepositedDate,
		DepositedToBankID: p.DepositedToBankID,
		ClearedDate:       p.ClearedDate,
		ClearingReference: p.ClearingReference,
		DepositEntryID:    p.DepositEntryID,
		ClearingEntryID:   p.ClearingEntryID,
		BounceEntryID:     p.BounceEntryID,
		BounceDate:        p.BounceDate,
		BounceReason:      p.BounceReason,
		BounceCharges:     p.BounceCharges,
		ReplacedByID:      p.ReplacedByID,
		StatementLineID:   p.StatementLineID,
		Reconciled:        p.Reconciled,
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt,
		CreatedBy:         p.CreatedBy,
	}
}

// ToPDCResponses converts a slice of domain.PDCCheque.
func ToPDCResponses(pdcs []domain.PDCCheque) []PDCResponse {
	responses := make([]PDCResponse, len(pdcs))
	for i := range pdcs {
		responses[i] = ToPDCResponse(&pdcs[i])
	}
	return responses
}

// ToTenantResponse converts a domain.Tenant.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:    t.TenantID,
		Name:        t.Name,
		ARAccountID: t.ARAccountID,
		IsActive:    t.IsActive,
	}
}
