package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// CreatePaymentRequest defines the data needed to record a payment.
type CreatePaymentRequest struct {
	PaymentType   domain.PaymentType   `json:"paymentType" binding:"required,oneof=RECEIVED MADE"`
	Method        domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK CHEQUE CARD"`
	PaymentDate   time.Time            `json:"paymentDate" binding:"required" time_format:"2006-01-02"`
	PartyName     string               `json:"partyName" binding:"required"`
	Amount        decimal.Decimal      `json:"amount" binding:"required,dec_positive"`
	Reference     string               `json:"reference"`
	BankAccountID string               `json:"bankAccountID"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID     string               `json:"paymentID"`
	PaymentNumber string               `json:"paymentNumber"`
	PaymentType   domain.PaymentType   `json:"paymentType"`
	Method        domain.PaymentMethod `json:"method"`
	PaymentDate   time.Time            `json:"paymentDate"`
	PartyName     string               `json:"partyName"`
	Amount        decimal.Decimal      `json:"amount"`
	Reference     string               `json:"reference,omitempty"`
	Status        domain.PaymentStatus `json:"status"`
	BankAccountID string               `json:"bankAccountID,omitempty"`
	EntryID       string               `json:"entryID,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// ListPaymentsParams defines filters for payment listings.
type ListPaymentsParams struct {
	BankAccountID string `form:"bankAccountID"`
	Limit         int    `form:"limit"`
	NextToken     string `form:"nextToken"`
}

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToPaymentResponse converts a domain.Payment.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		PaymentNumber: p.PaymentNumber,
		PaymentType:   p.PaymentType,
		Method:        p.Method,
		PaymentDate:   p.PaymentDate,
		PartyName:     p.PartyName,
		Amount:        p.Amount,
		Reference:     p.Reference,
		Status:        p.Status,
		BankAccountID: p.BankAccountID,
		EntryID:       p.EntryID,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain.Payment.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
