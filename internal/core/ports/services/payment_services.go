package services

import (
	"context"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// PaymentReaderSvc defines read operations for payments.
type PaymentReaderSvc interface {
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)
}

// PaymentWriterSvc defines write operations for payments.
type PaymentWriterSvc interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error)

	// ConfirmPayment moves a draft payment to CONFIRMED, making it a
	// candidate for statement matching.
	ConfirmPayment(ctx context.Context, paymentID string, requestingUserID string) (*domain.Payment, error)

	// CancelPayment cancels a draft or confirmed payment that is not linked
	// to a statement line.
	CancelPayment(ctx context.Context, paymentID string, requestingUserID string) error
}

// PaymentSvcFacade combines payment service interfaces.
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
