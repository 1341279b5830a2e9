package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
)

var (
	ErrPaymentNotDraft    = errors.New("payment is not a draft")
	ErrPaymentReconciled  = errors.New("payment is reconciled")
	ErrBankAccountNeeded  = errors.New("bank payments require a bank account")
)

// paymentService records the cash movements other modules hand to the
// engine. Confirmed payments become statement match candidates.
type paymentService struct {
	paymentRepo   portsrepo.PaymentRepositoryFacade
	statementRepo portsrepo.StatementReader
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, statementRepo portsrepo.StatementReader) portssvc.PaymentSvcFacade {
	return &paymentService{paymentRepo: paymentRepo, statementRepo: statementRepo}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment records a new draft payment.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if req.Method == domain.MethodBank && req.BankAccountID == "" {
		return nil, ErrBankAccountNeeded
	}
	if req.BankAccountID != "" {
		if _, err := s.statementRepo.FindBankAccountByID(ctx, req.BankAccountID); err != nil {
			return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
		}
	}

	number, err := s.paymentRepo.NextPaymentNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve payment number: %w", err)
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		PaymentNumber: number,
		PaymentType:   req.PaymentType,
		Method:        req.Method,
		PaymentDate:   req.PaymentDate,
		PartyName:     req.PartyName,
		Amount:        req.Amount,
		Reference:     req.Reference,
		Status:        domain.PaymentDraft,
		BankAccountID: req.BankAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	logger.Info("Payment created", slog.String("payment_id", payment.PaymentID), slog.String("payment_number", payment.PaymentNumber))
	return &payment, nil
}

// GetPaymentByID retrieves a payment.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments retrieves a paginated list of payments.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, params.BankAccountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &dto.ListPaymentsResponse{
		Payments:  dto.ToPaymentResponses(payments),
		NextToken: nextToken,
	}, nil
}

// ConfirmPayment moves a draft payment to CONFIRMED.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID string, requestingUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Status != domain.PaymentDraft {
		return nil, fmt.Errorf("%w: payment %s is %s", ErrPaymentNotDraft, payment.PaymentNumber, payment.Status)
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, domain.PaymentConfirmed, requestingUserID, now); err != nil {
		logger.Error("Failed to confirm payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	payment.Status = domain.PaymentConfirmed
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = requestingUserID
	logger.Info("Payment confirmed", slog.String("payment_id", paymentID))
	return payment, nil
}

// CancelPayment cancels a payment that has not been reconciled.
func (s *paymentService) CancelPayment(ctx context.Context, paymentID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Status == domain.PaymentReconciled {
		return fmt.Errorf("%w: payment %s", ErrPaymentReconciled, payment.PaymentNumber)
	}
	if payment.Status == domain.PaymentCancelled {
		return nil
	}

	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, domain.PaymentCancelled, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to cancel payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return fmt.Errorf("failed to cancel payment: %w", err)
	}
	logger.Info("Payment cancelled", slog.String("payment_id", paymentID))
	return nil
}
