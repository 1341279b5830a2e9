package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, bankAccountID string, limit int, nextToken string) ([]domain.Payment, string, error)

	// FindMatchablePayment returns the single confirmed, unlinked payment on
	// the bank account with the given direction and amount dated within
	// [from, to]. Returns ErrNotFound when none qualifies and ErrConflict
	// when more than one does.
	FindMatchablePayment(ctx context.Context, bankAccountID string, paymentType domain.PaymentType, amount decimal.Decimal, from, to time.Time) (*domain.Payment, error)
}

// PaymentWriter defines write operations for payments.
type PaymentWriter interface {
	// NextPaymentNumber reserves the next sequential payment number.
	NextPaymentNumber(ctx context.Context) (string, error)

	SavePayment(ctx context.Context, p domain.Payment) error
	UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, userID string, now time.Time) error
}

// PaymentRepositoryFacade combines payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
