package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
)

// PDCReader defines read operations for post-dated cheques.
type PDCReader interface {
	FindPDCByID(ctx context.Context, pdcID string) (*domain.PDCCheque, error)
	ListPDCs(ctx context.Context, status domain.PDCStatus, limit int, nextToken string) ([]domain.PDCCheque, string, error)

	// FindOutstandingByAmount returns deposited, in-clearing, unreconciled
	// cheques of the given amount with cheque dates inside [from, to],
	// ordered by cheque date then cheque number.
	FindOutstandingByAmount(ctx context.Context, amount decimal.Decimal, from, to time.Time) ([]domain.PDCCheque, error)

	// FindPDCByStatementLineID returns the cheque reconciled against a
	// statement line, or ErrNotFound.
	FindPDCByStatementLineID(ctx context.Context, lineID string) (*domain.PDCCheque, error)

	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

// PDCWriter defines write operations for post-dated cheques. SavePDC maps a
// violation of the composite cheque identity to ErrDuplicate.
type PDCWriter interface {
	// NextPDCNumber reserves the next sequential cheque tracking number.
	NextPDCNumber(ctx context.Context) (string, error)

	SavePDC(ctx context.Context, cheque domain.PDCCheque) error
	UpdatePDC(ctx context.Context, cheque domain.PDCCheque) error

	SaveTenant(ctx context.Context, t domain.Tenant) error
}

// PDCRepositoryFacade combines PDC repository interfaces.
type PDCRepositoryFacade interface {
	PDCReader
	PDCWriter
}
