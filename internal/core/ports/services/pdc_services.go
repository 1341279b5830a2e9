package services

import (
	"context"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// PDCReaderSvc defines read operations for post-dated cheques.
type PDCReaderSvc interface {
	GetPDCByID(ctx context.Context, pdcID string) (*domain.PDCCheque, error)
	ListPDCs(ctx context.Context, params dto.ListPDCsParams) (*dto.ListPDCsResponse, error)

	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

// PDCWriterSvc defines the cheque lifecycle. Deposit, clear and bounce each
// post a journal entry through the ledger engine; no balance moves outside it.
type PDCWriterSvc interface {
	CreatePDC(ctx context.Context, req dto.CreatePDCRequest, creatorUserID string) (*domain.PDCCheque, error)

	// DepositPDC hands the cheque to the bank: Dr PDC control, Cr tenant AR.
	DepositPDC(ctx context.Context, pdcID string, req dto.DepositPDCRequest, requestingUserID string) (*domain.PDCCheque, error)

	// ClearPDC confirms the bank honored the cheque: Dr bank GL, Cr PDC control.
	ClearPDC(ctx context.Context, pdcID string, req dto.ClearPDCRequest, requestingUserID string) (*domain.PDCCheque, error)

	// BouncePDC reverses the value back to tenant AR, plus bounce charges
	// when given.
	BouncePDC(ctx context.Context, pdcID string, req dto.BouncePDCRequest, requestingUserID string) (*domain.PDCCheque, error)

	// ReturnPDC hands an undeposited cheque back to the tenant.
	ReturnPDC(ctx context.Context, pdcID string, requestingUserID string) (*domain.PDCCheque, error)

	// ReplacePDC registers a new cheque in place of a bounced or returned one.
	ReplacePDC(ctx context.Context, pdcID string, req dto.ReplacePDCRequest, requestingUserID string) (*domain.PDCCheque, error)

	// CancelPDC voids a cheque that was never deposited.
	CancelPDC(ctx context.Context, pdcID string, requestingUserID string) (*domain.PDCCheque, error)

	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)
}

// PDCSvcFacade combines PDC service interfaces.
type PDCSvcFacade interface {
	PDCReaderSvc
	PDCWriterSvc
}
