package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
)

var (
	ErrAllocationNotDraft    = errors.New("allocation is not in draft state")
	ErrAllocationSumMismatch = errors.New("allocation amounts do not sum to the statement line amount")
	ErrPDCAlreadyAllocated   = errors.New("cheque already sits in an active allocation")
	ErrDuplicateAllocatedPDC = errors.New("cheque appears more than once in the allocation")
)

// allocationService resolves ambiguous statement matches by hand: a draft
// allocation splits one statement line across several cheques, and
// confirmation clears each cheque through the ledger and marks the line.
type allocationService struct {
	allocationRepo portsrepo.AllocationRepositoryFacade
	statementRepo  portsrepo.StatementRepositoryFacade
	pdcRepo        portsrepo.PDCRepositoryFacade
	journalRepo    portsrepo.JournalReader
	pdcSvc         portssvc.PDCSvcFacade
}

// NewAllocationService creates a new allocation service.
func NewAllocationService(
	allocationRepo portsrepo.AllocationRepositoryFacade,
	statementRepo portsrepo.StatementRepositoryFacade,
	pdcRepo portsrepo.PDCRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	pdcSvc portssvc.PDCSvcFacade,
) portssvc.AllocationSvcFacade {
	return &allocationService{
		allocationRepo: allocationRepo,
		statementRepo:  statementRepo,
		pdcRepo:        pdcRepo,
		journalRepo:    journalRepo,
		pdcSvc:         pdcSvc,
	}
}

var _ portssvc.AllocationSvcFacade = (*allocationService)(nil)

// allocatableLine loads a statement line and requires it unmatched on a
// mutable statement.
func (s *allocationService) allocatableLine(ctx context.Context, lineID string) (*domain.BankStatement, *domain.BankStatementLine, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	stmt, err := s.statementRepo.FindStatementByID(ctx, line.StatementID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find statement %s: %w", line.StatementID, err)
	}
	if !stmt.IsMutable() {
		return nil, nil, fmt.Errorf("%w: statement %s is %s", ErrStatementNotMutable, stmt.StatementNumber, stmt.Status)
	}
	if line.ReconciliationStatus != domain.LineUnmatched {
		return nil, nil, fmt.Errorf("%w: line %d is %s", ErrLineAlreadyMatched, line.LineNumber, line.ReconciliationStatus)
	}
	return stmt, line, nil
}

// CreateAllocation drafts a split of one statement line across outstanding
// cheques. The split must cover the line amount exactly; partial allocations
// are refused so the statement can always balance.
func (s *allocationService) CreateAllocation(ctx context.Context, req dto.CreateAllocationRequest, creatorUserID string) (*domain.PDCAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, line, err := s.allocatableLine(ctx, req.StatementLineID)
	if err != nil {
		return nil, err
	}

	pdcIDs := make([]string, 0, len(req.Lines))
	seen := make(map[string]bool, len(req.Lines))
	for _, lr := range req.Lines {
		if seen[lr.PDCID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAllocatedPDC, lr.PDCID)
		}
		seen[lr.PDCID] = true
		pdcIDs = append(pdcIDs, lr.PDCID)

		if !lr.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: allocation amounts must be positive", apperrors.ErrValidation)
		}
		cheque, err := s.pdcRepo.FindPDCByID(ctx, lr.PDCID)
		if err != nil {
			return nil, fmt.Errorf("failed to find cheque %s: %w", lr.PDCID, err)
		}
		if !cheque.IsOutstanding() {
			return nil, fmt.Errorf("%w: cheque %s is %s/%s", ErrPDCNotOutstanding, cheque.PDCNumber, cheque.Status, cheque.DepositStatus)
		}
	}

	active, err := s.allocationRepo.PDCsInActiveAllocations(ctx, pdcIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check active allocations: %w", err)
	}
	for _, id := range pdcIDs {
		if active[id] {
			return nil, fmt.Errorf("%w: %s", ErrPDCAlreadyAllocated, id)
		}
	}

	total := decimalSum(req.Lines)
	if !total.Equal(line.Amount()) {
		return nil, fmt.Errorf("%w: allocated %s, line amount %s", ErrAllocationSumMismatch, total.String(), line.Amount().String())
	}

	number, err := s.allocationRepo.NextAllocationNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve allocation number: %w", err)
	}

	now := time.Now().UTC()
	alloc := domain.PDCAllocation{
		AllocationID:     uuid.NewString(),
		AllocationNumber: number,
		StatementLineID:  req.StatementLineID,
		AllocationDate:   now.Truncate(24 * time.Hour),
		TotalAmount:      total,
		Status:           domain.AllocationDraft,
		Reason:           req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	for _, lr := range req.Lines {
		alloc.Lines = append(alloc.Lines, domain.PDCAllocationLine{
			AllocationLineID: uuid.NewString(),
			AllocationID:     alloc.AllocationID,
			PDCID:            lr.PDCID,
			Amount:           lr.Amount,
			Notes:            lr.Notes,
		})
	}
	if err := s.allocationRepo.SaveAllocation(ctx, alloc); err != nil {
		logger.Error("Failed to save allocation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}
	logger.Info("Allocation drafted", slog.String("allocation_id", alloc.AllocationID), slog.String("line_id", req.StatementLineID))
	return &alloc, nil
}

// ConfirmAllocation applies a draft allocation: every allocated cheque is
// cleared through the ledger, the statement line is matched to the bank side
// of the first clearing entry, and the pending ambiguous-match log for the
// line, when one exists, is resolved.
func (s *allocationService) ConfirmAllocation(ctx context.Context, allocationID string, requestingUserID string) (*domain.PDCAllocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	alloc, err := s.allocationRepo.FindAllocationByID(ctx, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find allocation %s: %w", allocationID, err)
	}
	if alloc.Status != domain.AllocationDraft {
		return nil, fmt.Errorf("%w: allocation %s is %s", ErrAllocationNotDraft, alloc.AllocationNumber, alloc.Status)
	}

	stmt, line, err := s.allocatableLine(ctx, alloc.StatementLineID)
	if err != nil {
		return nil, err
	}
	bankAccount, err := s.statementRepo.FindBankAccountByID(ctx, stmt.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", stmt.BankAccountID, err)
	}

	now := time.Now().UTC()
	clearDate := line.TransactionDate

	var bankLineID string
	for _, al := range alloc.Lines {
		cleared, err := s.pdcSvc.ClearPDC(ctx, al.PDCID, dto.ClearPDCRequest{
			ClearedDate:       &clearDate,
			ClearingReference: line.Reference,
		}, requestingUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to clear cheque %s: %w", al.PDCID, err)
		}

		if bankLineID == "" {
			clearingEntry, err := s.journalRepo.FindEntryByID(ctx, cleared.ClearingEntryID)
			if err != nil {
				return nil, fmt.Errorf("failed to load clearing entry: %w", err)
			}
			for _, jl := range clearingEntry.Lines {
				if jl.AccountID == bankAccount.GLAccountID {
					bankLineID = jl.LineID
					break
				}
			}
			if bankLineID == "" {
				return nil, fmt.Errorf("%w: clearing entry %s has no line on the bank account", apperrors.ErrInternal, clearingEntry.EntryNumber)
			}
		}

		cleared.StatementLineID = line.LineID
		cleared.Reconciled = true
		cleared.ReconciledAt = &now
		cleared.ReconciledBy = requestingUserID
		cleared.LastUpdatedAt = now
		cleared.LastUpdatedBy = requestingUserID
		if err := s.pdcRepo.UpdatePDC(ctx, *cleared); err != nil {
			return nil, fmt.Errorf("failed to link cheque %s to statement line: %w", al.PDCID, err)
		}
	}

	line.ReconciliationStatus = domain.LineMatched
	line.MatchMethod = domain.MatchManual
	line.MatchedRecordType = domain.MatchedJournal
	line.MatchedJournalLineID = bankLineID
	if err := s.statementRepo.MatchLine(ctx, *line, requestingUserID, now); err != nil {
		logger.Error("Failed to match statement line", slog.String("error", err.Error()), slog.String("line_id", line.LineID))
		return nil, fmt.Errorf("failed to match statement line: %w", err)
	}
	middleware.CountLineMatched(string(domain.MatchManual))
	if stmt.Status == domain.StatementDraft {
		if err := s.statementRepo.UpdateStatementStatus(ctx, stmt.StatementID, domain.StatementInProgress, requestingUserID, now); err != nil {
			return nil, fmt.Errorf("failed to update statement status: %w", err)
		}
	}

	if err := s.allocationRepo.UpdateAllocationStatus(ctx, allocationID, domain.AllocationConfirmed, requestingUserID, now); err != nil {
		return nil, fmt.Errorf("failed to confirm allocation: %w", err)
	}

	// A manual allocation can exist without an auto-match abstention.
	log, err := s.allocationRepo.FindAmbiguousLogByLine(ctx, alloc.StatementLineID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find ambiguous-match log: %w", err)
	}
	if log != nil && log.Resolution == domain.ResolutionPending {
		if err := s.allocationRepo.ResolveAmbiguousLog(ctx, log.LogID, domain.ResolutionAllocated, &allocationID, requestingUserID, now); err != nil {
			return nil, fmt.Errorf("failed to resolve ambiguous-match log: %w", err)
		}
	}

	alloc.Status = domain.AllocationConfirmed
	alloc.ConfirmedAt = &now
	alloc.ConfirmedBy = requestingUserID
	alloc.LastUpdatedAt = now
	alloc.LastUpdatedBy = requestingUserID
	logger.Info("Allocation confirmed",
		slog.String("allocation_id", allocationID),
		slog.String("line_id", alloc.StatementLineID),
		slog.Int("cheques", len(alloc.Lines)))
	return alloc, nil
}

// RejectAmbiguousLog closes a pending log without allocating. The statement
// line stays unmatched; an adjustment or manual match handles it later.
func (s *allocationService) RejectAmbiguousLog(ctx context.Context, logID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	if err := s.allocationRepo.ResolveAmbiguousLog(ctx, logID, domain.ResolutionRejected, nil, requestingUserID, now); err != nil {
		return fmt.Errorf("failed to reject ambiguous-match log %s: %w", logID, err)
	}
	logger.Info("Ambiguous-match log rejected", slog.String("log_id", logID))
	return nil
}

// GetAllocationByID retrieves an allocation with its lines.
func (s *allocationService) GetAllocationByID(ctx context.Context, allocationID string) (*domain.PDCAllocation, error) {
	alloc, err := s.allocationRepo.FindAllocationByID(ctx, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find allocation %s: %w", allocationID, err)
	}
	return alloc, nil
}

// ListPendingAmbiguousLogs retrieves unresolved auto-match abstentions.
func (s *allocationService) ListPendingAmbiguousLogs(ctx context.Context, limit int, nextToken string) (*dto.ListAmbiguousLogsResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	logs, next, err := s.allocationRepo.ListPendingAmbiguousLogs(ctx, limit, nextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list ambiguous-match logs: %w", err)
	}
	return &dto.ListAmbiguousLogsResponse{
		Logs:      dto.ToAmbiguousLogResponses(logs),
		NextToken: next,
	}, nil
}

func decimalSum(lines []dto.AllocationLineRequest) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
