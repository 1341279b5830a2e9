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
	ErrEntryNotDraft     = errors.New("journal entry is not a draft")
	ErrEntryNotDeletable = errors.New("journal entry cannot be deleted")
	ErrNotReversible     = errors.New("journal entry is not reversible")
	ErrReasonRequired    = errors.New("reversal reason is required")
)

// journalService is the posting engine: draft entries in, balanced posted
// entries and balance updates out. Posted entries are immutable; the only
// correction path is a reversal entry.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, periodRepo portsrepo.PeriodRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into domain lines, numbering them in
// request order.
func buildLines(entryID string, reqLines []dto.JournalLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, lr := range reqLines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			LineNumber:  i + 1,
			AccountID:   lr.AccountID,
			Description: lr.Description,
			Debit:       lr.Debit,
			Credit:      lr.Credit,
		}
	}
	return lines
}

// validateEntry collects every violation of the entry instead of stopping at
// the first, so the caller sees the full repair list at once. The entry's
// date must fall in an open period of an open fiscal year; both are returned
// so the posting path can stamp them without a second lookup.
func (s *journalService) validateEntry(ctx context.Context, entry *domain.JournalEntry) (*domain.FiscalYear, *domain.AccountingPeriod, error) {
	violations := []string{}

	if len(entry.Lines) < 2 {
		violations = append(violations, "entry must have at least two lines")
	}

	accountSet := make(map[string]bool)
	for _, line := range entry.Lines {
		accountSet[line.AccountID] = true

		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		switch {
		case line.Debit.IsNegative() || line.Credit.IsNegative():
			violations = append(violations, fmt.Sprintf("line %d: amounts cannot be negative", line.LineNumber))
		case debitSet && creditSet:
			violations = append(violations, fmt.Sprintf("line %d: cannot have both debit and credit", line.LineNumber))
		case !debitSet && !creditSet:
			violations = append(violations, fmt.Sprintf("line %d: must have either debit or credit", line.LineNumber))
		}
	}

	entry.CalculateTotals()
	if !entry.IsBalanced() {
		violations = append(violations, fmt.Sprintf("entry is not balanced: debits %s, credits %s",
			entry.TotalDebit.String(), entry.TotalCredit.String()))
	}

	fy, period, err := resolveOpenPeriod(ctx, s.periodRepo, entry.Date)
	if err != nil {
		if errors.Is(err, ErrPeriodLocked) || errors.Is(err, ErrFiscalYearClosed) || errors.Is(err, ErrNoPeriodForDate) {
			violations = append(violations, err.Error())
		} else {
			return nil, nil, err
		}
	}

	if len(accountSet) > 0 {
		accountIDs := make([]string, 0, len(accountSet))
		for id := range accountSet {
			accountIDs = append(accountIDs, id)
		}
		accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch accounts for validation: %w", err)
		}
		leafStatus, err := s.accountRepo.LeafStatusByIDs(ctx, accountIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check leaf status: %w", err)
		}
		for _, line := range entry.Lines {
			acc, found := accounts[line.AccountID]
			if !found {
				violations = append(violations, fmt.Sprintf("line %d: account %s not found", line.LineNumber, line.AccountID))
				continue
			}
			if !acc.IsActive {
				violations = append(violations, fmt.Sprintf("line %d: account %s is inactive", line.LineNumber, acc.Code))
			}
			if isLeaf, ok := leafStatus[line.AccountID]; ok && !isLeaf {
				violations = append(violations, fmt.Sprintf("line %d: account %s is a parent account and cannot be posted to", line.LineNumber, acc.Code))
			}
		}
	}

	if len(violations) > 0 {
		return nil, nil, apperrors.NewValidationError(violations)
	}
	return fy, period, nil
}

// balanceChangesFor computes the signed per-account balance deltas the entry
// causes, using each account's normal-balance direction.
func balanceChangesFor(lines []domain.JournalLine, accounts map[string]domain.Account) map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal)
	for _, line := range lines {
		acc := accounts[line.AccountID]
		effect := line.SignedEffect(acc.DebitIncreases())
		changes[line.AccountID] = changes[line.AccountID].Add(effect)
	}
	return changes
}

// CreateEntry persists a new draft entry after structural validation.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	entryID := uuid.NewString()

	entryType := req.EntryType
	if entryType == "" {
		entryType = domain.EntryTypeStandard
	}
	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	entry := domain.JournalEntry{
		EntryID:           entryID,
		Date:              req.Date,
		Reference:         req.Reference,
		Description:       req.Description,
		Status:            domain.EntryDraft,
		EntryType:         entryType,
		Source:            source,
		SourceID:          req.SourceID,
		IsSystemGenerated: source != domain.SourceManual,
		Lines:             buildLines(entryID, req.Lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if _, _, err := s.validateEntry(ctx, &entry); err != nil {
		return nil, err
	}

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve entry number: %w", err)
	}
	entry.EntryNumber = entryNumber

	if err := s.journalRepo.SaveDraftEntry(ctx, entry); err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}

	logger.Info("Draft entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries retrieves a paginated list of entries, newest first.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ListEntriesByAccount retrieves posted entries touching an account.
func (s *journalService) ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	entries, nextToken, err := s.journalRepo.ListEntriesByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// UpdateDraftEntry replaces the header and lines of a draft entry.
func (s *journalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.EntryDraft {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotDraft, entry.EntryNumber, entry.Status)
	}

	if req.Date != nil {
		entry.Date = *req.Date
	}
	if req.Reference != nil {
		entry.Reference = *req.Reference
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Lines != nil {
		entry.Lines = buildLines(entry.EntryID, req.Lines)
	}

	if _, _, err := s.validateEntry(ctx, entry); err != nil {
		return nil, err
	}

	entry.LastUpdatedAt = time.Now().UTC()
	entry.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry); err != nil {
		logger.Error("Failed to update draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update draft entry: %w", err)
	}
	return entry, nil
}

// DeleteDraftEntry removes a draft, manually created entry. Posted and
// system-generated entries are never deleted.
func (s *journalService) DeleteDraftEntry(ctx context.Context, entryID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if !entry.IsDeletable() {
		return fmt.Errorf("%w: entry %s is %s", ErrEntryNotDeletable, entry.EntryNumber, entry.Status)
	}

	if err := s.journalRepo.DeleteDraftEntry(ctx, entryID); err != nil {
		logger.Error("Failed to delete draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete draft entry: %w", err)
	}
	logger.Info("Draft entry deleted", slog.String("entry_id", entryID), slog.String("deleted_by", requestingUserID))
	return nil
}

// PostEntry validates a draft entry and posts it, updating account balances
// atomically. The first posting against an account locks its opening balance.
func (s *journalService) PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.EntryDraft {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotDraft, entry.EntryNumber, entry.Status)
	}

	fy, period, err := s.validateEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}

	now := time.Now().UTC()
	entry.Status = domain.EntryPosted
	entry.IsLocked = true
	entry.FiscalYearID = fy.FiscalYearID
	entry.PeriodID = period.PeriodID
	entry.PostedAt = &now
	entry.PostedBy = requestingUserID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	balanceChanges := balanceChangesFor(entry.Lines, accounts)

	if err := s.journalRepo.PostEntry(ctx, *entry, balanceChanges, requestingUserID, now); err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry: %w", err)
	}

	middleware.CountEntryPosted()
	logger.Info("Entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("period_id", period.PeriodID),
		slog.String("posted_by", requestingUserID))
	return entry, nil
}

// buildReversal produces the mirror image of a posted entry: same lines with
// debit and credit swapped, dated reversalDate. Pure construction; callers
// persist it.
func buildReversal(original *domain.JournalEntry, reason string, reversalDate time.Time, userID string, now time.Time) domain.JournalEntry {
	reversalID := uuid.NewString()
	lines := make([]domain.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Credit,
			Credit:      l.Debit,
		}
	}
	reversal := domain.JournalEntry{
		EntryID:           reversalID,
		Date:              reversalDate,
		Reference:         original.EntryNumber,
		Description:       fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
		Status:            domain.EntryPosted,
		EntryType:         domain.EntryTypeReversal,
		Source:            domain.SourceReversal,
		SourceID:          original.EntryID,
		IsSystemGenerated: true,
		IsLocked:          true,
		ReversalOfID:      original.EntryID,
		ReversalReason:    reason,
		Lines:             lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	reversal.CalculateTotals()
	return reversal
}

// ReverseEntry creates and posts the mirror image of a posted entry and
// marks the original REVERSED. The original's own period and fiscal year
// must still be open: once a period is locked, the entries inside it are
// frozen and the reversal is refused. The reversal itself is dated today.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Reason == "" {
		return nil, ErrReasonRequired
	}

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if !original.IsReversible() {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrNotReversible, original.EntryNumber, original.Status)
	}
	if existing, err := s.journalRepo.FindReversalOf(ctx, entryID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: entry %s already reversed by %s", apperrors.ErrConflict, original.EntryNumber, existing.EntryNumber)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing reversal: %w", err)
	}

	if original.PeriodID != "" {
		origPeriod, err := s.periodRepo.FindPeriodByID(ctx, original.PeriodID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve period for entry %s: %w", original.EntryNumber, err)
		}
		if origPeriod.IsLocked {
			return nil, fmt.Errorf("%w: %s", ErrPeriodLocked, origPeriod.Name)
		}
	}
	if original.FiscalYearID != "" {
		origFY, err := s.periodRepo.FindFiscalYearByID(ctx, original.FiscalYearID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve fiscal year for entry %s: %w", original.EntryNumber, err)
		}
		if origFY.IsClosed {
			return nil, fmt.Errorf("%w: %s", ErrFiscalYearClosed, origFY.Name)
		}
	}

	now := time.Now().UTC()
	reversalDate := now.Truncate(24 * time.Hour)

	fy, period, err := resolveOpenPeriod(ctx, s.periodRepo, reversalDate)
	if err != nil {
		return nil, err
	}

	reversal := buildReversal(original, req.Reason, reversalDate, requestingUserID, now)
	reversal.FiscalYearID = fy.FiscalYearID
	reversal.PeriodID = period.PeriodID
	reversal.PostedAt = &now
	reversal.PostedBy = requestingUserID

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve entry number: %w", err)
	}
	reversal.EntryNumber = entryNumber

	accountIDs := make([]string, 0, len(reversal.Lines))
	for _, line := range reversal.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}
	balanceChanges := balanceChangesFor(reversal.Lines, accounts)

	if err := s.journalRepo.SaveReversal(ctx, reversal, original.EntryID, balanceChanges, requestingUserID, now); err != nil {
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	middleware.CountEntryReversed()
	logger.Info("Entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.String("reversed_by", requestingUserID))
	return &reversal, nil
}

// uniqueStrings returns the distinct values of s, preserving first-seen order.
func uniqueStrings(s []string) []string {
	seen := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
