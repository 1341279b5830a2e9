package services

import (
	"context"
	"errors"
	"fmt"
	"io"
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
	"github.com/crestlinehq/ledgerengine/internal/utils/statementfile"
)

var (
	ErrStatementNotMutable   = errors.New("statement is reconciled or locked")
	ErrStatementNotReconciled = errors.New("statement is not reconciled")
	ErrLineAlreadyMatched    = errors.New("statement line is already matched")
	ErrLineNotMatched        = errors.New("statement line is not matched")
	ErrUnmatchedLinesRemain  = errors.New("statement has unmatched lines")
	ErrBalanceMismatch       = errors.New("statement balances do not reconcile")
	ErrAmountMismatch        = errors.New("amounts do not match")
	ErrWrongBankAccount      = errors.New("record belongs to a different bank account")
	ErrAdjustmentNotReversed = errors.New("adjustment entry must be reversed before unmatching")
)

// DefaultMatchToleranceDays is the matching window applied around a statement
// line's transaction date when no override is configured.
const DefaultMatchToleranceDays = 3

// reconciliationService owns statements, their lines, and the deterministic
// matcher. Every auto-match or finalize run serializes per bank account
// through an advisory lock, so two runs never claim the same candidate.
type reconciliationService struct {
	statementRepo  portsrepo.StatementRepositoryFacade
	paymentRepo    portsrepo.PaymentRepositoryFacade
	journalRepo    portsrepo.JournalRepositoryFacade
	pdcRepo        portsrepo.PDCRepositoryFacade
	allocationRepo portsrepo.AllocationRepositoryFacade
	accountRepo    portsrepo.AccountReader
	journalSvc     portssvc.JournalSvcFacade
	pdcSvc         portssvc.PDCSvcFacade
	toleranceDays  int
}

// NewReconciliationService creates a new reconciliation service.
// toleranceDays <= 0 selects the default window.
func NewReconciliationService(
	statementRepo portsrepo.StatementRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	pdcRepo portsrepo.PDCRepositoryFacade,
	allocationRepo portsrepo.AllocationRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	journalSvc portssvc.JournalSvcFacade,
	pdcSvc portssvc.PDCSvcFacade,
	toleranceDays int,
) portssvc.ReconciliationSvcFacade {
	if toleranceDays <= 0 {
		toleranceDays = DefaultMatchToleranceDays
	}
	return &reconciliationService{
		statementRepo:  statementRepo,
		paymentRepo:    paymentRepo,
		journalRepo:    journalRepo,
		pdcRepo:        pdcRepo,
		allocationRepo: allocationRepo,
		accountRepo:    accountRepo,
		journalSvc:     journalSvc,
		pdcSvc:         pdcSvc,
		toleranceDays:  toleranceDays,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateBankAccount registers a bank account anchored to a GL account.
func (s *reconciliationService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	glAccount, err := s.accountRepo.FindAccountByID(ctx, req.GLAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find GL account %s: %w", req.GLAccountID, err)
	}
	if glAccount.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: bank GL account must be an asset account", apperrors.ErrValidation)
	}
	if !glAccount.IsActive {
		return nil, fmt.Errorf("%w: GL account %s", ErrAccountInactive, glAccount.Code)
	}

	now := time.Now().UTC()
	ba := domain.BankAccount{
		BankAccountID: uuid.NewString(),
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		GLAccountID:   req.GLAccountID,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.statementRepo.SaveBankAccount(ctx, ba); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}
	logger.Info("Bank account created", slog.String("bank_account_id", ba.BankAccountID), slog.String("name", ba.Name))
	return &ba, nil
}

// GetBankAccountByID retrieves a bank account.
func (s *reconciliationService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	ba, err := s.statementRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	return ba, nil
}

// ListBankAccounts retrieves all bank accounts.
func (s *reconciliationService) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	return s.statementRepo.ListBankAccounts(ctx)
}

// CreateStatement opens a new draft statement for a bank account.
func (s *reconciliationService) CreateStatement(ctx context.Context, req dto.CreateStatementRequest, creatorUserID string) (*domain.BankStatement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.StartDate.Before(req.EndDate) {
		return nil, fmt.Errorf("%w: %s to %s", ErrDateRangeInverted, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}
	if _, err := s.statementRepo.FindBankAccountByID(ctx, req.BankAccountID); err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
	}

	number, err := s.statementRepo.NextStatementNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve statement number: %w", err)
	}

	now := time.Now().UTC()
	stmt := domain.BankStatement{
		StatementID:     uuid.NewString(),
		StatementNumber: number,
		BankAccountID:   req.BankAccountID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		OpeningBalance:  req.OpeningBalance,
		ClosingBalance:  req.ClosingBalance,
		Status:          domain.StatementDraft,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.statementRepo.SaveStatement(ctx, stmt); err != nil {
		logger.Error("Failed to save statement", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}
	logger.Info("Statement created", slog.String("statement_id", stmt.StatementID), slog.String("statement_number", stmt.StatementNumber))
	return &stmt, nil
}

// GetStatementByID retrieves a statement with its lines.
func (s *reconciliationService) GetStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, []domain.BankStatementLine, error) {
	stmt, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	lines, err := s.statementRepo.FindLinesByStatementID(ctx, statementID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load statement lines: %w", err)
	}
	return stmt, lines, nil
}

// ListStatements retrieves a paginated list of statements.
func (s *reconciliationService) ListStatements(ctx context.Context, params dto.ListStatementsParams) (*dto.ListStatementsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	stmts, nextToken, err := s.statementRepo.ListStatements(ctx, params.BankAccountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return &dto.ListStatementsResponse{
		Statements: dto.ToStatementResponses(stmts),
		NextToken:  nextToken,
	}, nil
}

// GetStatementLineByID retrieves a single statement line.
func (s *reconciliationService) GetStatementLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	return line, nil
}

// importParsed appends parsed rows to a mutable statement.
func (s *reconciliationService) importParsed(ctx context.Context, statementID string, rows []statementfile.Row, skipped int, userID string) (*dto.ImportLinesResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	if !stmt.IsMutable() {
		return nil, fmt.Errorf("%w: statement %s is %s", ErrStatementNotMutable, stmt.StatementNumber, stmt.Status)
	}

	lines := make([]domain.BankStatementLine, len(rows))
	for i, row := range rows {
		lines[i] = domain.BankStatementLine{
			LineID:               uuid.NewString(),
			StatementID:          statementID,
			TransactionDate:      row.TransactionDate,
			ValueDate:            row.ValueDate,
			Description:          row.Description,
			Reference:            row.Reference,
			Debit:                row.Debit,
			Credit:               row.Credit,
			Balance:              row.Balance,
			ReconciliationStatus: domain.LineUnmatched,
		}
	}

	if err := s.statementRepo.ImportLines(ctx, statementID, lines, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to import statement lines", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to import statement lines: %w", err)
	}

	logger.Info("Statement lines imported",
		slog.String("statement_id", statementID),
		slog.Int("imported", len(lines)),
		slog.Int("skipped", skipped))
	return &dto.ImportLinesResult{
		StatementID:   statementID,
		LinesImported: len(lines),
		LinesSkipped:  skipped,
	}, nil
}

// ImportLinesCSV parses statement rows from CSV and appends them.
func (s *reconciliationService) ImportLinesCSV(ctx context.Context, statementID string, r io.Reader, requestingUserID string) (*dto.ImportLinesResult, error) {
	rows, skipped, err := statementfile.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return s.importParsed(ctx, statementID, rows, skipped, requestingUserID)
}

// ImportLinesXLSX parses statement rows from the first sheet of an XLSX
// workbook and appends them.
func (s *reconciliationService) ImportLinesXLSX(ctx context.Context, statementID string, r io.Reader, requestingUserID string) (*dto.ImportLinesResult, error) {
	rows, skipped, err := statementfile.ParseXLSX(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return s.importParsed(ctx, statementID, rows, skipped, requestingUserID)
}

// matchWindow returns the inclusive date range searched around a line's
// transaction date.
func (s *reconciliationService) matchWindow(d time.Time) (time.Time, time.Time) {
	tol := time.Duration(s.toleranceDays) * 24 * time.Hour
	return d.Add(-tol), d.Add(tol)
}

// applyMatch records a match on a line and bumps a draft statement to
// IN_PROGRESS.
func (s *reconciliationService) applyMatch(ctx context.Context, stmt *domain.BankStatement, line domain.BankStatementLine, userID string, now time.Time) error {
	if err := s.statementRepo.MatchLine(ctx, line, userID, now); err != nil {
		return err
	}
	middleware.CountLineMatched(string(line.MatchMethod))
	if stmt.Status == domain.StatementDraft {
		if err := s.statementRepo.UpdateStatementStatus(ctx, stmt.StatementID, domain.StatementInProgress, userID, now); err != nil {
			return err
		}
		stmt.Status = domain.StatementInProgress
	}
	return nil
}

// AutoMatch runs the matcher over every unmatched line of a statement.
// Sources are tried in a fixed order: confirmed payments, posted journal
// lines on the bank GL account, then outstanding PDCs. Within a source the
// line matches only when exactly one candidate fits; a PDC tie is logged for
// manual allocation and the line is left alone.
func (s *reconciliationService) AutoMatch(ctx context.Context, statementID string, requestingUserID string) (*dto.AutoMatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	if !stmt.IsMutable() {
		return nil, fmt.Errorf("%w: statement %s is %s", ErrStatementNotMutable, stmt.StatementNumber, stmt.Status)
	}
	bankAccount, err := s.statementRepo.FindBankAccountByID(ctx, stmt.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", stmt.BankAccountID, err)
	}

	release, err := s.statementRepo.AcquireReconcileLock(ctx, stmt.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire reconcile lock: %w", err)
	}
	defer release()

	lines, err := s.statementRepo.FindUnmatchedLines(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unmatched lines: %w", err)
	}

	result := &dto.AutoMatchResult{StatementID: statementID, LinesExamined: len(lines)}
	now := time.Now().UTC()

	for _, line := range lines {
		matched, kind, err := s.matchOneLine(ctx, stmt, bankAccount, line, requestingUserID, now)
		if err != nil {
			logger.Error("Auto-match failed on line",
				slog.String("line_id", line.LineID),
				slog.String("error", err.Error()))
			return nil, err
		}
		switch kind {
		case domain.MatchedPayment:
			if matched {
				result.PaymentMatches++
			}
		case domain.MatchedJournal:
			if matched {
				result.JournalMatches++
			}
		case "PDC":
			if matched {
				result.PDCMatches++
			} else {
				result.AmbiguousLines++
			}
		}
	}

	remaining, err := s.statementRepo.CountUnmatchedLines(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unmatched lines: %w", err)
	}
	result.UnmatchedRemaining = remaining

	logger.Info("Auto-match completed",
		slog.String("statement_id", statementID),
		slog.Int("payment_matches", result.PaymentMatches),
		slog.Int("journal_matches", result.JournalMatches),
		slog.Int("pdc_matches", result.PDCMatches),
		slog.Int("ambiguous", result.AmbiguousLines),
		slog.Int("unmatched_remaining", remaining))
	return result, nil
}

// matchOneLine tries the candidate sources in order for a single line. The
// returned kind identifies which source decided the line's outcome; an empty
// kind means nothing fit and the line stays unmatched.
func (s *reconciliationService) matchOneLine(ctx context.Context, stmt *domain.BankStatement, bankAccount *domain.BankAccount, line domain.BankStatementLine, userID string, now time.Time) (bool, domain.MatchedRecordType, error) {
	amount := line.Amount()
	if amount.IsZero() {
		return false, "", nil
	}
	from, to := s.matchWindow(line.TransactionDate)

	// 1. Confirmed payments on this bank account.
	paymentType := domain.PaymentMade
	if line.IsInflow() {
		paymentType = domain.PaymentReceived
	}
	payment, err := s.paymentRepo.FindMatchablePayment(ctx, stmt.BankAccountID, paymentType, amount, from, to)
	switch {
	case err == nil:
		line.ReconciliationStatus = domain.LineMatched
		line.MatchMethod = domain.MatchAuto
		line.MatchedRecordType = domain.MatchedPayment
		line.MatchedPaymentID = payment.PaymentID
		if err := s.applyMatch(ctx, stmt, line, userID, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return false, "", nil // Lost the race; leave for the next run
			}
			return false, "", err
		}
		return true, domain.MatchedPayment, nil
	case !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict):
		return false, "", fmt.Errorf("failed to search payments: %w", err)
	}

	// 2. Posted journal lines on the bank GL account.
	journalLine, err := s.journalRepo.FindMatchableLine(ctx, bankAccount.GLAccountID, line.IsInflow(), amount, from, to)
	switch {
	case err == nil:
		line.ReconciliationStatus = domain.LineMatched
		line.MatchMethod = domain.MatchAuto
		line.MatchedRecordType = domain.MatchedJournal
		line.MatchedJournalLineID = journalLine.LineID
		if err := s.applyMatch(ctx, stmt, line, userID, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return false, "", nil
			}
			return false, "", err
		}
		return true, domain.MatchedJournal, nil
	case !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict):
		return false, "", fmt.Errorf("failed to search journal lines: %w", err)
	}

	// 3. Outstanding PDCs. Inflows only: a cheque clearing is money in.
	if !line.IsInflow() {
		return false, "", nil
	}
	candidates, err := s.pdcRepo.FindOutstandingByAmount(ctx, amount, from, to)
	if err != nil {
		return false, "", fmt.Errorf("failed to search outstanding cheques: %w", err)
	}
	switch len(candidates) {
	case 0:
		return false, "", nil
	case 1:
		if err := s.matchLineWithPDC(ctx, stmt, bankAccount, line, &candidates[0], userID, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return false, "", nil
			}
			return false, "", err
		}
		return true, "PDC", nil
	default:
		// Several cheques fit. Never guess: log and wait for allocation.
		candidateIDs := make([]string, len(candidates))
		for i, c := range candidates {
			candidateIDs[i] = c.PDCID
		}
		log := domain.AmbiguousMatchLog{
			LogID:           uuid.NewString(),
			StatementLineID: line.LineID,
			DetectedAt:      now,
			CandidatePDCIDs: candidateIDs,
			MatchCriteria: domain.MatchCriteria{
				Amount:        amount,
				Date:          line.TransactionDate,
				ToleranceDays: s.toleranceDays,
				Reference:     line.Reference,
			},
			Resolution: domain.ResolutionPending,
		}
		if err := s.allocationRepo.SaveAmbiguousLog(ctx, log); err != nil {
			return false, "", fmt.Errorf("failed to record ambiguous match: %w", err)
		}
		return false, "PDC", nil
	}
}

// matchLineWithPDC clears the cheque through the ledger and links the line
// to the bank side of the clearing entry.
func (s *reconciliationService) matchLineWithPDC(ctx context.Context, stmt *domain.BankStatement, bankAccount *domain.BankAccount, line domain.BankStatementLine, cheque *domain.PDCCheque, userID string, now time.Time) error {
	clearDate := line.TransactionDate
	cleared, err := s.pdcSvc.ClearPDC(ctx, cheque.PDCID, dto.ClearPDCRequest{
		ClearedDate:       &clearDate,
		ClearingReference: line.Reference,
	}, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cheque %s: %w", cheque.PDCNumber, err)
	}

	clearingEntry, err := s.journalRepo.FindEntryByID(ctx, cleared.ClearingEntryID)
	if err != nil {
		return fmt.Errorf("failed to load clearing entry: %w", err)
	}
	var bankLineID string
	for _, jl := range clearingEntry.Lines {
		if jl.AccountID == bankAccount.GLAccountID {
			bankLineID = jl.LineID
			break
		}
	}
	if bankLineID == "" {
		return fmt.Errorf("%w: clearing entry %s has no line on the bank account", apperrors.ErrInternal, clearingEntry.EntryNumber)
	}

	line.ReconciliationStatus = domain.LineMatched
	line.MatchMethod = domain.MatchAuto
	line.MatchedRecordType = domain.MatchedJournal
	line.MatchedJournalLineID = bankLineID
	if err := s.applyMatch(ctx, stmt, line, userID, now); err != nil {
		return err
	}

	cleared.StatementLineID = line.LineID
	cleared.Reconciled = true
	cleared.ReconciledAt = &now
	cleared.ReconciledBy = userID
	cleared.LastUpdatedAt = now
	cleared.LastUpdatedBy = userID
	if err := s.pdcRepo.UpdatePDC(ctx, *cleared); err != nil {
		return fmt.Errorf("failed to link cheque to statement line: %w", err)
	}
	return nil
}

// lineForManualMatch loads a statement line and its statement and checks
// both are in a matchable state.
func (s *reconciliationService) lineForManualMatch(ctx context.Context, lineID string) (*domain.BankStatement, *domain.BankStatementLine, error) {
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
		return nil, nil, fmt.Errorf("%w: line %d", ErrLineAlreadyMatched, line.LineNumber)
	}
	return stmt, line, nil
}

// MatchLineWithPayment links a statement line to a payment by hand. The
// amount must still match exactly; manual matching relaxes the date window,
// not the arithmetic.
func (s *reconciliationService) MatchLineWithPayment(ctx context.Context, lineID string, req dto.MatchPaymentRequest, requestingUserID string) (*domain.BankStatementLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, line, err := s.lineForManualMatch(ctx, lineID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", req.PaymentID, err)
	}
	if payment.Status != domain.PaymentConfirmed {
		return nil, fmt.Errorf("%w: payment %s is %s", apperrors.ErrConflict, payment.PaymentNumber, payment.Status)
	}
	if payment.BankAccountID != "" && payment.BankAccountID != stmt.BankAccountID {
		return nil, fmt.Errorf("%w: payment %s", ErrWrongBankAccount, payment.PaymentNumber)
	}
	if !payment.Amount.Equal(line.Amount()) {
		return nil, fmt.Errorf("%w: payment %s is %s, line is %s", ErrAmountMismatch, payment.PaymentNumber, payment.Amount.String(), line.Amount().String())
	}
	expectedType := domain.PaymentMade
	if line.IsInflow() {
		expectedType = domain.PaymentReceived
	}
	if payment.PaymentType != expectedType {
		return nil, fmt.Errorf("%w: payment direction does not match the statement line", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	line.ReconciliationStatus = domain.LineMatched
	line.MatchMethod = domain.MatchManual
	line.MatchedRecordType = domain.MatchedPayment
	line.MatchedPaymentID = payment.PaymentID
	if err := s.applyMatch(ctx, stmt, *line, requestingUserID, now); err != nil {
		logger.Error("Failed to match line with payment", slog.String("error", err.Error()), slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to match line: %w", err)
	}
	line.MatchedAt = &now
	line.MatchedBy = requestingUserID
	logger.Info("Line matched with payment", slog.String("line_id", lineID), slog.String("payment_id", payment.PaymentID))
	return line, nil
}

// MatchLineWithJournal links a statement line to a journal line by hand.
func (s *reconciliationService) MatchLineWithJournal(ctx context.Context, lineID string, req dto.MatchJournalRequest, requestingUserID string) (*domain.BankStatementLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, line, err := s.lineForManualMatch(ctx, lineID)
	if err != nil {
		return nil, err
	}
	bankAccount, err := s.statementRepo.FindBankAccountByID(ctx, stmt.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", stmt.BankAccountID, err)
	}

	// The journal line must sit on the bank GL account, inside a posted
	// entry, with the amount on the side the statement line implies.
	entry, journalLine, err := s.findJournalLine(ctx, req.JournalLineID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrConflict, entry.EntryNumber, entry.Status)
	}
	if journalLine.AccountID != bankAccount.GLAccountID {
		return nil, fmt.Errorf("%w: journal line is not on the bank GL account", ErrWrongBankAccount)
	}
	var journalAmount decimal.Decimal
	if line.IsInflow() {
		journalAmount = journalLine.Debit
	} else {
		journalAmount = journalLine.Credit
	}
	if !journalAmount.Equal(line.Amount()) {
		return nil, fmt.Errorf("%w: journal line is %s, statement line is %s", ErrAmountMismatch, journalAmount.String(), line.Amount().String())
	}

	now := time.Now().UTC()
	line.ReconciliationStatus = domain.LineMatched
	line.MatchMethod = domain.MatchManual
	line.MatchedRecordType = domain.MatchedJournal
	line.MatchedJournalLineID = journalLine.LineID
	if err := s.applyMatch(ctx, stmt, *line, requestingUserID, now); err != nil {
		logger.Error("Failed to match line with journal", slog.String("error", err.Error()), slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to match line: %w", err)
	}
	line.MatchedAt = &now
	line.MatchedBy = requestingUserID
	logger.Info("Line matched with journal line", slog.String("line_id", lineID), slog.String("journal_line_id", journalLine.LineID))
	return line, nil
}

// findJournalLine resolves a journal line ID to its entry and line.
func (s *reconciliationService) findJournalLine(ctx context.Context, journalLineID string) (*domain.JournalEntry, *domain.JournalLine, error) {
	jl, err := s.journalRepo.FindLineByID(ctx, journalLineID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find journal line %s: %w", journalLineID, err)
	}
	entry, err := s.journalRepo.FindEntryByID(ctx, jl.EntryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find entry %s: %w", jl.EntryID, err)
	}
	return entry, jl, nil
}

// CreateAdjustment posts a journal entry for a bank-originated item (charge,
// interest) and marks the line ADJUSTED.
func (s *reconciliationService) CreateAdjustment(ctx context.Context, lineID string, req dto.CreateAdjustmentRequest, requestingUserID string) (*domain.BankStatementLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, line, err := s.lineForManualMatch(ctx, lineID)
	if err != nil {
		return nil, err
	}
	bankAccount, err := s.statementRepo.FindBankAccountByID(ctx, stmt.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", stmt.BankAccountID, err)
	}

	amount := line.Amount()
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Bank adjustment: %s", line.Description)
	}

	// Money in: debit the bank, credit the offset account. Money out: the
	// other way around.
	var lines []dto.JournalLineRequest
	if line.IsInflow() {
		lines = []dto.JournalLineRequest{
			{AccountID: bankAccount.GLAccountID, Description: description, Debit: amount},
			{AccountID: req.AccountID, Description: description, Credit: amount},
		}
	} else {
		lines = []dto.JournalLineRequest{
			{AccountID: req.AccountID, Description: description, Debit: amount},
			{AccountID: bankAccount.GLAccountID, Description: description, Credit: amount},
		}
	}

	entry, err := s.journalSvc.CreateEntry(ctx, dto.CreateJournalEntryRequest{
		Date:        line.TransactionDate,
		Reference:   line.Reference,
		Description: description,
		EntryType:   domain.EntryTypeAdjusting,
		Source:      domain.SourceAdjustment,
		SourceID:    line.LineID,
		Lines:       lines,
	}, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create adjustment entry: %w", err)
	}
	posted, err := s.journalSvc.PostEntry(ctx, entry.EntryID, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to post adjustment entry: %w", err)
	}

	now := time.Now().UTC()
	line.ReconciliationStatus = domain.LineAdjusted
	line.MatchMethod = domain.MatchManual
	line.MatchedRecordType = domain.MatchedAdjustment
	line.AdjustmentEntryID = posted.EntryID
	if err := s.applyMatch(ctx, stmt, *line, requestingUserID, now); err != nil {
		logger.Error("Failed to mark line adjusted", slog.String("error", err.Error()), slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to mark line adjusted: %w", err)
	}
	line.MatchedAt = &now
	line.MatchedBy = requestingUserID
	logger.Info("Adjustment created for line", slog.String("line_id", lineID), slog.String("entry_id", posted.EntryID))
	return line, nil
}

// UnmatchLine reverts a matched line while the statement is still mutable.
// Adjusted lines require the adjustment entry to be reversed first; a line
// backing a cleared cheque releases the cheque's reconciliation link.
func (s *reconciliationService) UnmatchLine(ctx context.Context, lineID string, requestingUserID string) (*domain.BankStatementLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	line, err := s.statementRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	stmt, err := s.statementRepo.FindStatementByID(ctx, line.StatementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement %s: %w", line.StatementID, err)
	}
	if !stmt.IsMutable() {
		return nil, fmt.Errorf("%w: statement %s is %s", ErrStatementNotMutable, stmt.StatementNumber, stmt.Status)
	}
	if line.ReconciliationStatus == domain.LineUnmatched {
		return nil, fmt.Errorf("%w: line %d", ErrLineNotMatched, line.LineNumber)
	}

	if line.AdjustmentEntryID != "" {
		entry, err := s.journalRepo.FindEntryByID(ctx, line.AdjustmentEntryID)
		if err != nil {
			return nil, fmt.Errorf("failed to find adjustment entry: %w", err)
		}
		if entry.Status != domain.EntryReversed {
			return nil, fmt.Errorf("%w: entry %s", ErrAdjustmentNotReversed, entry.EntryNumber)
		}
	}

	now := time.Now().UTC()

	// Release a cheque that was reconciled against this line.
	if cheque, err := s.pdcRepo.FindPDCByStatementLineID(ctx, lineID); err == nil {
		cheque.StatementLineID = ""
		cheque.Reconciled = false
		cheque.ReconciledAt = nil
		cheque.ReconciledBy = ""
		cheque.LastUpdatedAt = now
		cheque.LastUpdatedBy = requestingUserID
		if err := s.pdcRepo.UpdatePDC(ctx, *cheque); err != nil {
			return nil, fmt.Errorf("failed to release cheque %s: %w", cheque.PDCNumber, err)
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check cheque link: %w", err)
	}

	if err := s.statementRepo.ClearLineMatch(ctx, lineID, requestingUserID, now); err != nil {
		logger.Error("Failed to unmatch line", slog.String("error", err.Error()), slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to unmatch line: %w", err)
	}

	line.ReconciliationStatus = domain.LineUnmatched
	line.MatchMethod = ""
	line.MatchedRecordType = ""
	line.MatchedPaymentID = ""
	line.MatchedJournalLineID = ""
	line.AdjustmentEntryID = ""
	line.MatchedAt = nil
	line.MatchedBy = ""
	logger.Info("Line unmatched", slog.String("line_id", lineID), slog.String("unmatched_by", requestingUserID))
	return line, nil
}

// FinalizeStatement marks a fully matched, balanced statement reconciled.
func (s *reconciliationService) FinalizeStatement(ctx context.Context, statementID string, requestingUserID string) (*domain.BankStatement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	if !stmt.IsMutable() {
		return nil, fmt.Errorf("%w: statement %s is %s", ErrStatementNotMutable, stmt.StatementNumber, stmt.Status)
	}

	release, err := s.statementRepo.AcquireReconcileLock(ctx, stmt.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire reconcile lock: %w", err)
	}
	defer release()

	unmatched, err := s.statementRepo.CountUnmatchedLines(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unmatched lines: %w", err)
	}
	if unmatched > 0 {
		return nil, fmt.Errorf("%w: %d lines unmatched", ErrUnmatchedLinesRemain, unmatched)
	}
	if !stmt.BalanceValid() {
		return nil, fmt.Errorf("%w: difference %s exceeds tolerance %s",
			ErrBalanceMismatch, stmt.BalanceDifference().String(), domain.BalanceTolerance.String())
	}

	now := time.Now().UTC()
	if err := s.statementRepo.FinalizeStatement(ctx, statementID, requestingUserID, now); err != nil {
		logger.Error("Failed to finalize statement", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to finalize statement: %w", err)
	}

	stmt.Status = domain.StatementReconciled
	stmt.ReconciledAt = &now
	stmt.ReconciledBy = requestingUserID
	logger.Info("Statement finalized", slog.String("statement_id", statementID), slog.String("reconciled_by", requestingUserID))
	return stmt, nil
}

// LockStatement makes a reconciled statement permanently immutable.
func (s *reconciliationService) LockStatement(ctx context.Context, statementID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	if stmt.Status == domain.StatementLocked {
		return nil
	}
	if stmt.Status != domain.StatementReconciled {
		return fmt.Errorf("%w: statement %s is %s", ErrStatementNotReconciled, stmt.StatementNumber, stmt.Status)
	}

	if err := s.statementRepo.UpdateStatementStatus(ctx, statementID, domain.StatementLocked, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to lock statement", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		return fmt.Errorf("failed to lock statement: %w", err)
	}
	logger.Info("Statement locked", slog.String("statement_id", statementID), slog.String("locked_by", requestingUserID))
	return nil
}
