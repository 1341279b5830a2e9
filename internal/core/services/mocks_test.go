package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasActiveChildren(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) LeafStatusByIDs(ctx context.Context, accountIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.JournalEntry, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, limit int, nextToken string) ([]domain.JournalEntry, string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.String(1), args.Error(2)
}

func (m *MockJournalRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken string) ([]domain.JournalEntry, string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.String(1), args.Error(2)
}

func (m *MockJournalRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindReversalOf(ctx context.Context, originalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, originalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindMatchableLine(ctx context.Context, glAccountID string, debit bool, amount decimal.Decimal, from, to time.Time) (*domain.JournalLine, error) {
	args := m.Called(ctx, glAccountID, debit, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, entry, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, reversal, originalEntryID, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindFiscalYearForDate(ctx context.Context, d time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodForDate(ctx context.Context, d time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOpenPeriodForDate(ctx context.Context, d time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error {
	args := m.Called(ctx, fy)
	return args.Error(0)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, p domain.AccountingPeriod) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPeriodRepository) CloseFiscalYear(ctx context.Context, fiscalYearID string, userID string, now time.Time) error {
	args := m.Called(ctx, fiscalYearID, userID, now)
	return args.Error(0)
}

func (m *MockPeriodRepository) ReopenFiscalYear(ctx context.Context, fiscalYearID string, userID string, now time.Time) error {
	args := m.Called(ctx, fiscalYearID, userID, now)
	return args.Error(0)
}

func (m *MockPeriodRepository) LockPeriod(ctx context.Context, periodID string, userID string, now time.Time) error {
	args := m.Called(ctx, periodID, userID, now)
	return args.Error(0)
}

func (m *MockPeriodRepository) UnlockPeriod(ctx context.Context, periodID string, userID string, now time.Time) error {
	args := m.Called(ctx, periodID, userID, now)
	return args.Error(0)
}

// --- Mock StatementRepository ---

type MockStatementRepository struct {
	mock.Mock
}

var _ portsrepo.StatementRepositoryFacade = (*MockStatementRepository)(nil)

func (m *MockStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankStatement), args.Error(1)
}

func (m *MockStatementRepository) ListStatements(ctx context.Context, bankAccountID string, limit int, nextToken string) ([]domain.BankStatement, string, error) {
	args := m.Called(ctx, bankAccountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.BankStatement), args.String(1), args.Error(2)
}

func (m *MockStatementRepository) FindLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) FindLinesByStatementID(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) FindUnmatchedLines(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) CountUnmatchedLines(ctx context.Context, statementID string) (int, error) {
	args := m.Called(ctx, statementID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatementRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockStatementRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockStatementRepository) NextStatementNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockStatementRepository) SaveStatement(ctx context.Context, stmt domain.BankStatement) error {
	args := m.Called(ctx, stmt)
	return args.Error(0)
}

func (m *MockStatementRepository) ImportLines(ctx context.Context, statementID string, lines []domain.BankStatementLine, userID string, now time.Time) error {
	args := m.Called(ctx, statementID, lines, userID, now)
	return args.Error(0)
}

func (m *MockStatementRepository) MatchLine(ctx context.Context, line domain.BankStatementLine, userID string, now time.Time) error {
	args := m.Called(ctx, line, userID, now)
	return args.Error(0)
}

func (m *MockStatementRepository) ClearLineMatch(ctx context.Context, lineID string, userID string, now time.Time) error {
	args := m.Called(ctx, lineID, userID, now)
	return args.Error(0)
}

func (m *MockStatementRepository) UpdateStatementStatus(ctx context.Context, statementID string, status domain.StatementStatus, userID string, now time.Time) error {
	args := m.Called(ctx, statementID, status, userID, now)
	return args.Error(0)
}

func (m *MockStatementRepository) FinalizeStatement(ctx context.Context, statementID string, userID string, now time.Time) error {
	args := m.Called(ctx, statementID, userID, now)
	return args.Error(0)
}

func (m *MockStatementRepository) SaveBankAccount(ctx context.Context, ba domain.BankAccount) error {
	args := m.Called(ctx, ba)
	return args.Error(0)
}

func (m *MockStatementRepository) AcquireReconcileLock(ctx context.Context, bankAccountID string) (func(), error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, bankAccountID string, limit int, nextToken string) ([]domain.Payment, string, error) {
	args := m.Called(ctx, bankAccountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Payment), args.String(1), args.Error(2)
}

func (m *MockPaymentRepository) FindMatchablePayment(ctx context.Context, bankAccountID string, paymentType domain.PaymentType, amount decimal.Decimal, from, to time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, bankAccountID, paymentType, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) NextPaymentNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, p domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, userID string, now time.Time) error {
	args := m.Called(ctx, paymentID, status, userID, now)
	return args.Error(0)
}

// --- Mock PDCRepository ---

type MockPDCRepository struct {
	mock.Mock
}

var _ portsrepo.PDCRepositoryFacade = (*MockPDCRepository)(nil)

func (m *MockPDCRepository) FindPDCByID(ctx context.Context, pdcID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCRepository) ListPDCs(ctx context.Context, status domain.PDCStatus, limit int, nextToken string) ([]domain.PDCCheque, string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.PDCCheque), args.String(1), args.Error(2)
}

func (m *MockPDCRepository) FindOutstandingByAmount(ctx context.Context, amount decimal.Decimal, from, to time.Time) ([]domain.PDCCheque, error) {
	args := m.Called(ctx, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PDCCheque), args.Error(1)
}

func (m *MockPDCRepository) FindPDCByStatementLineID(ctx context.Context, lineID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockPDCRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockPDCRepository) NextPDCNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPDCRepository) SavePDC(ctx context.Context, cheque domain.PDCCheque) error {
	args := m.Called(ctx, cheque)
	return args.Error(0)
}

func (m *MockPDCRepository) UpdatePDC(ctx context.Context, cheque domain.PDCCheque) error {
	args := m.Called(ctx, cheque)
	return args.Error(0)
}

func (m *MockPDCRepository) SaveTenant(ctx context.Context, t domain.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// --- Mock AllocationRepository ---

type MockAllocationRepository struct {
	mock.Mock
}

var _ portsrepo.AllocationRepositoryFacade = (*MockAllocationRepository)(nil)

func (m *MockAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.PDCAllocation, error) {
	args := m.Called(ctx, allocationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCAllocation), args.Error(1)
}

func (m *MockAllocationRepository) ListAllocations(ctx context.Context, statementLineID string) ([]domain.PDCAllocation, error) {
	args := m.Called(ctx, statementLineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PDCAllocation), args.Error(1)
}

func (m *MockAllocationRepository) PDCsInActiveAllocations(ctx context.Context, pdcIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, pdcIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockAllocationRepository) FindAmbiguousLogByLine(ctx context.Context, statementLineID string) (*domain.AmbiguousMatchLog, error) {
	args := m.Called(ctx, statementLineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AmbiguousMatchLog), args.Error(1)
}

func (m *MockAllocationRepository) ListPendingAmbiguousLogs(ctx context.Context, limit int, nextToken string) ([]domain.AmbiguousMatchLog, string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.AmbiguousMatchLog), args.String(1), args.Error(2)
}

func (m *MockAllocationRepository) NextAllocationNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAllocationRepository) SaveAllocation(ctx context.Context, alloc domain.PDCAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *MockAllocationRepository) UpdateAllocationStatus(ctx context.Context, allocationID string, status domain.AllocationStatus, userID string, now time.Time) error {
	args := m.Called(ctx, allocationID, status, userID, now)
	return args.Error(0)
}

func (m *MockAllocationRepository) SaveAmbiguousLog(ctx context.Context, log domain.AmbiguousMatchLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAllocationRepository) ResolveAmbiguousLog(ctx context.Context, logID string, resolution domain.MatchResolution, allocationID *string, userID string, now time.Time) error {
	args := m.Called(ctx, logID, resolution, allocationID, userID, now)
	return args.Error(0)
}

// --- Mock MappingRepository ---

type MockMappingRepository struct {
	mock.Mock
}

var _ portsrepo.MappingRepositoryFacade = (*MockMappingRepository)(nil)

func (m *MockMappingRepository) FindMappingByType(ctx context.Context, txType domain.MappingTransactionType) (*domain.AccountMapping, error) {
	args := m.Called(ctx, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountMapping), args.Error(1)
}

func (m *MockMappingRepository) ListMappings(ctx context.Context) ([]domain.AccountMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMapping), args.Error(1)
}

func (m *MockMappingRepository) SaveMapping(ctx context.Context, mapping domain.AccountMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

// --- Mock JournalService ---

type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) DeleteDraftEntry(ctx context.Context, entryID string, requestingUserID string) error {
	args := m.Called(ctx, entryID, requestingUserID)
	return args.Error(0)
}

func (m *MockJournalService) PostEntry(ctx context.Context, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock PDCService ---

type MockPDCService struct {
	mock.Mock
}

var _ portssvc.PDCSvcFacade = (*MockPDCService)(nil)

func (m *MockPDCService) GetPDCByID(ctx context.Context, pdcID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) ListPDCs(ctx context.Context, params dto.ListPDCsParams) (*dto.ListPDCsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPDCsResponse), args.Error(1)
}

func (m *MockPDCService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockPDCService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockPDCService) CreatePDC(ctx context.Context, req dto.CreatePDCRequest, creatorUserID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) DepositPDC(ctx context.Context, pdcID string, req dto.DepositPDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) ClearPDC(ctx context.Context, pdcID string, req dto.ClearPDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) BouncePDC(ctx context.Context, pdcID string, req dto.BouncePDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) ReturnPDC(ctx context.Context, pdcID string, requestingUserID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) ReplacePDC(ctx context.Context, pdcID string, req dto.ReplacePDCRequest, requestingUserID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) CancelPDC(ctx context.Context, pdcID string, requestingUserID string) (*domain.PDCCheque, error) {
	args := m.Called(ctx, pdcID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PDCCheque), args.Error(1)
}

func (m *MockPDCService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}
