package pgsql

import (
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	statementRepo := newPgxStatementRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	pdcRepo := newPgxPDCRepository(dbPool)
	allocationRepo := newPgxAllocationRepository(dbPool)
	mappingRepo := newPgxMappingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:      &BaseRepository{Pool: dbPool},
		AccountRepo:    accountRepo,
		PeriodRepo:     periodRepo,
		JournalRepo:    journalRepo,
		StatementRepo:  statementRepo,
		PaymentRepo:    paymentRepo,
		PDCRepo:        pdcRepo,
		AllocationRepo: allocationRepo,
		MappingRepo:    mappingRepo,
	}
}
