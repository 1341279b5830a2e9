package repositories

// RepositoryProvider bundles every repository facade backed by a single
// shared connection pool.
type RepositoryProvider struct {
	TxManager      TransactionManager
	AccountRepo    AccountRepositoryFacade
	PeriodRepo     PeriodRepositoryFacade
	JournalRepo    JournalRepositoryFacade
	StatementRepo  StatementRepositoryFacade
	PaymentRepo    PaymentRepositoryFacade
	PDCRepo        PDCRepositoryFacade
	AllocationRepo AllocationRepositoryFacade
	MappingRepo    MappingRepositoryFacade
}
