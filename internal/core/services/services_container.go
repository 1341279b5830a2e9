package services

import (
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. Construction order matters: the journal service
// is the posting engine everything else routes entries through, and both
// the matcher and the allocation service drive the PDC service.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Period = NewPeriodService(repos.PeriodRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.PeriodRepo)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.StatementRepo)
	container.Mapping = NewMappingService(repos.MappingRepo, repos.AccountRepo)
	container.PDC = NewPDCService(
		repos.PDCRepo,
		repos.MappingRepo,
		repos.StatementRepo,
		repos.AccountRepo,
		container.Journal,
	)
	container.Reconciliation = NewReconciliationService(
		repos.StatementRepo,
		repos.PaymentRepo,
		repos.JournalRepo,
		repos.PDCRepo,
		repos.AllocationRepo,
		repos.AccountRepo,
		container.Journal,
		container.PDC,
		cfg.MatchToleranceDays,
	)
	container.Allocation = NewAllocationService(
		repos.AllocationRepo,
		repos.StatementRepo,
		repos.PDCRepo,
		repos.JournalRepo,
		container.PDC,
	)

	return container
}
