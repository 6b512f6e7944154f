package services

import (
	"time"

	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
)

// NewServiceContainer wires all core services over the repository provider.
// external may be nil when no adapter is configured.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, external portssvc.ExternalReconciler, clock portssvc.Clock, externalTimeout time.Duration) *portssvc.ServiceContainer {
	if clock == nil {
		clock = realClock{}
	}

	journal := NewJournalService(repos.LedgerRepo, repos.AccountRepo, clock)
	payments := NewPaymentAggregator(repos.PaymentRepo)
	reconciliation := NewReconciliationService(
		repos.TransactionRepo,
		repos.DiscrepancyRepo,
		repos.TenantRepo,
		payments,
		journal,
		external,
		clock,
		externalTimeout,
	)

	return &portssvc.ServiceContainer{
		Journal:        journal,
		Reconciliation: reconciliation,
		Payments:       payments,
	}
}
