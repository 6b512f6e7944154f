package repositories

// RepositoryProvider bundles all repository implementations for dependency
// injection at startup.
type RepositoryProvider struct {
	LedgerRepo      LedgerRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	PaymentRepo     PaymentReader
	DiscrepancyRepo DiscrepancyRepository
	OutboxRepo      OutboxRepository
	AccountRepo     ChartOfAccounts
	TenantRepo      TenantDirectory
}
