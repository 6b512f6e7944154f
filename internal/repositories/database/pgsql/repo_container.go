package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	discrepancyRepo := newPgxDiscrepancyRepository(dbPool)
	outboxRepo := newPgxOutboxRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	tenantRepo := newPgxTenantRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerRepo:      ledgerRepo,
		TransactionRepo: transactionRepo,
		PaymentRepo:     paymentRepo,
		DiscrepancyRepo: discrepancyRepo,
		OutboxRepo:      outboxRepo,
		AccountRepo:     accountRepo,
		TenantRepo:      tenantRepo,
	}
}
