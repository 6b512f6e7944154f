package repositories

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// TransactionReader defines read access to customer transactions. The
// transaction workflow collaborator owns creation; the core only reads and
// updates reconciliation status.
type TransactionReader interface {
	// FindTransactionByID retrieves one transaction scoped to a tenant.
	FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByTenant retrieves a tenant's transactions created
	// within the window, ordered by creation time.
	ListTransactionsByTenant(ctx context.Context, tenantID string, window domain.ReportWindow) ([]domain.Transaction, error)
}

// TransactionStatusWriter is the engine's single write path into transactions.
type TransactionStatusWriter interface {
	UpdateTransactionStatus(ctx context.Context, tenantID, transactionID string, status domain.TransactionStatus) error
}

// TransactionRepositoryFacade combines transaction read and status-write operations.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionStatusWriter
}
