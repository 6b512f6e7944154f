package repositories

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// DiscrepancyRepository owns the reconciliation outcome snapshots. One row
// exists per (tenantID, transactionID); upserts supersede the prior snapshot.
type DiscrepancyRepository interface {
	// UpsertWithIntents writes the discrepancy snapshot, the transaction
	// status (when txStatus is non-nil) and the notification intents in a
	// single database transaction, guaranteeing at-least-once delivery via
	// the outbox.
	UpsertWithIntents(ctx context.Context, d domain.Discrepancy, txStatus *domain.TransactionStatus, intents []domain.NotificationIntent) error

	// FindByTransaction retrieves the current snapshot for a transaction.
	FindByTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Discrepancy, error)
}
