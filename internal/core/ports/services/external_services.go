package services

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// ExternalReconciler checks a transaction against an external system of
// record (bank feed, provider ledger). Implementations must be side-effect
// free for the core and honor the context deadline; a timeout yields a
// FAILED result, never an error.
type ExternalReconciler interface {
	CheckTransaction(ctx context.Context, tx domain.Transaction) domain.ExternalResult
}
