package services

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	"github.com/sarrafx/recon_backend/internal/dto"
)

// ReconcileOptions configures a reconciliation run. The struct lives in dto
// so that dto does not import this package (services depends on dto, never
// the reverse); the alias keeps this package's surface unchanged.
type ReconcileOptions = dto.ReconcileOptions

// DefaultReconcileOptions returns the documented defaults.
func DefaultReconcileOptions() ReconcileOptions {
	return dto.DefaultReconcileOptions()
}

// ReconciliationSvcFacade is the reconciliation engine's surface.
type ReconciliationSvcFacade interface {
	// ReconcileTransaction classifies one transaction, upserts its
	// discrepancy snapshot together with any notification intents, and
	// updates the transaction status when it changed. A missing transaction
	// yields a Success=false result, not an error.
	ReconcileTransaction(ctx context.Context, tenantID, transactionID string, opts ReconcileOptions) (*domain.EngineResult, error)

	// ReconcileTenant runs a bulk pass over the tenant's transactions in the
	// window. Refuses to run without a tenantID before performing any I/O.
	// Per-transaction failures are recorded and never abort the pass.
	ReconcileTenant(ctx context.Context, tenantID string, window domain.ReportWindow, opts ReconcileOptions) (*domain.ReconciliationReport, error)
}
