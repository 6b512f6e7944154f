package dto

import (
	"time"
)

// ReconcileOptions configures a reconciliation run. Defined here rather than
// in ports/services so that package can import dto without a cycle; it
// re-exports the type under its original name via an alias.
type ReconcileOptions struct {
	// IncludeAccountingValidation runs journal validation per transaction.
	IncludeAccountingValidation bool
	// IncludeExternalReconciliation invokes the external reconciler adapter.
	IncludeExternalReconciliation bool
	// GenerateReport produces the aggregate report on tenant passes.
	GenerateReport bool
	// Concurrency bounds parallel reconciliations in a tenant pass.
	Concurrency int
}

// DefaultReconcileOptions returns the documented defaults.
func DefaultReconcileOptions() ReconcileOptions {
	return ReconcileOptions{
		IncludeAccountingValidation:   true,
		IncludeExternalReconciliation: false,
		GenerateReport:                true,
		Concurrency:                   8,
	}
}

// ReconcileOptionsRequest carries the optional engine toggles on API calls.
// Absent fields keep their documented defaults.
type ReconcileOptionsRequest struct {
	IncludeAccountingValidation   *bool `json:"includeAccountingValidation,omitempty"`
	IncludeExternalReconciliation *bool `json:"includeExternalReconciliation,omitempty"`
	GenerateReport                *bool `json:"generateReport,omitempty"`
	Concurrency                   *int  `json:"concurrency,omitempty"`
}

// ToOptions merges the request over the defaults.
func (r ReconcileOptionsRequest) ToOptions() ReconcileOptions {
	opts := DefaultReconcileOptions()
	if r.IncludeAccountingValidation != nil {
		opts.IncludeAccountingValidation = *r.IncludeAccountingValidation
	}
	if r.IncludeExternalReconciliation != nil {
		opts.IncludeExternalReconciliation = *r.IncludeExternalReconciliation
	}
	if r.GenerateReport != nil {
		opts.GenerateReport = *r.GenerateReport
	}
	if r.Concurrency != nil && *r.Concurrency > 0 {
		opts.Concurrency = *r.Concurrency
	}
	return opts
}

// ReconcileTenantRequest starts a bulk tenant pass.
type ReconcileTenantRequest struct {
	From    *time.Time              `json:"from,omitempty"`
	To      *time.Time              `json:"to,omitempty"`
	Options ReconcileOptionsRequest `json:"options"`
}

// EnqueueReconciliationRequest asks the worker to reconcile one transaction
// asynchronously.
type EnqueueReconciliationRequest struct {
	TransactionID string `json:"transactionID" binding:"required"`
}
