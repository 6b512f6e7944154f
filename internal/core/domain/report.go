package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EngineResult is the outcome of reconciling a single transaction.
// Success=false records a per-transaction failure without raising; bulk
// passes count it under Failed and continue.
type EngineResult struct {
	TransactionID        string                `json:"transactionID"`
	TenantID             string                `json:"tenantID"`
	Expected             Money                 `json:"expected"`
	ActualPaid           Money                 `json:"actualPaid"`
	Difference           int64                 `json:"difference"` // paid - expected, minor units
	Status               ReconStatus           `json:"status,omitempty"`
	Success              bool                  `json:"success"`
	FailureReason        string                `json:"failureReason,omitempty"`
	Findings             []string              `json:"findings,omitempty"`
	AccountingValidation *AccountingValidation `json:"accountingValidation,omitempty"`
	External             *ExternalResult       `json:"externalReconciliation,omitempty"`
	Timestamp            time.Time             `json:"timestamp"`
}

// ReportWindow bounds a tenant pass. Nil endpoints leave that side open.
type ReportWindow struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// ReportSummary holds the per-status counts of a tenant pass.
type ReportSummary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Underpaid int `json:"underpaid"`
	Overpaid  int `json:"overpaid"`
	Unmatched int `json:"unmatched"`
	Failed    int `json:"failed"`
}

// AccountingSummary aggregates accounting validation across a tenant pass.
type AccountingSummary struct {
	TransactionsChecked    int         `json:"transactionsChecked"`
	EntriesChecked         int         `json:"entriesChecked"`
	UnbalancedTransactions int         `json:"unbalancedTransactions"`
	IntegrityErrors        int         `json:"integrityErrors"`
	ChainAudit             *ChainAudit `json:"chainAudit,omitempty"`
}

// ExternalSummary aggregates external reconciliation across a tenant pass.
type ExternalSummary struct {
	Checked   int `json:"checked"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Failed    int `json:"failed"`
}

// CurrencyTotals carries aggregate amounts for one currency. Totals are never
// added across currencies.
type CurrencyTotals struct {
	Currency string          `json:"currency"`
	Expected decimal.Decimal `json:"expected"`
	Paid     decimal.Decimal `json:"paid"`
}

// ReconciliationReport is the immutable document produced by a tenant pass.
type ReconciliationReport struct {
	ReportID         string            `json:"reportID"`
	TenantID         string            `json:"tenantID"`
	Window           ReportWindow      `json:"window"`
	Summary          ReportSummary     `json:"summary"`
	PerTransaction   []EngineResult    `json:"perTransaction"`
	Accounting       AccountingSummary `json:"accountingValidation"`
	External         ExternalSummary   `json:"externalReconciliation"`
	TotalsByCurrency []CurrencyTotals  `json:"totalsByCurrency"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}
