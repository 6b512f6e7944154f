package models

import "time"

// Discrepancy represents a row in the discrepancies table. One row exists per
// (tenant_id, transaction_id); upserts supersede it. Findings are stored as
// text arrays.
type Discrepancy struct {
	DiscrepancyID      string    `json:"discrepancyID"` // Primary Key (UUID)
	TenantID           string    `json:"tenantID"`
	BranchID           *string   `json:"branchID"` // Nullable
	TransactionID      string    `json:"transactionID"`
	ExpectedAmount     int64     `json:"expectedAmount"`
	PaidAmount         int64     `json:"paidAmount"`
	CurrencyCode       string    `json:"currencyCode"`
	Status             string    `json:"status"`
	AccountingFindings []string  `json:"accountingFindings"`
	ExternalFindings   []string  `json:"externalFindings"`
	GeneratedAt        time.Time `json:"generatedAt"`
}
