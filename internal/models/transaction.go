package models

import "time"

// Transaction represents a row in the transactions table. ExpectedAmount is
// integer minor units of CurrencyCode.
type Transaction struct {
	TransactionID  string    `json:"transactionID"` // Primary Key (UUID)
	TenantID       string    `json:"tenantID"`
	BranchID       *string   `json:"branchID"` // Nullable
	CustomerID     string    `json:"customerID"`
	ExpectedAmount int64     `json:"expectedAmount"`
	CurrencyCode   string    `json:"currencyCode"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
