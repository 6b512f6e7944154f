package models

import "time"

// Payment represents a row in the payments table. Amount is integer minor
// units of CurrencyCode, which may differ from the transaction's currency.
type Payment struct {
	PaymentID     string     `json:"paymentID"` // Primary Key (UUID)
	TenantID      string     `json:"tenantID"`
	TransactionID string     `json:"transactionID"`
	Amount        int64      `json:"amount"`
	CurrencyCode  string     `json:"currencyCode"`
	Status        string     `json:"status"`
	VerifiedAt    *time.Time `json:"verifiedAt"` // Nullable, set when status is VERIFIED
	RecordedBy    string     `json:"recordedBy"`
	CreatedAt     time.Time  `json:"createdAt"`
}
