package domain

import "time"

// PaymentStatus is the verification state of a recorded inbound funds event.
// Only verified payments count toward reconciliation; once verified or
// rejected the amount is frozen.
type PaymentStatus string

const (
	PaymentUploaded PaymentStatus = "UPLOADED"
	PaymentVerified PaymentStatus = "VERIFIED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// Payment is a recorded inbound funds event against a transaction.
type Payment struct {
	PaymentID     string        `json:"paymentID"`
	TenantID      string        `json:"tenantID"`
	TransactionID string        `json:"transactionID"`
	Amount        Money         `json:"amount"`
	Status        PaymentStatus `json:"status"`
	VerifiedAt    *time.Time    `json:"verifiedAt,omitempty"`
	RecordedBy    string        `json:"recordedBy"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// PaymentItem is the per-payment view produced by the aggregator.
type PaymentItem struct {
	PaymentID        string        `json:"paymentID"`
	Amount           Money         `json:"amount"`
	Status           PaymentStatus `json:"status"`
	VerifiedAt       *time.Time    `json:"verifiedAt,omitempty"`
	CurrencyMismatch bool          `json:"currencyMismatch"`
}

// PaymentSummary aggregates a transaction's payments. VerifiedTotal sums only
// verified payments in the transaction's currency; mismatched items are
// flagged and excluded.
type PaymentSummary struct {
	VerifiedTotal       Money         `json:"verifiedTotal"`
	Items               []PaymentItem `json:"items"`
	HasCurrencyMismatch bool          `json:"hasCurrencyMismatch"`
}
