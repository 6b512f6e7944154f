package models

import "time"

// JournalEntry represents a row in the journal_entries table. Lines live in
// journal_lines and are loaded separately.
type JournalEntry struct {
	EntryID       string    `json:"entryID"` // Primary Key (UUID)
	TenantID      string    `json:"tenantID"`
	TransactionID *string   `json:"transactionID"` // Nullable link to transactions
	SequenceNo    int64     `json:"sequenceNo"`    // Unique per tenant
	Description   string    `json:"description"`
	Reference     string    `json:"reference"`
	CurrencyCode  string    `json:"currencyCode"`
	PostedAt      time.Time `json:"postedAt"`
	PrevHash      string    `json:"prevHash"`
	Hash          string    `json:"hash"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// JournalLine represents a row in the journal_lines table. Amounts are
// integer minor units; exactly one of Debit/Credit is non-zero.
type JournalLine struct {
	EntryID   string `json:"entryID"`
	Position  int    `json:"position"` // Preserves line order within the entry
	AccountID string `json:"accountID"`
	Debit     int64  `json:"debit"`
	Credit    int64  `json:"credit"`
}
