package domain

import "time"

// JournalLine is one debit or credit leg of a journal entry. Exactly one of
// Debit/Credit is non-zero; both are integer minor units of the entry currency.
type JournalLine struct {
	AccountID string `json:"accountID"`
	Debit     int64  `json:"debit"`
	Credit    int64  `json:"credit"`
}

// JournalEntry is one immutable double-entry record in a tenant's ledger
// chain. SequenceNo orders the chain; PrevHash is the only backward reference
// and Hash seals the entry content to it.
type JournalEntry struct {
	EntryID       string        `json:"entryID"`
	TenantID      string        `json:"tenantID"`
	TransactionID *string       `json:"transactionID,omitempty"`
	SequenceNo    int64         `json:"sequenceNo"`
	Description   string        `json:"description"`
	Reference     string        `json:"reference"`
	Currency      string        `json:"currency"`
	Lines         []JournalLine `json:"lines"`
	PostedAt      time.Time     `json:"postedAt"`
	PrevHash      string        `json:"prevHash"`
	Hash          string        `json:"hash"`
	CreatedBy     string        `json:"createdBy"`
}

// TotalDebits sums the debit legs in minor units.
func (e JournalEntry) TotalDebits() int64 {
	var sum int64
	for _, l := range e.Lines {
		sum += l.Debit
	}
	return sum
}

// TotalCredits sums the credit legs in minor units.
func (e JournalEntry) TotalCredits() int64 {
	var sum int64
	for _, l := range e.Lines {
		sum += l.Credit
	}
	return sum
}

// Balanced reports the double-entry invariant for this entry.
func (e JournalEntry) Balanced() bool {
	return e.TotalDebits() == e.TotalCredits()
}

// AccountingValidation is the read-only verdict over a transaction's journal
// entries: balance totals plus any integrity findings.
type AccountingValidation struct {
	Balanced        bool     `json:"balanced"`
	TotalDebits     int64    `json:"totalDebits"`
	TotalCredits    int64    `json:"totalCredits"`
	EntryCount      int      `json:"entryCount"`
	IntegrityErrors []string `json:"integrityErrors,omitempty"`
}

// ChainAudit is the verdict of a hash-chain walk over a tenant's entries in a
// window. Broken links and tampered entries are findings, never errors.
type ChainAudit struct {
	EntriesChecked int      `json:"entriesChecked"`
	Findings       []string `json:"findings,omitempty"`
}
