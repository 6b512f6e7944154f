package dto

import (
	"time"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// JournalLineRequest is one debit or credit leg of a posting request.
// Amounts are integer minor units; exactly one of debit/credit must be set.
type JournalLineRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	Debit     int64  `json:"debit" binding:"min=0"`
	Credit    int64  `json:"credit" binding:"min=0"`
}

// PostJournalRequest creates one balanced journal entry.
type PostJournalRequest struct {
	Description   string               `json:"description" binding:"required"`
	Reference     string               `json:"reference" binding:"required"`
	Currency      string               `json:"currency" binding:"required,currencycode"`
	TransactionID *string              `json:"transactionID,omitempty"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalEntryResponse is the read view of a posted entry.
type JournalEntryResponse struct {
	EntryID       string               `json:"entryID"`
	TenantID      string               `json:"tenantID"`
	TransactionID *string              `json:"transactionID,omitempty"`
	SequenceNo    int64                `json:"sequenceNo"`
	Description   string               `json:"description"`
	Reference     string               `json:"reference"`
	Currency      string               `json:"currency"`
	Lines         []domain.JournalLine `json:"lines"`
	PostedAt      time.Time            `json:"postedAt"`
	Hash          string               `json:"hash"`
}

// ToJournalEntryResponse converts a domain entry to its read view.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:       e.EntryID,
		TenantID:      e.TenantID,
		TransactionID: e.TransactionID,
		SequenceNo:    e.SequenceNo,
		Description:   e.Description,
		Reference:     e.Reference,
		Currency:      e.Currency,
		Lines:         e.Lines,
		PostedAt:      e.PostedAt,
		Hash:          e.Hash,
	}
}
