package mapping

import (
	"github.com/sarrafx/recon_backend/internal/core/domain"
	"github.com/sarrafx/recon_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to the entry model plus
// its line models. Line positions preserve the entry's line order.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.JournalLine) {
	entry := models.JournalEntry{
		EntryID:       d.EntryID,
		TenantID:      d.TenantID,
		TransactionID: d.TransactionID,
		SequenceNo:    d.SequenceNo,
		Description:   d.Description,
		Reference:     d.Reference,
		CurrencyCode:  d.Currency,
		PostedAt:      d.PostedAt,
		PrevHash:      d.PrevHash,
		Hash:          d.Hash,
		CreatedBy:     d.CreatedBy,
	}

	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.JournalLine{
			EntryID:   d.EntryID,
			Position:  i,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}
	return entry, lines
}

// ToDomainJournalEntry converts an entry model and its line models to a
// domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	domainLines := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		domainLines[i] = domain.JournalLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TenantID:      m.TenantID,
		TransactionID: m.TransactionID,
		SequenceNo:    m.SequenceNo,
		Description:   m.Description,
		Reference:     m.Reference,
		Currency:      m.CurrencyCode,
		Lines:         domainLines,
		PostedAt:      m.PostedAt,
		PrevHash:      m.PrevHash,
		Hash:          m.Hash,
		CreatedBy:     m.CreatedBy,
	}
}
