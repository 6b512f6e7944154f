package repositories

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// LedgerReader defines read operations over posted journal entries.
type LedgerReader interface {
	// FindEntriesByTransaction retrieves all entries bound to one transaction.
	FindEntriesByTransaction(ctx context.Context, tenantID, transactionID string) ([]domain.JournalEntry, error)

	// FindEntriesByTenantWindow retrieves a tenant's entries posted within the
	// window, ordered by sequence number.
	FindEntriesByTenantWindow(ctx context.Context, tenantID string, window domain.ReportWindow) ([]domain.JournalEntry, error)

	// ChainHead returns the hash and sequence number of the tenant's latest
	// entry. A tenant with no entries yields an empty hash and sequence 0.
	ChainHead(ctx context.Context, tenantID string) (hash string, sequenceNo int64, err error)
}

// LedgerWriter defines the append operation. Entries are append-only: once
// posted they are never updated or deleted.
type LedgerWriter interface {
	// AppendEntry persists a sealed entry. Returns
	// apperrors.ErrIntegrityConflict when another appender took the entry's
	// sequence number first; the caller must refetch the head and reseal.
	AppendEntry(ctx context.Context, entry domain.JournalEntry) error
}

// LedgerRepositoryFacade combines ledger read and append operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
