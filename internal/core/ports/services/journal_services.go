package services

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	"github.com/sarrafx/recon_backend/internal/dto"
)

// JournalSvcFacade exposes double-entry journal posting and validation.
type JournalSvcFacade interface {
	// PostJournal validates and appends one balanced entry to the tenant's
	// ledger chain, returning the new entry ID. Invariant violations fail the
	// caller; nothing is written on failure.
	PostJournal(ctx context.Context, tenantID string, req dto.PostJournalRequest, creatorUserID string) (string, error)

	// ValidateJournal computes the accounting validation for a transaction's
	// entries. Read-only; integrity problems are findings, not errors.
	ValidateJournal(ctx context.Context, tenantID, transactionID string) (*domain.AccountingValidation, error)

	// AuditChain walks the tenant's hash chain over the entries posted in
	// the window. Read-only; broken links are findings, not errors.
	AuditChain(ctx context.Context, tenantID string, window domain.ReportWindow) (*domain.ChainAudit, error)
}
