package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/dto"
	"github.com/sarrafx/recon_backend/internal/middleware"
	"github.com/sarrafx/recon_backend/internal/utils/integrity"
)

var (
	ErrJournalUnbalanced = errors.New("journal lines do not balance: debits must equal credits")
	ErrJournalMinLines   = errors.New("journal must have at least two lines")
	ErrJournalLineAmount = errors.New("journal line must set exactly one of debit or credit")
	ErrAccountNotFound   = errors.New("account not found in tenant chart")
	ErrAccountCurrency   = errors.New("account currency does not match journal currency")
)

// headRetries bounds refetch attempts after a lost chain-head race. Under the
// in-process tenant lock a conflict only happens with multiple instances.
const headRetries = 3

// journalService posts balanced journal entries and validates a transaction's
// accounting state. It is the only writer of ledger entries.
type journalService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.ChartOfAccounts
	clock       portssvc.Clock
	chainLocks  *keyedLocks
}

// NewJournalService creates a new JournalService.
func NewJournalService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.ChartOfAccounts, clock portssvc.Clock) portssvc.JournalSvcFacade {
	if clock == nil {
		clock = realClock{}
	}
	return &journalService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		clock:       clock,
		chainLocks:  newKeyedLocks(),
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateLines checks the double-entry preconditions on the request lines.
func validateLines(lines []dto.JournalLineRequest) error {
	if len(lines) < 2 {
		return ErrJournalMinLines
	}

	var debits, credits int64
	for i, l := range lines {
		if l.Debit < 0 || l.Credit < 0 {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i)
		}
		hasDebit := l.Debit > 0
		hasCredit := l.Credit > 0
		if hasDebit == hasCredit {
			return fmt.Errorf("%w: line %d", ErrJournalLineAmount, i)
		}
		debits += l.Debit
		credits += l.Credit
	}

	if debits != credits {
		return fmt.Errorf("%w: debits are %d and credits are %d minor units", ErrJournalUnbalanced, debits, credits)
	}
	return nil
}

// PostJournal validates and appends one balanced entry to the tenant's chain.
// Implements portssvc.JournalSvcFacade.
func (s *journalService) PostJournal(ctx context.Context, tenantID string, req dto.PostJournalRequest, creatorUserID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if tenantID == "" {
		return "", fmt.Errorf("%w: tenantID is required", apperrors.ErrValidation)
	}
	if req.Description == "" {
		return "", fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if err := validateLines(req.Lines); err != nil {
		return "", err
	}

	// All referenced accounts must exist, be active, and carry the journal
	// currency. A cross-currency movement is modeled as two entries linked
	// by reference, never as one mixed entry.
	accountIDs := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		accountIDs = append(accountIDs, l.AccountID)
	}
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, uniqueStrings(accountIDs))
	if err != nil {
		logger.Error("Failed to fetch accounts for journal posting", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return "", fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueStrings(accountIDs) {
		acc, found := accountsMap[id]
		if !found {
			return "", fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return "", fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
		if acc.Currency != req.Currency {
			return "", fmt.Errorf("%w: account %s is %s, journal is %s", ErrAccountCurrency, id, acc.Currency, req.Currency)
		}
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.JournalLine{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit}
	}

	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TenantID:      tenantID,
		TransactionID: req.TransactionID,
		Description:   req.Description,
		Reference:     req.Reference,
		Currency:      req.Currency,
		Lines:         lines,
		PostedAt:      s.clock.Now().UTC(),
		CreatedBy:     creatorUserID,
	}

	// The chain head must be stable between read and append, so appends are
	// serialized per tenant. Different tenants proceed independently.
	unlock := s.chainLocks.acquire(tenantID)
	defer unlock()

	for attempt := 0; attempt < headRetries; attempt++ {
		head, seq, err := s.ledgerRepo.ChainHead(ctx, tenantID)
		if err != nil {
			logger.Error("Failed to fetch chain head", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
			return "", fmt.Errorf("failed to fetch chain head: %w", err)
		}

		entry.SequenceNo = seq + 1
		entry.PrevHash = head
		entry.Hash = integrity.Seal(entry, head)

		err = s.ledgerRepo.AppendEntry(ctx, entry)
		if err == nil {
			logger.Info("Journal entry posted",
				slog.String("entry_id", entry.EntryID),
				slog.String("tenant_id", tenantID),
				slog.Int64("sequence_no", entry.SequenceNo))
			return entry.EntryID, nil
		}
		if !errors.Is(err, apperrors.ErrIntegrityConflict) {
			logger.Error("Failed to append journal entry", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
			return "", fmt.Errorf("failed to append journal entry: %w", err)
		}
		logger.Warn("Chain head moved during append, refetching", slog.String("tenant_id", tenantID), slog.Int("attempt", attempt+1))
	}

	return "", fmt.Errorf("%w: gave up after %d head refetches for tenant %s", apperrors.ErrIntegrityConflict, headRetries, tenantID)
}

// ValidateJournal computes the accounting validation for a transaction's
// entries. Never mutates; integrity mismatches are findings.
// Implements portssvc.JournalSvcFacade.
func (s *journalService) ValidateJournal(ctx context.Context, tenantID, transactionID string) (*domain.AccountingValidation, error) {
	if tenantID == "" || transactionID == "" {
		return nil, fmt.Errorf("%w: tenantID and transactionID are required", apperrors.ErrValidation)
	}

	entries, err := s.ledgerRepo.FindEntriesByTransaction(ctx, tenantID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for transaction %s: %w", transactionID, err)
	}

	validation := &domain.AccountingValidation{EntryCount: len(entries)}
	for _, e := range entries {
		validation.TotalDebits += e.TotalDebits()
		validation.TotalCredits += e.TotalCredits()
		if !integrity.Verify(e) {
			validation.IntegrityErrors = append(validation.IntegrityErrors,
				"entry "+e.EntryID+": stored hash does not match content")
		}
	}
	validation.Balanced = validation.TotalDebits == validation.TotalCredits

	return validation, nil
}

// AuditChain implements portssvc.JournalSvcFacade.
func (s *journalService) AuditChain(ctx context.Context, tenantID string, window domain.ReportWindow) (*domain.ChainAudit, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", apperrors.ErrValidation)
	}

	entries, err := s.ledgerRepo.FindEntriesByTenantWindow(ctx, tenantID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for chain audit: %w", err)
	}

	return &domain.ChainAudit{
		EntriesChecked: len(entries),
		Findings:       integrity.VerifyChain(entries),
	}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
