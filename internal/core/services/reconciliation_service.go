package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/middleware"
)

// reconciliationService is the engine: it classifies transactions against
// their verified payments, validates the ledger, optionally consults an
// external system of record, and persists the outcome snapshot together with
// the notification intents in one database transaction.
type reconciliationService struct {
	txRepo          portsrepo.TransactionRepositoryFacade
	discrepancyRepo portsrepo.DiscrepancyRepository
	tenantRepo      portsrepo.TenantDirectory
	aggregator      portssvc.PaymentAggregatorSvc
	journalSvc      portssvc.JournalSvcFacade
	external        portssvc.ExternalReconciler
	clock           portssvc.Clock
	externalTimeout time.Duration
	txLocks         *keyedLocks
}

// NewReconciliationService creates the reconciliation engine. external may be
// nil when no adapter is configured; runs requesting external reconciliation
// then record a failed external finding instead of calling out.
func NewReconciliationService(
	txRepo portsrepo.TransactionRepositoryFacade,
	discrepancyRepo portsrepo.DiscrepancyRepository,
	tenantRepo portsrepo.TenantDirectory,
	aggregator portssvc.PaymentAggregatorSvc,
	journalSvc portssvc.JournalSvcFacade,
	external portssvc.ExternalReconciler,
	clock portssvc.Clock,
	externalTimeout time.Duration,
) portssvc.ReconciliationSvcFacade {
	if clock == nil {
		clock = realClock{}
	}
	if externalTimeout <= 0 {
		externalTimeout = 5 * time.Second
	}
	return &reconciliationService{
		txRepo:          txRepo,
		discrepancyRepo: discrepancyRepo,
		tenantRepo:      tenantRepo,
		aggregator:      aggregator,
		journalSvc:      journalSvc,
		external:        external,
		clock:           clock,
		externalTimeout: externalTimeout,
		txLocks:         newKeyedLocks(),
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ReconcileTransaction implements portssvc.ReconciliationSvcFacade.
func (s *reconciliationService) ReconcileTransaction(ctx context.Context, tenantID, transactionID string, opts portssvc.ReconcileOptions) (*domain.EngineResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if tenantID == "" || transactionID == "" {
		return nil, fmt.Errorf("%w: tenantID and transactionID are required", apperrors.ErrValidation)
	}

	// Runs for the same transaction are serialized; concurrent invocations
	// converge to the serial outcome.
	unlock := s.txLocks.acquire(tenantID + "/" + transactionID)
	defer unlock()

	now := s.clock.Now().UTC()

	tx, err := s.txRepo.FindTransactionByID(ctx, tenantID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A missing transaction is a finding, not an engine failure.
			return &domain.EngineResult{
				TransactionID: transactionID,
				TenantID:      tenantID,
				Success:       false,
				FailureReason: "transaction not found",
				Timestamp:     now,
			}, nil
		}
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}

	summary, err := s.aggregator.Aggregate(ctx, *tx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments for %s: %w", transactionID, err)
	}

	var findings []string
	for _, item := range summary.Items {
		if item.CurrencyMismatch {
			findings = append(findings, fmt.Sprintf("currencyMismatch: payment %s is %s, transaction is %s",
				item.PaymentID, item.Amount.Currency, tx.Expected.Currency))
		}
	}

	var validation *domain.AccountingValidation
	var accountingFindings []string
	if opts.IncludeAccountingValidation {
		validation, err = s.journalSvc.ValidateJournal(ctx, tenantID, transactionID)
		if err != nil {
			return nil, fmt.Errorf("failed to validate journal for %s: %w", transactionID, err)
		}
		accountingFindings = append(accountingFindings, validation.IntegrityErrors...)
		if validation.EntryCount > 0 && !validation.Balanced {
			accountingFindings = append(accountingFindings, fmt.Sprintf(
				"unbalanced: debits %d vs credits %d minor units", validation.TotalDebits, validation.TotalCredits))
		}
	}

	var external *domain.ExternalResult
	var externalFindings []string
	if opts.IncludeExternalReconciliation {
		res := s.checkExternal(ctx, *tx)
		external = &res
		if res.Status == domain.ExternalFailed {
			externalFindings = append(externalFindings, "external reconciliation failed: "+res.Error)
		} else if res.Status == domain.ExternalUnmatched {
			externalFindings = append(externalFindings, "external system of record reports no match")
		}
	}

	status := domain.ClassifyPayment(tx.Expected.MinorUnits, summary.VerifiedTotal.MinorUnits)
	// A provider that definitively answers "failed" forces unmatched.
	// Adapter-side failures (timeouts, transport errors) carry an error
	// string and only mark the external field.
	if external != nil && external.Status == domain.ExternalFailed && external.Error == "" {
		status = domain.ReconUnmatched
	}

	discrepancy := domain.Discrepancy{
		DiscrepancyID:      uuid.NewString(),
		TenantID:           tenantID,
		BranchID:           tx.BranchID,
		TransactionID:      transactionID,
		Expected:           tx.Expected,
		Paid:               summary.VerifiedTotal,
		Status:             status,
		AccountingFindings: accountingFindings,
		ExternalFindings:   externalFindings,
		GeneratedAt:        now,
	}

	admins, err := s.tenantRepo.AdminRecipients(ctx, tenantID)
	if err != nil {
		// Notification routing trouble must not block reconciliation.
		logger.Warn("Failed to resolve admin recipients", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		admins = nil
	}

	reviewFindings := append(append([]string{}, findings...), externalFindings...)
	intents := BuildReconciliationIntents(*tx, discrepancy, reviewFindings, admins, now)

	var statusUpdate *domain.TransactionStatus
	if derived := domain.TransactionStatusFor(status); tx.Status != derived {
		statusUpdate = &derived
	}

	if err := s.discrepancyRepo.UpsertWithIntents(ctx, discrepancy, statusUpdate, intents); err != nil {
		return nil, fmt.Errorf("failed to persist reconciliation outcome for %s: %w", transactionID, err)
	}

	logger.Info("Transaction reconciled",
		slog.String("tenant_id", tenantID),
		slog.String("transaction_id", transactionID),
		slog.String("status", string(status)),
		slog.Int("intents", len(intents)))

	return &domain.EngineResult{
		TransactionID:        transactionID,
		TenantID:             tenantID,
		Expected:             tx.Expected,
		ActualPaid:           summary.VerifiedTotal,
		Difference:           summary.VerifiedTotal.MinorUnits - tx.Expected.MinorUnits,
		Status:               status,
		Success:              true,
		Findings:             findings,
		AccountingValidation: validation,
		External:             external,
		Timestamp:            now,
	}, nil
}

// checkExternal invokes the adapter under a bounded deadline. A nil adapter
// or an expired deadline is reported as a failed external finding.
func (s *reconciliationService) checkExternal(ctx context.Context, tx domain.Transaction) domain.ExternalResult {
	if s.external == nil {
		return domain.ExternalResult{
			Provider: "none",
			Status:   domain.ExternalFailed,
			Error:    "no external reconciler configured",
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.externalTimeout)
	defer cancel()

	return s.external.CheckTransaction(callCtx, tx)
}

// ReconcileTenant implements portssvc.ReconciliationSvcFacade.
func (s *reconciliationService) ReconcileTenant(ctx context.Context, tenantID string, window domain.ReportWindow, opts portssvc.ReconcileOptions) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Full-scan protection: a pass without a tenant is refused before any I/O.
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required for a tenant pass", apperrors.ErrValidation)
	}
	if window.From != nil && window.To != nil && window.To.Before(*window.From) {
		return nil, fmt.Errorf("%w: window end precedes window start", apperrors.ErrValidation)
	}

	transactions, err := s.txRepo.ListTransactionsByTenant(ctx, tenantID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for tenant %s: %w", tenantID, err)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = portssvc.DefaultReconcileOptions().Concurrency
	}

	results := make([]domain.EngineResult, len(transactions))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, tx := range transactions {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, txID string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := s.ReconcileTransaction(ctx, tenantID, txID, opts)
			if err != nil {
				// Per-transaction failures are recorded, never raised.
				results[i] = domain.EngineResult{
					TransactionID: txID,
					TenantID:      tenantID,
					Success:       false,
					FailureReason: errSnippet(err),
					Timestamp:     s.clock.Now().UTC(),
				}
				return
			}
			results[i] = *res
		}(i, tx.TransactionID)
	}
	wg.Wait()

	report := BuildReport(tenantID, window, results, s.clock.Now().UTC(), opts.GenerateReport)

	if opts.IncludeAccountingValidation {
		audit, err := s.journalSvc.AuditChain(ctx, tenantID, window)
		if err != nil {
			// The pass already completed; a failed audit is a finding on the
			// report, not a reason to discard it.
			logger.Warn("Chain audit failed", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
			audit = &domain.ChainAudit{Findings: []string{"chain audit failed: " + errSnippet(err)}}
		}
		report.Accounting.ChainAudit = audit
	}

	logger.Info("Tenant reconciliation pass completed",
		slog.String("tenant_id", tenantID),
		slog.Int("transactions", report.Summary.Total),
		slog.Int("matched", report.Summary.Matched),
		slog.Int("failed", report.Summary.Failed))

	return report, nil
}

// errSnippet keeps report failure reasons short.
func errSnippet(err error) string {
	const max = 200
	msg := err.Error()
	if len(msg) > max {
		return msg[:max]
	}
	return msg
}
