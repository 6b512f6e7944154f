package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	"github.com/sarrafx/recon_backend/internal/models"
	"github.com/sarrafx/recon_backend/internal/utils/mapping"
)

type PgxDiscrepancyRepository struct {
	BaseRepository
}

// newPgxDiscrepancyRepository creates a new repository for reconciliation
// outcome snapshots.
func newPgxDiscrepancyRepository(pool *pgxpool.Pool) portsrepo.DiscrepancyRepository {
	return &PgxDiscrepancyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDiscrepancyRepository implements portsrepo.DiscrepancyRepository
var _ portsrepo.DiscrepancyRepository = (*PgxDiscrepancyRepository)(nil)

// UpsertWithIntents writes the discrepancy snapshot, the transaction status
// (when txStatus is non-nil) and the notification intents within one DB
// transaction. Either everything lands or nothing does, which is what makes
// the outbox at-least-once.
func (r *PgxDiscrepancyRepository) UpsertWithIntents(ctx context.Context, d domain.Discrepancy, txStatus *domain.TransactionStatus, intents []domain.NotificationIntent) error {
	modelDisc := mapping.ToModelDiscrepancy(d)

	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Upsert the snapshot. Later runs supersede the prior row; the
	// generated_at guard keeps GeneratedAt non-decreasing.
	discQuery := `
		INSERT INTO discrepancies (
			discrepancy_id, tenant_id, branch_id, transaction_id, expected_amount,
			paid_amount, currency_code, status, accounting_findings, external_findings, generated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, transaction_id) DO UPDATE SET
			discrepancy_id = EXCLUDED.discrepancy_id,
			branch_id = EXCLUDED.branch_id,
			expected_amount = EXCLUDED.expected_amount,
			paid_amount = EXCLUDED.paid_amount,
			currency_code = EXCLUDED.currency_code,
			status = EXCLUDED.status,
			accounting_findings = EXCLUDED.accounting_findings,
			external_findings = EXCLUDED.external_findings,
			generated_at = GREATEST(discrepancies.generated_at, EXCLUDED.generated_at);
	`
	_, err = tx.Exec(ctx, discQuery,
		modelDisc.DiscrepancyID,
		modelDisc.TenantID,
		modelDisc.BranchID,
		modelDisc.TransactionID,
		modelDisc.ExpectedAmount,
		modelDisc.PaidAmount,
		modelDisc.CurrencyCode,
		modelDisc.Status,
		modelDisc.AccountingFindings,
		modelDisc.ExternalFindings,
		modelDisc.GeneratedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert discrepancy for transaction "+modelDisc.TransactionID, err)
	}

	// 2. Move the transaction status in the same unit of work.
	if txStatus != nil {
		statusQuery := `
			UPDATE transactions
			SET status = $3
			WHERE tenant_id = $1 AND transaction_id = $2;
		`
		cmdTag, err := tx.Exec(ctx, statusQuery, d.TenantID, d.TransactionID, string(*txStatus))
		if err != nil {
			return apperrors.NewAppError(500, "failed to update status for transaction "+d.TransactionID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("transaction " + d.TransactionID + " not found for status update")
		}
	}

	// 3. Queue the notification intents into the outbox.
	if len(intents) > 0 {
		batch := &pgx.Batch{}
		intentQuery := `
			INSERT INTO notification_outbox (
				intent_id, tenant_id, recipient_ref, kind, subject, body,
				context_payload, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		for _, intent := range intents {
			m := mapping.ToModelNotificationIntent(intent)
			batch.Queue(intentQuery,
				m.IntentID,
				m.TenantID,
				m.RecipientRef,
				m.Kind,
				m.Subject,
				m.Body,
				m.ContextPayload,
				m.CreatedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute intent batch for transaction "+d.TransactionID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit reconciliation outcome for transaction "+d.TransactionID, err)
	}

	return nil
}

// FindByTransaction retrieves the current snapshot for a transaction.
func (r *PgxDiscrepancyRepository) FindByTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Discrepancy, error) {
	query := `
		SELECT discrepancy_id, tenant_id, branch_id, transaction_id, expected_amount,
		       paid_amount, currency_code, status, accounting_findings, external_findings, generated_at
		FROM discrepancies
		WHERE tenant_id = $1 AND transaction_id = $2;
	`
	var m models.Discrepancy
	err := r.Pool.QueryRow(ctx, query, tenantID, transactionID).Scan(
		&m.DiscrepancyID,
		&m.TenantID,
		&m.BranchID,
		&m.TransactionID,
		&m.ExpectedAmount,
		&m.PaidAmount,
		&m.CurrencyCode,
		&m.Status,
		&m.AccountingFindings,
		&m.ExternalFindings,
		&m.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find discrepancy for transaction "+transactionID, err)
	}

	domainDisc := mapping.ToDomainDiscrepancy(m)
	return &domainDisc, nil
}
