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

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for customer transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// FindTransactionByID retrieves one transaction scoped to a tenant.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, tenant_id, branch_id, customer_id, expected_amount,
		       currency_code, type, status, created_at
		FROM transactions
		WHERE tenant_id = $1 AND transaction_id = $2;
	`
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, tenantID, transactionID).Scan(
		&m.TransactionID,
		&m.TenantID,
		&m.BranchID,
		&m.CustomerID,
		&m.ExpectedAmount,
		&m.CurrencyCode,
		&m.Type,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	domainTxn := mapping.ToDomainTransaction(m)
	return &domainTxn, nil
}

// ListTransactionsByTenant retrieves a tenant's transactions created within
// the window, oldest first.
func (r *PgxTransactionRepository) ListTransactionsByTenant(ctx context.Context, tenantID string, window domain.ReportWindow) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, tenant_id, branch_id, customer_id, expected_amount,
		       currency_code, type, status, created_at
		FROM transactions
		WHERE tenant_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, window.From, window.To)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for tenant "+tenantID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.TenantID,
			&m.BranchID,
			&m.CustomerID,
			&m.ExpectedAmount,
			&m.CurrencyCode,
			&m.Type,
			&m.Status,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for tenant "+tenantID, err)
		}
		transactions = append(transactions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for tenant "+tenantID, err)
	}

	return mapping.ToDomainTransactionSlice(transactions), nil
}

// UpdateTransactionStatus moves a transaction through the reconciliation
// state machine. The engine is the only caller.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, tenantID, transactionID string, status domain.TransactionStatus) error {
	query := `
		UPDATE transactions
		SET status = $3
		WHERE tenant_id = $1 AND transaction_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tenantID, transactionID, string(status))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + transactionID + " not found for update")
	}
	return nil
}
