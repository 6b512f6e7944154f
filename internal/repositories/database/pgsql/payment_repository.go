package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	"github.com/sarrafx/recon_backend/internal/models"
	"github.com/sarrafx/recon_backend/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for recorded payments.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentReader {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentReader
var _ portsrepo.PaymentReader = (*PgxPaymentRepository)(nil)

// ListPaymentsByTransaction retrieves all payments recorded against a
// transaction, oldest first, regardless of verification status.
func (r *PgxPaymentRepository) ListPaymentsByTransaction(ctx context.Context, tenantID, transactionID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, tenant_id, transaction_id, amount, currency_code,
		       status, verified_at, recorded_by, created_at
		FROM payments
		WHERE tenant_id = $1 AND transaction_id = $2
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments for transaction "+transactionID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var m models.Payment
		if err := rows.Scan(
			&m.PaymentID,
			&m.TenantID,
			&m.TransactionID,
			&m.Amount,
			&m.CurrencyCode,
			&m.Status,
			&m.VerifiedAt,
			&m.RecordedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row for transaction "+transactionID, err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows for transaction "+transactionID, err)
	}

	return payments, nil
}
