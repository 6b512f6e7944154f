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

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository over tenant charts of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.ChartOfAccounts {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.ChartOfAccounts
var _ portsrepo.ChartOfAccounts = (*PgxAccountRepository)(nil)

// AccountExists reports whether an active account exists under the tenant's chart.
func (r *PgxAccountRepository) AccountExists(ctx context.Context, tenantID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts
			WHERE tenant_id = $1 AND account_id = $2 AND is_active
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, tenantID, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check account "+accountID, err)
	}
	return exists, nil
}

// FindAccountsByIDs retrieves the given accounts scoped to a tenant, keyed by
// account ID. Missing accounts are simply absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT account_id, tenant_id, name, account_type, currency_code, is_active, created_at
		FROM accounts
		WHERE tenant_id = $1 AND account_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(
			&m.AccountID,
			&m.TenantID,
			&m.Name,
			&m.AccountType,
			&m.CurrencyCode,
			&m.IsActive,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row for tenant "+tenantID, err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows for tenant "+tenantID, err)
	}

	return accounts, nil
}
