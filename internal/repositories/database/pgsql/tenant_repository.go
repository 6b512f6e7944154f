package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
)

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository over tenant membership.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantDirectory {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTenantRepository implements portsrepo.TenantDirectory
var _ portsrepo.TenantDirectory = (*PgxTenantRepository)(nil)

// AdminRecipients returns the user IDs of the tenant's admin-role members.
func (r *PgxTenantRepository) AdminRecipients(ctx context.Context, tenantID string) ([]string, error) {
	query := `
		SELECT user_id
		FROM tenant_users
		WHERE tenant_id = $1 AND role = 'ADMIN'
		ORDER BY user_id;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query admin users for tenant "+tenantID, err)
	}
	defer rows.Close()

	recipients := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan admin user row for tenant "+tenantID, err)
		}
		recipients = append(recipients, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating admin user rows for tenant "+tenantID, err)
	}

	return recipients, nil
}
