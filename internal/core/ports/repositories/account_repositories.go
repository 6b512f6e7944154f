package repositories

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// ChartOfAccounts defines read access to a tenant's account chart.
type ChartOfAccounts interface {
	// AccountExists reports whether an active account exists under the
	// tenant's chart.
	AccountExists(ctx context.Context, tenantID, accountID string) (bool, error)

	// FindAccountsByIDs retrieves the given accounts scoped to a tenant,
	// keyed by account ID. Missing accounts are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)
}
