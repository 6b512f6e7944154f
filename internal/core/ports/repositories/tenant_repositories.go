package repositories

import "context"

// TenantDirectory resolves notification recipients from tenant configuration.
type TenantDirectory interface {
	// AdminRecipients returns opaque recipient references for the tenant's
	// admin-role users.
	AdminRecipients(ctx context.Context, tenantID string) ([]string, error)
}
