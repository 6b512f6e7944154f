package repositories

import (
	"context"
	"time"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// OutboxRepository exposes the notification outbox to the external delivery
// channel. The core only writes intents (via DiscrepancyRepository); delivery
// state is the channel's to manage.
type OutboxRepository interface {
	// ListUndelivered retrieves up to limit undelivered intents for a tenant,
	// oldest first.
	ListUndelivered(ctx context.Context, tenantID string, limit int) ([]domain.NotificationIntent, error)

	// MarkDelivered stamps the given intents as delivered.
	MarkDelivered(ctx context.Context, intentIDs []string, deliveredAt time.Time) error
}
