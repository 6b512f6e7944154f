package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarrafx/recon_backend/internal/apperrors"
	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	"github.com/sarrafx/recon_backend/internal/models"
	"github.com/sarrafx/recon_backend/internal/utils/mapping"
)

type PgxOutboxRepository struct {
	BaseRepository
}

// newPgxOutboxRepository creates a new repository over the notification outbox.
func newPgxOutboxRepository(pool *pgxpool.Pool) portsrepo.OutboxRepository {
	return &PgxOutboxRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxOutboxRepository implements portsrepo.OutboxRepository
var _ portsrepo.OutboxRepository = (*PgxOutboxRepository)(nil)

// ListUndelivered retrieves up to limit undelivered intents for a tenant,
// oldest first.
func (r *PgxOutboxRepository) ListUndelivered(ctx context.Context, tenantID string, limit int) ([]domain.NotificationIntent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT intent_id, tenant_id, recipient_ref, kind, subject, body,
		       context_payload, created_at, delivered_at
		FROM notification_outbox
		WHERE tenant_id = $1 AND delivered_at IS NULL
		ORDER BY created_at
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query outbox for tenant "+tenantID, err)
	}
	defer rows.Close()

	intents := []domain.NotificationIntent{}
	for rows.Next() {
		var m models.NotificationIntent
		if err := rows.Scan(
			&m.IntentID,
			&m.TenantID,
			&m.RecipientRef,
			&m.Kind,
			&m.Subject,
			&m.Body,
			&m.ContextPayload,
			&m.CreatedAt,
			&m.DeliveredAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan outbox row for tenant "+tenantID, err)
		}
		intents = append(intents, mapping.ToDomainNotificationIntent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating outbox rows for tenant "+tenantID, err)
	}

	return intents, nil
}

// MarkDelivered stamps the given intents as delivered. Already-delivered
// intents keep their original stamp.
func (r *PgxOutboxRepository) MarkDelivered(ctx context.Context, intentIDs []string, deliveredAt time.Time) error {
	if len(intentIDs) == 0 {
		return nil
	}

	query := `
		UPDATE notification_outbox
		SET delivered_at = $2
		WHERE intent_id = ANY($1) AND delivered_at IS NULL;
	`
	_, err := r.Pool.Exec(ctx, query, intentIDs, deliveredAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark outbox intents delivered", err)
	}
	return nil
}
