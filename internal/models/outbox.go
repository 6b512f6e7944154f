package models

import "time"

// NotificationIntent represents a row in the notification_outbox table.
// ContextPayload is stored as JSONB.
type NotificationIntent struct {
	IntentID       string            `json:"intentID"` // Primary Key (UUID)
	TenantID       string            `json:"tenantID"`
	RecipientRef   string            `json:"recipientRef"`
	Kind           string            `json:"kind"`
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
	ContextPayload map[string]string `json:"contextPayload"`
	CreatedAt      time.Time         `json:"createdAt"`
	DeliveredAt    *time.Time        `json:"deliveredAt"` // Nullable
}
