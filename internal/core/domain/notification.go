package domain

import "time"

// NotificationKind labels what a notification intent is about.
type NotificationKind string

const (
	NotifyUnderpaid NotificationKind = "RECON_UNDERPAID"
	NotifyOverpaid  NotificationKind = "RECON_OVERPAID"
	NotifyUnmatched NotificationKind = "RECON_UNMATCHED"
	NotifyIntegrity NotificationKind = "LEDGER_INTEGRITY"
	NotifyReview    NotificationKind = "RECON_REVIEW"
)

// NotificationIntent is a delivery-agnostic notification record. The core
// writes intents to the outbox and never touches transport; an external
// channel drains them. Immutable after creation.
type NotificationIntent struct {
	IntentID       string            `json:"intentID"`
	TenantID       string            `json:"tenantID"`
	RecipientRef   string            `json:"recipientRef"` // user ID or role selector
	Kind           NotificationKind  `json:"kind"`
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
	ContextPayload map[string]string `json:"contextPayload,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	DeliveredAt    *time.Time        `json:"deliveredAt,omitempty"`
}
