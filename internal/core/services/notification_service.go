package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// notificationKindFor maps a reconciliation verdict to its notification kind.
// Matched outcomes produce no reconciliation notification.
func notificationKindFor(status domain.ReconStatus) (domain.NotificationKind, bool) {
	switch status {
	case domain.ReconUnderpaid:
		return domain.NotifyUnderpaid, true
	case domain.ReconOverpaid:
		return domain.NotifyOverpaid, true
	case domain.ReconUnmatched:
		return domain.NotifyUnmatched, true
	default:
		return "", false
	}
}

// BuildReconciliationIntents produces the notification intents for one
// reconciliation outcome. Pure: it only constructs records; persistence
// happens atomically with the discrepancy upsert.
//
// Customers are notified only on definitive non-matched statuses. Admins are
// additionally notified on integrity findings even when payments match, and
// on review findings (currency mismatches, external failures) which never go
// to customers.
func BuildReconciliationIntents(tx domain.Transaction, d domain.Discrepancy, reviewFindings []string, adminRecipients []string, now time.Time) []domain.NotificationIntent {
	var intents []domain.NotificationIntent

	payload := map[string]string{
		"transactionID": tx.TransactionID,
		"expected":      d.Expected.String(),
		"paid":          d.Paid.String(),
		"status":        string(d.Status),
	}

	if kind, notify := notificationKindFor(d.Status); notify {
		body := fmt.Sprintf("Transaction %s reconciled as %s: expected %s, received %s.",
			tx.TransactionID, d.Status, d.Expected, d.Paid)
		subject := fmt.Sprintf("Payment discrepancy on transaction %s", tx.TransactionID)

		if tx.CustomerID != "" {
			intents = append(intents, domain.NotificationIntent{
				IntentID:       uuid.NewString(),
				TenantID:       tx.TenantID,
				RecipientRef:   tx.CustomerID,
				Kind:           kind,
				Subject:        subject,
				Body:           body,
				ContextPayload: payload,
				CreatedAt:      now,
			})
		}
		for _, admin := range adminRecipients {
			intents = append(intents, domain.NotificationIntent{
				IntentID:       uuid.NewString(),
				TenantID:       tx.TenantID,
				RecipientRef:   admin,
				Kind:           kind,
				Subject:        subject,
				Body:           body,
				ContextPayload: payload,
				CreatedAt:      now,
			})
		}
	}

	if len(reviewFindings) > 0 {
		body := fmt.Sprintf("Transaction %s needs review: %d finding(s).", tx.TransactionID, len(reviewFindings))
		for _, admin := range adminRecipients {
			intents = append(intents, domain.NotificationIntent{
				IntentID:       uuid.NewString(),
				TenantID:       tx.TenantID,
				RecipientRef:   admin,
				Kind:           domain.NotifyReview,
				Subject:        fmt.Sprintf("Reconciliation finding on transaction %s", tx.TransactionID),
				Body:           body,
				ContextPayload: payload,
				CreatedAt:      now,
			})
		}
	}

	if len(d.AccountingFindings) > 0 {
		body := fmt.Sprintf("Ledger integrity check failed for transaction %s: %d finding(s).",
			tx.TransactionID, len(d.AccountingFindings))
		for _, admin := range adminRecipients {
			intents = append(intents, domain.NotificationIntent{
				IntentID:       uuid.NewString(),
				TenantID:       tx.TenantID,
				RecipientRef:   admin,
				Kind:           domain.NotifyIntegrity,
				Subject:        fmt.Sprintf("Ledger integrity finding on transaction %s", tx.TransactionID),
				Body:           body,
				ContextPayload: payload,
				CreatedAt:      now,
			})
		}
	}

	return intents
}
