package repositories

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// PaymentReader defines read access to recorded payments.
type PaymentReader interface {
	// ListPaymentsByTransaction retrieves all payments recorded against a
	// transaction, regardless of verification status.
	ListPaymentsByTransaction(ctx context.Context, tenantID, transactionID string) ([]domain.Payment, error)
}
