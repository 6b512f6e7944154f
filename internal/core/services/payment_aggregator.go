package services

import (
	"context"
	"fmt"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	portsrepo "github.com/sarrafx/recon_backend/internal/core/ports/repositories"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
)

// paymentAggregator sums verified payments for a transaction. Non-verified
// payments never count; payments in a different currency are flagged and
// excluded from the total rather than converted.
type paymentAggregator struct {
	paymentRepo portsrepo.PaymentReader
}

// NewPaymentAggregator creates a new PaymentAggregator.
func NewPaymentAggregator(paymentRepo portsrepo.PaymentReader) portssvc.PaymentAggregatorSvc {
	return &paymentAggregator{paymentRepo: paymentRepo}
}

var _ portssvc.PaymentAggregatorSvc = (*paymentAggregator)(nil)

// Aggregate implements portssvc.PaymentAggregatorSvc.
func (a *paymentAggregator) Aggregate(ctx context.Context, tx domain.Transaction) (*domain.PaymentSummary, error) {
	payments, err := a.paymentRepo.ListPaymentsByTransaction(ctx, tx.TenantID, tx.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for transaction %s: %w", tx.TransactionID, err)
	}

	summary := &domain.PaymentSummary{
		VerifiedTotal: domain.NewMoney(0, tx.Expected.Currency),
		Items:         make([]domain.PaymentItem, 0, len(payments)),
	}

	for _, p := range payments {
		item := domain.PaymentItem{
			PaymentID:  p.PaymentID,
			Amount:     p.Amount,
			Status:     p.Status,
			VerifiedAt: p.VerifiedAt,
		}

		if p.Status == domain.PaymentVerified {
			if p.Amount.Currency != tx.Expected.Currency {
				item.CurrencyMismatch = true
				summary.HasCurrencyMismatch = true
			} else {
				total, err := summary.VerifiedTotal.Add(p.Amount)
				if err != nil {
					return nil, fmt.Errorf("failed to sum payment %s: %w", p.PaymentID, err)
				}
				summary.VerifiedTotal = total
			}
		}

		summary.Items = append(summary.Items, item)
	}

	return summary, nil
}
