package services

import (
	"context"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// PaymentAggregatorSvc sums a transaction's verified payments into a summary view.
type PaymentAggregatorSvc interface {
	Aggregate(ctx context.Context, tx domain.Transaction) (*domain.PaymentSummary, error)
}
