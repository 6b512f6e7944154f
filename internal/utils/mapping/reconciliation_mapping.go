package mapping

import (
	"github.com/sarrafx/recon_backend/internal/core/domain"
	"github.com/sarrafx/recon_backend/internal/models"
)

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	var branchID string
	if m.BranchID != nil {
		branchID = *m.BranchID
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		TenantID:      m.TenantID,
		BranchID:      branchID,
		CustomerID:    m.CustomerID,
		Expected:      domain.NewMoney(m.ExpectedAmount, m.CurrencyCode),
		Type:          domain.TransactionType(m.Type),
		Status:        domain.TransactionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		TenantID:      m.TenantID,
		TransactionID: m.TransactionID,
		Amount:        domain.NewMoney(m.Amount, m.CurrencyCode),
		Status:        domain.PaymentStatus(m.Status),
		VerifiedAt:    m.VerifiedAt,
		RecordedBy:    m.RecordedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ToModelDiscrepancy converts a domain Discrepancy to a model Discrepancy.
// Expected and Paid share the transaction currency.
func ToModelDiscrepancy(d domain.Discrepancy) models.Discrepancy {
	var branchID *string
	if d.BranchID != "" {
		branchID = &d.BranchID
	}
	return models.Discrepancy{
		DiscrepancyID:      d.DiscrepancyID,
		TenantID:           d.TenantID,
		BranchID:           branchID,
		TransactionID:      d.TransactionID,
		ExpectedAmount:     d.Expected.MinorUnits,
		PaidAmount:         d.Paid.MinorUnits,
		CurrencyCode:       d.Expected.Currency,
		Status:             string(d.Status),
		AccountingFindings: d.AccountingFindings,
		ExternalFindings:   d.ExternalFindings,
		GeneratedAt:        d.GeneratedAt,
	}
}

// ToDomainDiscrepancy converts a model Discrepancy to a domain Discrepancy
func ToDomainDiscrepancy(m models.Discrepancy) domain.Discrepancy {
	var branchID string
	if m.BranchID != nil {
		branchID = *m.BranchID
	}
	return domain.Discrepancy{
		DiscrepancyID:      m.DiscrepancyID,
		TenantID:           m.TenantID,
		BranchID:           branchID,
		TransactionID:      m.TransactionID,
		Expected:           domain.NewMoney(m.ExpectedAmount, m.CurrencyCode),
		Paid:               domain.NewMoney(m.PaidAmount, m.CurrencyCode),
		Status:             domain.ReconStatus(m.Status),
		AccountingFindings: m.AccountingFindings,
		ExternalFindings:   m.ExternalFindings,
		GeneratedAt:        m.GeneratedAt,
	}
}

// ToModelNotificationIntent converts a domain NotificationIntent to a model NotificationIntent
func ToModelNotificationIntent(d domain.NotificationIntent) models.NotificationIntent {
	return models.NotificationIntent{
		IntentID:       d.IntentID,
		TenantID:       d.TenantID,
		RecipientRef:   d.RecipientRef,
		Kind:           string(d.Kind),
		Subject:        d.Subject,
		Body:           d.Body,
		ContextPayload: d.ContextPayload,
		CreatedAt:      d.CreatedAt,
		DeliveredAt:    d.DeliveredAt,
	}
}

// ToDomainNotificationIntent converts a model NotificationIntent to a domain NotificationIntent
func ToDomainNotificationIntent(m models.NotificationIntent) domain.NotificationIntent {
	return domain.NotificationIntent{
		IntentID:       m.IntentID,
		TenantID:       m.TenantID,
		RecipientRef:   m.RecipientRef,
		Kind:           domain.NotificationKind(m.Kind),
		Subject:        m.Subject,
		Body:           m.Body,
		ContextPayload: m.ContextPayload,
		CreatedAt:      m.CreatedAt,
		DeliveredAt:    m.DeliveredAt,
	}
}
