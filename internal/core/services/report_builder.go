package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sarrafx/recon_backend/internal/core/domain"
)

// BuildReport assembles the immutable report document for one tenant pass.
// When detailed is false the per-transaction results are omitted and only the
// aggregates are kept.
func BuildReport(tenantID string, window domain.ReportWindow, results []domain.EngineResult, generatedAt time.Time, detailed bool) *domain.ReconciliationReport {
	report := &domain.ReconciliationReport{
		ReportID:    uuid.NewString(),
		TenantID:    tenantID,
		Window:      window,
		GeneratedAt: generatedAt,
	}

	totals := make(map[string]*domain.CurrencyTotals)

	for _, res := range results {
		report.Summary.Total++

		if !res.Success {
			report.Summary.Failed++
			continue
		}

		switch res.Status {
		case domain.ReconMatched:
			report.Summary.Matched++
		case domain.ReconUnderpaid:
			report.Summary.Underpaid++
		case domain.ReconOverpaid:
			report.Summary.Overpaid++
		case domain.ReconUnmatched:
			report.Summary.Unmatched++
		}

		if v := res.AccountingValidation; v != nil {
			report.Accounting.TransactionsChecked++
			report.Accounting.EntriesChecked += v.EntryCount
			report.Accounting.IntegrityErrors += len(v.IntegrityErrors)
			if v.EntryCount > 0 && !v.Balanced {
				report.Accounting.UnbalancedTransactions++
			}
		}

		if ext := res.External; ext != nil {
			report.External.Checked++
			switch ext.Status {
			case domain.ExternalMatched:
				report.External.Matched++
			case domain.ExternalUnmatched:
				report.External.Unmatched++
			case domain.ExternalFailed:
				report.External.Failed++
			}
		}

		// Amounts are bucketed per currency and never summed across them.
		cur := res.Expected.Currency
		bucket, ok := totals[cur]
		if !ok {
			bucket = &domain.CurrencyTotals{Currency: cur}
			totals[cur] = bucket
		}
		bucket.Expected = bucket.Expected.Add(res.Expected.Decimal())
		bucket.Paid = bucket.Paid.Add(res.ActualPaid.Decimal())
	}

	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		report.TotalsByCurrency = append(report.TotalsByCurrency, *totals[code])
	}

	if detailed {
		report.PerTransaction = results
	}

	return report
}
