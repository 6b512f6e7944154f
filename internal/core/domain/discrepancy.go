package domain

import "time"

// ReconStatus is the engine's classification of a transaction given its
// expected amount E and verified total P.
type ReconStatus string

const (
	ReconMatched   ReconStatus = "MATCHED"   // P == E
	ReconUnderpaid ReconStatus = "UNDERPAID" // 0 < P < E
	ReconOverpaid  ReconStatus = "OVERPAID"  // P > E
	ReconUnmatched ReconStatus = "UNMATCHED" // P == 0, currency mismatch, or external failed
)

// ClassifyPayment derives the reconciliation status from expected and paid
// minor units. Currency-mismatch and external overrides are applied by the
// engine on top of this.
func ClassifyPayment(expected, paid int64) ReconStatus {
	switch {
	case paid == expected && paid != 0:
		return ReconMatched
	case paid == 0:
		return ReconUnmatched
	case paid < expected:
		return ReconUnderpaid
	default:
		return ReconOverpaid
	}
}

// TransactionStatusFor maps a reconciliation verdict onto the transaction
// state machine.
func TransactionStatusFor(s ReconStatus) TransactionStatus {
	return TransactionStatus(s)
}

// Discrepancy is the reconciliation outcome snapshot for one transaction.
// One row exists per (tenantID, transactionID); later runs supersede it and
// GeneratedAt is non-decreasing across updates.
type Discrepancy struct {
	DiscrepancyID      string      `json:"discrepancyID"`
	TenantID           string      `json:"tenantID"`
	BranchID           string      `json:"branchID"`
	TransactionID      string      `json:"transactionID"`
	Expected           Money       `json:"expected"`
	Paid               Money       `json:"paid"`
	Status             ReconStatus `json:"status"`
	AccountingFindings []string    `json:"accountingFindings,omitempty"`
	ExternalFindings   []string    `json:"externalFindings,omitempty"`
	GeneratedAt        time.Time   `json:"generatedAt"`
}
