package domain

import "time"

// TransactionType classifies the customer-facing operation behind a transaction.
type TransactionType string

const (
	TxnBuy      TransactionType = "BUY"
	TxnSell     TransactionType = "SELL"
	TxnTransfer TransactionType = "TRANSFER"
	TxnP2P      TransactionType = "P2P"
)

// TransactionStatus is the reconciliation state of a transaction. The engine
// is the only writer; pending/partial precede a definitive classification, and
// any non-matched state may still move to matched once more payments verify.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnPartial   TransactionStatus = "PARTIAL"
	TxnMatched   TransactionStatus = "MATCHED"
	TxnUnderpaid TransactionStatus = "UNDERPAID"
	TxnOverpaid  TransactionStatus = "OVERPAID"
	TxnUnmatched TransactionStatus = "UNMATCHED"
)

// Transaction is a customer-facing exchange or remittance. ExpectedAmount is
// immutable after creation.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	TenantID      string            `json:"tenantID"`
	BranchID      string            `json:"branchID"` // optional
	CustomerID    string            `json:"customerID"`
	Expected      Money             `json:"expected"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}
