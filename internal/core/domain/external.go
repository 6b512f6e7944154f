package domain

// ExternalStatus is the verdict of an external system of record.
type ExternalStatus string

const (
	ExternalMatched   ExternalStatus = "MATCHED"
	ExternalUnmatched ExternalStatus = "UNMATCHED"
	ExternalFailed    ExternalStatus = "FAILED"
)

// ExternalResult is what an external reconciler reports for one transaction.
// A FAILED status never aborts the engine; it is recorded as a finding.
type ExternalResult struct {
	Provider          string         `json:"provider"`
	Status            ExternalStatus `json:"status"`
	ExternalReference string         `json:"externalReference,omitempty"`
	ExternalAmount    *Money         `json:"externalAmount,omitempty"`
	Error             string         `json:"error,omitempty"`
}
