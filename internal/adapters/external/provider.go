// Package external adapts outside systems of record (bank feeds, provider
// ledgers) to the ExternalReconciler port.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
)

// checkRequest is the wire format sent to the provider.
type checkRequest struct {
	TenantID      string `json:"tenantId"`
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

// checkResponse is the provider's verdict.
type checkResponse struct {
	Status    string `json:"status"` // MATCHED, UNMATCHED, FAILED
	Reference string `json:"reference,omitempty"`
	Amount    *int64 `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// HTTPReconciler checks transactions against a provider over HTTP. Transport
// and protocol trouble never surface as errors: every outcome is an
// ExternalResult, with Error set when the adapter (not the provider) failed.
type HTTPReconciler struct {
	name   string
	url    string
	apiKey string
	client *http.Client
}

// Config holds provider connection settings. Timeouts come from the caller's
// context, not from the HTTP client.
type Config struct {
	Name   string
	URL    string
	APIKey string
}

// NewHTTPReconciler creates an adapter for one external provider.
func NewHTTPReconciler(cfg Config) *HTTPReconciler {
	name := cfg.Name
	if name == "" {
		name = "external"
	}
	return &HTTPReconciler{
		name:   name,
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{},
	}
}

var _ portssvc.ExternalReconciler = (*HTTPReconciler)(nil)

// CheckTransaction implements portssvc.ExternalReconciler.
func (r *HTTPReconciler) CheckTransaction(ctx context.Context, tx domain.Transaction) domain.ExternalResult {
	body, err := json.Marshal(checkRequest{
		TenantID:      tx.TenantID,
		TransactionID: tx.TransactionID,
		Amount:        tx.Expected.MinorUnits,
		Currency:      tx.Expected.Currency,
	})
	if err != nil {
		return r.failed("failed to encode request: " + err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return r.failed("failed to build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		// Covers timeouts and connection failures; the deadline comes from
		// the engine's context.
		return r.failed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return r.failed(fmt.Sprintf("provider returned HTTP %d", resp.StatusCode))
	}

	var verdict checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return r.failed("failed to decode response: " + err.Error())
	}

	result := domain.ExternalResult{
		Provider:          r.name,
		ExternalReference: verdict.Reference,
	}
	if verdict.Amount != nil {
		amount := domain.NewMoney(*verdict.Amount, verdict.Currency)
		result.ExternalAmount = &amount
	}

	switch verdict.Status {
	case "MATCHED":
		result.Status = domain.ExternalMatched
	case "UNMATCHED":
		result.Status = domain.ExternalUnmatched
	case "FAILED":
		// Definitive provider verdict: Error stays empty on purpose so the
		// engine can tell it apart from adapter failures.
		result.Status = domain.ExternalFailed
	default:
		return r.failed("provider returned unknown status " + verdict.Status)
	}

	return result
}

func (r *HTTPReconciler) failed(reason string) domain.ExternalResult {
	return domain.ExternalResult{
		Provider: r.name,
		Status:   domain.ExternalFailed,
		Error:    reason,
	}
}
