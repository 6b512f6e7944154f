package external_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarrafx/recon_backend/internal/adapters/external"
	"github.com/sarrafx/recon_backend/internal/core/domain"
)

func testTransaction() domain.Transaction {
	return domain.Transaction{
		TransactionID: "txn-1",
		TenantID:      "tenant-1",
		Expected:      domain.NewMoney(100000, "USD"),
	}
}

func TestCheckTransaction_Matched(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		amount := int64(100000)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "MATCHED",
			"reference": "ext-ref-1",
			"amount":    amount,
			"currency":  "USD",
		})
	}))
	defer server.Close()

	r := external.NewHTTPReconciler(external.Config{Name: "bankfeed", URL: server.URL, APIKey: "secret"})
	result := r.CheckTransaction(context.Background(), testTransaction())

	assert.Equal(t, "bankfeed", result.Provider)
	assert.Equal(t, domain.ExternalMatched, result.Status)
	assert.Equal(t, "ext-ref-1", result.ExternalReference)
	require.NotNil(t, result.ExternalAmount)
	assert.Equal(t, int64(100000), result.ExternalAmount.MinorUnits)
	assert.Empty(t, result.Error)

	assert.Equal(t, "txn-1", received["transactionId"])
	assert.Equal(t, "USD", received["currency"])
}

func TestCheckTransaction_ProviderFailedVerdictHasNoError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "FAILED"})
	}))
	defer server.Close()

	r := external.NewHTTPReconciler(external.Config{URL: server.URL})
	result := r.CheckTransaction(context.Background(), testTransaction())

	assert.Equal(t, domain.ExternalFailed, result.Status)
	assert.Empty(t, result.Error)
}

func TestCheckTransaction_TimeoutIsAdapterFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"status": "MATCHED"})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := external.NewHTTPReconciler(external.Config{URL: server.URL})
	result := r.CheckTransaction(ctx, testTransaction())

	assert.Equal(t, domain.ExternalFailed, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestCheckTransaction_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	r := external.NewHTTPReconciler(external.Config{URL: server.URL})
	result := r.CheckTransaction(context.Background(), testTransaction())

	assert.Equal(t, domain.ExternalFailed, result.Status)
	assert.Contains(t, result.Error, "502")
}

func TestCheckTransaction_UnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "WEIRD"})
	}))
	defer server.Close()

	r := external.NewHTTPReconciler(external.Config{URL: server.URL})
	result := r.CheckTransaction(context.Background(), testTransaction())

	assert.Equal(t, domain.ExternalFailed, result.Status)
	assert.Contains(t, result.Error, "WEIRD")
}
