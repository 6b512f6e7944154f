package worker_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sarrafx/recon_backend/internal/core/domain"
	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/worker"
)

// stubQueue feeds a fixed set of payloads to consumers and records handler
// outcomes and publishes per topic.
type stubQueue struct {
	mu        sync.Mutex
	payloads  [][]byte
	results   []error
	published map[string][][]byte
}

func (q *stubQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.published == nil {
		q.published = make(map[string][][]byte)
	}
	q.published[topic] = append(q.published[topic], payload)
	return nil
}

func (q *stubQueue) publishedTo(topic string) [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([][]byte{}, q.published[topic]...)
}

func (q *stubQueue) Consume(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error {
	for {
		q.mu.Lock()
		if len(q.payloads) == 0 {
			q.mu.Unlock()
			<-ctx.Done()
			return ctx.Err()
		}
		payload := q.payloads[0]
		q.payloads = q.payloads[1:]
		q.mu.Unlock()

		err := handler(ctx, payload)
		q.mu.Lock()
		q.results = append(q.results, err)
		q.mu.Unlock()
	}
}

func (q *stubQueue) handlerResults() []error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]error{}, q.results...)
}

// MockReconEngine is a mock type for the ReconciliationSvcFacade interface
type MockReconEngine struct {
	mock.Mock
}

func (m *MockReconEngine) ReconcileTransaction(ctx context.Context, tenantID, transactionID string, opts portssvc.ReconcileOptions) (*domain.EngineResult, error) {
	args := m.Called(ctx, tenantID, transactionID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EngineResult), args.Error(1)
}

func (m *MockReconEngine) ReconcileTenant(ctx context.Context, tenantID string, window domain.ReportWindow, opts portssvc.ReconcileOptions) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, tenantID, window, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func message(t *testing.T, tenantID, transactionID string) []byte {
	t.Helper()
	payload, err := json.Marshal(worker.ReconciliationMessage{TenantID: tenantID, TransactionID: transactionID})
	require.NoError(t, err)
	return payload
}

func runWorker(t *testing.T, q *stubQueue, engine *MockReconEngine, cfg worker.Config) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := worker.New(q, engine, testLogger(), cfg)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Give the consumers time to drain the stub queue, then shut down.
	deadline := time.After(2 * time.Second)
	for {
		q.mu.Lock()
		empty := len(q.payloads) == 0
		q.mu.Unlock()
		if empty {
			break
		}
		select {
		case <-deadline:
			t.Fatal("queue did not drain in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorker_ProcessesMessage(t *testing.T) {
	engine := new(MockReconEngine)
	q := &stubQueue{payloads: [][]byte{message(t, "tenant-1", "txn-1")}}

	engine.On("ReconcileTransaction", mock.Anything, "tenant-1", "txn-1", mock.Anything).
		Return(&domain.EngineResult{TransactionID: "txn-1", Success: true, Status: domain.ReconMatched}, nil).Once()

	runWorker(t, q, engine, worker.Config{Concurrency: 1, RetryAttempts: 3, RetryBaseDelay: time.Millisecond})

	engine.AssertExpectations(t)
	results := q.handlerResults()
	require.Len(t, results, 1)
	assert.NoError(t, results[0])
}

func TestWorker_RetriesWithBackoffThenDeadLetters(t *testing.T) {
	engine := new(MockReconEngine)
	payload := message(t, "tenant-1", "txn-1")
	q := &stubQueue{payloads: [][]byte{payload}}

	engine.On("ReconcileTransaction", mock.Anything, "tenant-1", "txn-1", mock.Anything).
		Return(nil, assert.AnError).Times(3)

	runWorker(t, q, engine, worker.Config{Concurrency: 1, RetryAttempts: 3, RetryBaseDelay: time.Millisecond})

	engine.AssertExpectations(t)
	// The message is acknowledged after exhausting retries, not requeued.
	results := q.handlerResults()
	require.Len(t, results, 1)
	assert.NoError(t, results[0])
	// It lands on the dead-letter topic for inspection and replay.
	dead := q.publishedTo(worker.TopicReconciliationDead)
	require.Len(t, dead, 1)
	assert.Equal(t, payload, dead[0])
}

func TestWorker_RecoversAfterOneFailure(t *testing.T) {
	engine := new(MockReconEngine)
	q := &stubQueue{payloads: [][]byte{message(t, "tenant-1", "txn-1")}}

	engine.On("ReconcileTransaction", mock.Anything, "tenant-1", "txn-1", mock.Anything).
		Return(nil, assert.AnError).Once()
	engine.On("ReconcileTransaction", mock.Anything, "tenant-1", "txn-1", mock.Anything).
		Return(&domain.EngineResult{TransactionID: "txn-1", Success: true}, nil).Once()

	runWorker(t, q, engine, worker.Config{Concurrency: 1, RetryAttempts: 3, RetryBaseDelay: time.Millisecond})

	engine.AssertExpectations(t)
}

func TestWorker_DeadLettersMalformedMessage(t *testing.T) {
	engine := new(MockReconEngine)
	q := &stubQueue{payloads: [][]byte{[]byte("{not json")}}

	runWorker(t, q, engine, worker.Config{Concurrency: 1, RetryAttempts: 3, RetryBaseDelay: time.Millisecond})

	engine.AssertNotCalled(t, "ReconcileTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	results := q.handlerResults()
	require.Len(t, results, 1)
	assert.NoError(t, results[0])
	require.Len(t, q.publishedTo(worker.TopicReconciliationDead), 1)
}

func TestWorker_DeadLettersMessageWithMissingIdentifiers(t *testing.T) {
	engine := new(MockReconEngine)
	q := &stubQueue{payloads: [][]byte{message(t, "", "txn-1")}}

	runWorker(t, q, engine, worker.Config{Concurrency: 1, RetryAttempts: 3, RetryBaseDelay: time.Millisecond})

	engine.AssertNotCalled(t, "ReconcileTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, q.publishedTo(worker.TopicReconciliationDead), 1)
}
