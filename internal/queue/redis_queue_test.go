package queue

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "reconciliation"

func testQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	q := &RedisQueue{
		client:    redis.NewClient(&redis.Options{Addr: srv.Addr()}),
		keyPrefix: "recon",
		logger:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
	t.Cleanup(func() { _ = q.Close() })
	return q, srv
}

func TestNack_RequeuesFailedPayloadByValue(t *testing.T) {
	q, srv := testQueue(t)
	ctx := context.Background()
	processing := q.processingKey(testTopic)
	source := q.topicKey(testTopic)

	// Another consumer's message sits at the head of the processing list.
	// Nacking must not send it back in place of the failed one.
	_, err := srv.Push(processing, "in-flight-elsewhere")
	require.NoError(t, err)
	_, err = srv.Push(processing, "failed-message")
	require.NoError(t, err)

	require.NoError(t, q.nack(ctx, testTopic, "failed-message"))

	parked, err := srv.List(processing)
	require.NoError(t, err)
	assert.Equal(t, []string{"in-flight-elsewhere"}, parked)

	requeued, err := srv.List(source)
	require.NoError(t, err)
	assert.Equal(t, []string{"failed-message"}, requeued)
}

func TestReclaim_MovesParkedMessagesBack(t *testing.T) {
	q, srv := testQueue(t)
	ctx := context.Background()

	_, err := srv.Push(q.processingKey(testTopic), "orphan-1")
	require.NoError(t, err)
	_, err = srv.Push(q.processingKey(testTopic), "orphan-2")
	require.NoError(t, err)

	require.NoError(t, q.reclaim(ctx, testTopic))

	assert.False(t, srv.Exists(q.processingKey(testTopic)))
	requeued, err := srv.List(q.topicKey(testTopic))
	require.NoError(t, err)
	assert.Len(t, requeued, 2)
}

func TestConsume_AcknowledgedMessageLeavesNoTrace(t *testing.T) {
	q, srv := testQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Publish(ctx, testTopic, []byte(`{"tenantId":"t-1"}`)))

	var mu sync.Mutex
	var received []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Consume(ctx, testTopic, func(ctx context.Context, payload []byte) error {
			mu.Lock()
			received = append(received, string(payload))
			mu.Unlock()
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return !srv.Exists(q.topicKey(testTopic)) && !srv.Exists(q.processingKey(testTopic))
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}

	assert.Equal(t, []string{`{"tenantId":"t-1"}`}, received)
}

func TestConsume_FailedHandlerGetsRedelivered(t *testing.T) {
	q, _ := testQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Publish(ctx, testTopic, []byte("flaky")))

	var mu sync.Mutex
	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = q.Consume(ctx, testTopic, func(ctx context.Context, payload []byte) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 1 {
				return assert.AnError
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
