// Package worker runs the background consumers that drive event-triggered
// reconciliation off the queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
	"github.com/sarrafx/recon_backend/internal/middleware"
)

// TopicReconciliation is the queue topic the payment workflow publishes to
// whenever a payment verification lands.
const TopicReconciliation = "reconciliation"

// TopicReconciliationDead holds messages that could not be processed:
// undecodable payloads and messages that exhausted their retry attempts.
// They stay there for inspection and manual replay.
const TopicReconciliationDead = TopicReconciliation + ":dead"

// ReconciliationMessage is the wire format of a queued reconciliation request.
type ReconciliationMessage struct {
	TenantID      string `json:"tenantId"`
	TransactionID string `json:"transactionId"`
}

// Config tunes the worker pool.
type Config struct {
	Concurrency    int
	RetryAttempts  int
	RetryBaseDelay time.Duration
	Options        portssvc.ReconcileOptions
}

// Worker consumes reconciliation messages and runs the engine for each.
// Failed runs are retried with doubling backoff; a message that exhausts its
// attempts is moved to the dead-letter topic rather than poisoning the queue.
type Worker struct {
	queue  portssvc.Queue
	recon  portssvc.ReconciliationSvcFacade
	logger *slog.Logger
	cfg    Config
}

// New creates a worker pool over the queue and the reconciliation engine.
func New(queue portssvc.Queue, recon portssvc.ReconciliationSvcFacade, logger *slog.Logger, cfg Config) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	return &Worker{
		queue:  queue,
		recon:  recon,
		logger: logger,
		cfg:    cfg,
	}
}

// Run starts the consumers and blocks until ctx is cancelled and all
// in-flight messages have drained.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			consumerLogger := w.logger.With(slog.Int("consumer", id))
			if err := w.queue.Consume(ctx, TopicReconciliation, w.handle); err != nil && ctx.Err() == nil {
				consumerLogger.Error("Consumer stopped unexpectedly", slog.String("error", err.Error()))
			}
		}(i)
	}
	wg.Wait()
	w.logger.Info("Worker drained", slog.Int("consumers", w.cfg.Concurrency))
}

// handle processes one queued message. Returning an error would redeliver the
// raw message; retries happen here instead so backoff is under our control.
func (w *Worker) handle(ctx context.Context, payload []byte) error {
	var msg ReconciliationMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		// Malformed messages can never succeed; park them for inspection.
		w.logger.Error("Dead-lettering malformed message", slog.String("payload", string(payload)), slog.String("error", err.Error()))
		w.deadLetter(ctx, payload)
		return nil
	}
	if msg.TenantID == "" || msg.TransactionID == "" {
		w.logger.Error("Dead-lettering message with missing identifiers", slog.String("payload", string(payload)))
		w.deadLetter(ctx, payload)
		return nil
	}

	jobLogger := w.logger.With(
		slog.String("tenant_id", msg.TenantID),
		slog.String("transaction_id", msg.TransactionID),
	)
	jobCtx := middleware.WithLogger(ctx, jobLogger)

	delay := w.cfg.RetryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= w.cfg.RetryAttempts; attempt++ {
		res, err := w.recon.ReconcileTransaction(jobCtx, msg.TenantID, msg.TransactionID, w.cfg.Options)
		if err == nil {
			if !res.Success {
				jobLogger.Warn("Reconciliation recorded a failure", slog.String("reason", res.FailureReason))
			}
			return nil
		}
		lastErr = err

		if attempt < w.cfg.RetryAttempts {
			jobLogger.Warn("Reconciliation attempt failed, retrying",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", delay),
				slog.String("error", err.Error()))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				// Shutting down mid-retry: hand the message back for
				// redelivery after restart.
				return fmt.Errorf("shutdown during retry: %w", ctx.Err())
			}
			delay *= 2
		}
	}

	jobLogger.Error("Reconciliation failed after all attempts, dead-lettering",
		slog.Int("attempts", w.cfg.RetryAttempts),
		slog.String("error", lastErr.Error()))
	w.deadLetter(ctx, payload)
	return nil
}

// deadLetter parks an unprocessable message on the dead-letter topic. The
// message is acknowledged either way; a failed park is logged and lost.
func (w *Worker) deadLetter(ctx context.Context, payload []byte) {
	if err := w.queue.Publish(ctx, TopicReconciliationDead, payload); err != nil {
		w.logger.Error("Failed to dead-letter message",
			slog.String("payload", string(payload)),
			slog.String("error", err.Error()))
	}
}
