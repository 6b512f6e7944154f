// Package queue provides a Redis-list backed implementation of the message
// transport between the payment workflow and the reconciliation worker.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	portssvc "github.com/sarrafx/recon_backend/internal/core/ports/services"
)

// blockTimeout bounds each BLMOVE wait so consumers notice context
// cancellation promptly.
const blockTimeout = 5 * time.Second

// Config holds queue configuration.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisQueue implements the Queue port on Redis lists. Delivery is
// at-least-once: BLMOVE parks each message on a per-topic processing list
// until the handler acknowledges it, and unacknowledged messages are
// reclaimed when a consumer starts.
type RedisQueue struct {
	client    *redis.Client
	keyPrefix string
	logger    *slog.Logger
}

// New creates a RedisQueue and verifies the connection.
func New(cfg *Config, logger *slog.Logger) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "recon"
	}

	return &RedisQueue{
		client:    client,
		keyPrefix: prefix,
		logger:    logger,
	}, nil
}

// Close closes the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

var _ portssvc.Queue = (*RedisQueue)(nil)

func (q *RedisQueue) topicKey(topic string) string {
	return q.keyPrefix + ":queue:" + topic
}

func (q *RedisQueue) processingKey(topic string) string {
	return q.keyPrefix + ":processing:" + topic
}

// Publish implements portssvc.Queue.
func (q *RedisQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := q.client.LPush(ctx, q.topicKey(topic), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

// Consume implements portssvc.Queue. It blocks until ctx is cancelled.
func (q *RedisQueue) Consume(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error {
	if err := q.reclaim(ctx, topic); err != nil {
		q.logger.Warn("Failed to reclaim in-flight messages", slog.String("topic", topic), slog.String("error", err.Error()))
	}

	source := q.topicKey(topic)
	processing := q.processingKey(topic)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := q.client.BLMove(ctx, source, processing, "RIGHT", "LEFT", blockTimeout).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.logger.Error("Queue poll failed", slog.String("topic", topic), slog.String("error", err.Error()))
			// Back off briefly so a broken connection does not spin.
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		if err := handler(ctx, []byte(payload)); err != nil {
			q.logger.Warn("Handler failed, requeueing message", slog.String("topic", topic), slog.String("error", err.Error()))
			if nackErr := q.nack(ctx, topic, payload); nackErr != nil {
				q.logger.Error("Failed to requeue message", slog.String("topic", topic), slog.String("error", nackErr.Error()))
			}
			continue
		}

		if err := q.client.LRem(ctx, processing, 1, payload).Err(); err != nil {
			q.logger.Error("Failed to acknowledge message", slog.String("topic", topic), slog.String("error", err.Error()))
		}
	}
}

// nack moves a failed message back onto the topic by value. Popping the
// processing list's head instead could steal another consumer's in-flight
// message; removing this exact payload targets only our own. The two
// commands run in one MULTI/EXEC so the message is never absent from both
// lists at once.
func (q *RedisQueue) nack(ctx context.Context, topic string, payload string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processingKey(topic), 1, payload)
		pipe.LPush(ctx, q.topicKey(topic), payload)
		return nil
	})
	return err
}

// reclaim moves messages parked on the processing list back onto the topic.
// They were in flight when a previous consumer died.
func (q *RedisQueue) reclaim(ctx context.Context, topic string) error {
	source := q.topicKey(topic)
	processing := q.processingKey(topic)

	for {
		err := q.client.LMove(ctx, processing, source, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
