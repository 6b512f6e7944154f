package services

import "context"

// Queue is the at-least-once message transport between the payment workflow
// and the reconciliation worker. A message is acknowledged only when the
// handler returns nil; a handler error negatively acknowledges it for
// redelivery.
type Queue interface {
	// Publish enqueues a payload on the named topic.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Consume delivers messages from the topic to handler until ctx is
	// cancelled. Blocks for the lifetime of the consumer.
	Consume(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error
}
