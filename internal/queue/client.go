package queue

import (
	"context"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// Client defines the interface for the handoff audit queue
type Client interface {
	// Publish pushes a handoff onto the queue
	Publish(ctx context.Context, handoff *models.Handoff) error

	// Consume pops handoffs and passes them to handler
	// concurrency controls how many handoffs can be processed simultaneously
	Consume(ctx context.Context, handler HandoffHandler, concurrency int) error

	// Length returns the number of queued handoffs
	Length(ctx context.Context) (int64, error)

	// Close closes the queue connection
	Close() error

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// HandoffHandler processes one queued handoff
type HandoffHandler func(ctx context.Context, handoff *models.Handoff) error
