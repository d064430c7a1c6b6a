package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/repository"
)

// Default retry settings for handoff inserts
const (
	DefaultMaxRetries = 3
	DefaultBackoff    = 500 * time.Millisecond
)

// HandoffProcessor writes queued handoffs to the audit log
type HandoffProcessor struct {
	handoffRepo repository.HandoffRepository
	maxRetries  int
	backoff     time.Duration
	logger      *slog.Logger
}

// NewHandoffProcessor creates a new handoff processor. Attempt n waits
// n*backoff before retrying.
func NewHandoffProcessor(
	handoffRepo repository.HandoffRepository,
	maxRetries int,
	backoff time.Duration,
	logger *slog.Logger,
) *HandoffProcessor {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	if backoff < 0 {
		backoff = DefaultBackoff
	}

	return &HandoffProcessor{
		handoffRepo: handoffRepo,
		maxRetries:  maxRetries,
		backoff:     backoff,
		logger:      logger,
	}
}

// Process inserts one handoff, retrying storage failures. Invalid handoffs
// are dropped without retry.
func (p *HandoffProcessor) Process(ctx context.Context, handoff *models.Handoff) error {
	if !models.IsValidFlow(handoff.Flow) {
		p.logger.Warn("dropping handoff with invalid flow",
			slog.String("flow", handoff.Flow),
		)
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		lastErr = p.handoffRepo.Create(ctx, handoff)
		if lastErr == nil {
			p.logger.Info("handoff recorded",
				slog.Int64("handoff_id", handoff.ID),
				slog.String("flow", handoff.Flow),
				slog.Int("attempt", attempt),
			)
			return nil
		}

		if models.IsValidationError(lastErr) {
			p.logger.Warn("dropping rejected handoff",
				slog.String("flow", handoff.Flow),
				slog.String("error", lastErr.Error()),
			)
			return nil
		}

		p.logger.Warn("handoff insert failed",
			slog.String("flow", handoff.Flow),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", p.maxRetries),
			slog.String("error", lastErr.Error()),
		)

		if attempt == p.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("handoff insert interrupted: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}

	p.logger.Error("handoff permanently failed after max retries",
		slog.String("flow", handoff.Flow),
		slog.Int("max_retries", p.maxRetries),
	)

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
