package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// MaxConcurrency caps Consume's worker count
const MaxConcurrency = 5

// redisClient implements Client on a Redis list
type redisClient struct {
	client    *redis.Client
	queueName string
	pollWait  time.Duration
	logger    *slog.Logger
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL       string
	QueueName string
}

// NewRedisClient creates a new Redis queue client
func NewRedisClient(cfg RedisConfig, logger *slog.Logger) (Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis queue",
		slog.String("addr", opts.Addr),
		slog.String("queue", cfg.QueueName),
	)

	return NewRedisClientFromClient(client, cfg.QueueName, logger), nil
}

// NewRedisClientFromClient wraps an existing client
func NewRedisClientFromClient(client *redis.Client, queueName string, logger *slog.Logger) Client {
	return &redisClient{
		client:    client,
		queueName: queueName,
		pollWait:  time.Second,
		logger:    logger,
	}
}

// Publish serializes the handoff and pushes it onto the list
func (c *redisClient) Publish(ctx context.Context, handoff *models.Handoff) error {
	data, err := json.Marshal(handoff)
	if err != nil {
		return fmt.Errorf("failed to marshal handoff: %w", err)
	}

	// LPUSH + BRPOP gives FIFO order
	if err := c.client.LPush(ctx, c.queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to push handoff to queue: %w", err)
	}

	c.logger.Debug("handoff queued",
		slog.String("flow", handoff.Flow),
		slog.String("destination", handoff.Destination),
	)

	return nil
}

// Consume pops handoffs until ctx is done. In-flight handlers are drained
// before it returns; handlers run on a context that outlives ctx.
func (c *redisClient) Consume(ctx context.Context, handler HandoffHandler, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > MaxConcurrency {
		concurrency = MaxConcurrency
	}

	c.logger.Info("starting queue consumer",
		slog.String("queue", c.queueName),
		slog.Int("concurrency", concurrency),
	)

	semaphore := make(chan struct{}, concurrency)
	drain := func() {
		for i := 0; i < concurrency; i++ {
			semaphore <- struct{}{}
		}
		c.logger.Info("all in-flight handoffs completed")
	}

	for {
		if ctx.Err() != nil {
			c.logger.Info("consumer stopped by context, waiting for in-flight handoffs")
			drain()
			return ctx.Err()
		}

		result, err := c.client.BRPop(ctx, c.pollWait, c.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopped by context, waiting for in-flight handoffs")
				drain()
				return err
			}
			c.logger.Error("failed to pop from queue", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
			case <-time.After(c.pollWait):
			}
			continue
		}

		// BRPOP returns [queueName, value]
		if len(result) < 2 {
			c.logger.Error("unexpected BRPOP result format")
			continue
		}

		var handoff models.Handoff
		if err := json.Unmarshal([]byte(result[1]), &handoff); err != nil {
			c.logger.Error("failed to unmarshal handoff",
				slog.String("error", err.Error()),
			)
			continue
		}

		semaphore <- struct{}{}

		go func(handoff models.Handoff) {
			defer func() { <-semaphore }()

			if err := handler(context.WithoutCancel(ctx), &handoff); err != nil {
				c.logger.Error("handler failed to process handoff",
					slog.String("flow", handoff.Flow),
					slog.String("error", err.Error()),
				)
			}
		}(handoff)
	}
}

// Length returns the number of queued handoffs
func (c *redisClient) Length(ctx context.Context) (int64, error) {
	length, err := c.client.LLen(ctx, c.queueName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// Close closes the Redis connection
func (c *redisClient) Close() error {
	c.logger.Info("closing Redis queue connection")
	return c.client.Close()
}

// Health checks if Redis is healthy
func (c *redisClient) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
