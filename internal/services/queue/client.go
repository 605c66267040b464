// Package queue is the Redis-backed hand-off between the API and the
// generation workers.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Client owns the Redis connection the generate queue and the event
// broadcaster share. One connection per process is enough; both sides are
// low-volume.
type Client struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewClient parses the URL and verifies the connection before handing the
// client out. A queue that cannot reach Redis should fail at startup, not on
// the first enqueue.
func NewClient(ctx context.Context, redisURL string, log *slog.Logger) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Queue connected to Redis", "url", redisURL)

	return &Client{rdb: rdb, log: log}, nil
}

// Ping reports whether the queue's Redis connection is still usable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("queue redis ping failed: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Redis exposes the underlying connection for services that share it, such
// as the event broadcaster.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
