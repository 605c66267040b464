package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSeedQueued    EventType = "seed.queued"
	EventTypeSeedRunning   EventType = "seed.running"
	EventTypeSeedCompleted EventType = "seed.completed"
	EventTypeSeedFailed    EventType = "seed.failed"
)

// Event is one seed lifecycle notification
type Event struct {
	Type   EventType              `json:"type"`
	SeedID string                 `json:"seed_id"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Publisher is the broadcast surface the worker depends on
type Publisher interface {
	Publish(ctx context.Context, seedID uuid.UUID, event Event) error
}

// Broadcaster publishes seed lifecycle events to Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ Publisher = (*Broadcaster)(nil)

func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// ChannelFor returns the pub/sub channel for one seed state
func ChannelFor(seedID uuid.UUID) string {
	return "seed:events:" + seedID.String()
}

// Publish sends an event on the seed's channel
func (b *Broadcaster) Publish(ctx context.Context, seedID uuid.UUID, event Event) error {
	event.SeedID = seedID.String()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, ChannelFor(seedID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Published event", "type", event.Type, "seed_id", event.SeedID)
	return nil
}

// Subscribe returns a pub/sub subscription for one seed's events.
// The caller owns the subscription and must close it.
func (b *Broadcaster) Subscribe(ctx context.Context, seedID uuid.UUID) *redis.PubSub {
	return b.redisClient.Subscribe(ctx, ChannelFor(seedID))
}
