package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestBroadcaster(t *testing.T) *Broadcaster {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewBroadcaster(client, logger)
}

func TestChannelFor(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "seed:events:11111111-2222-3333-4444-555555555555", ChannelFor(id))
}

func TestPublishSubscribe(t *testing.T) {
	b := newTestBroadcaster(t)
	ctx := context.Background()
	seedID := uuid.New()

	sub := b.Subscribe(ctx, seedID)
	defer func() { _ = sub.Close() }()

	// Wait for the subscription to land before publishing
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	err := b.Publish(ctx, seedID, Event{
		Type: EventTypeSeedCompleted,
		Data: map[string]interface{}{"attempts": 3},
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got Event
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		assert.Equal(t, EventTypeSeedCompleted, got.Type)
		assert.Equal(t, seedID.String(), got.SeedID)
		assert.Equal(t, float64(3), got.Data["attempts"])
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestPublishSetsSeedID(t *testing.T) {
	b := newTestBroadcaster(t)
	seedID := uuid.New()

	// No subscribers is fine; publish should still succeed
	err := b.Publish(context.Background(), seedID, Event{Type: EventTypeSeedQueued})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
}
