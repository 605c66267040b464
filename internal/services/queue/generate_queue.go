package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	queuePkg "github.com/jwebster45206/seed-engine/pkg/queue"
)

// requestsKey is the global list all generation requests land on.
const requestsKey = "generate:requests"

// GenerateQueue manages the queue of seed generation requests
type GenerateQueue struct {
	client *Client
}

func NewGenerateQueue(client *Client) *GenerateQueue {
	return &GenerateQueue{
		client: client,
	}
}

// EnqueueRequest adds a generation request to the end of the queue
func (q *GenerateQueue) EnqueueRequest(ctx context.Context, req *queuePkg.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	if err := q.client.rdb.RPush(ctx, requestsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	return nil
}

// BlockingDequeueRequest pops the next request, waiting up to timeout.
// Returns nil with no error when the queue stays empty or the context ends.
func (q *GenerateQueue) BlockingDequeueRequest(ctx context.Context, timeout time.Duration) (*queuePkg.Request, error) {
	res, err := q.client.rdb.BLPop(ctx, timeout, requestsKey).Result()
	if err != nil {
		if err == redis.Nil || ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPOP returns [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP reply length %d", len(res))
	}

	req, err := queuePkg.FromJSON([]byte(res[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// Depth returns the number of queued requests
func (q *GenerateQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, requestsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// Clear removes all queued requests
func (q *GenerateQueue) Clear(ctx context.Context) error {
	if err := q.client.rdb.Del(ctx, requestsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}
