package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/seed-engine/pkg/seed"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

// RedisStorage implements the Storage interface using Redis for seed states
// and the filesystem for static world documents.
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
	ttl     time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, dataDir string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if dataDir == "" {
		dataDir = "./data"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisStorage{
		client:  redis.NewClient(opt),
		logger:  logger,
		dataDir: dataDir,
		ttl:     ttl,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Seed state operations (Redis-backed)

func seedKey(id uuid.UUID) string {
	return "seedstate:" + id.String()
}

func (r *RedisStorage) SaveSeedState(ctx context.Context, id uuid.UUID, s *seed.SeedState) error {
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal seed state", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal seed state: %w", err)
	}

	cmd := r.client.Set(ctx, seedKey(id), string(data), r.ttl)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save seed state", "uuid", id, "error", err)
		return fmt.Errorf("failed to save seed state: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadSeedState(ctx context.Context, id uuid.UUID) (*seed.SeedState, error) {
	cmd := r.client.Get(ctx, seedKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Seed state not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load seed state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load seed state: %w", err)
	}

	var s seed.SeedState
	if err := json.Unmarshal([]byte(cmd.Val()), &s); err != nil {
		r.logger.Error("Failed to unmarshal seed state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal seed state: %w", err)
	}

	return &s, nil
}

func (r *RedisStorage) DeleteSeedState(ctx context.Context, id uuid.UUID) error {
	cmd := r.client.Del(ctx, seedKey(id))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete seed state", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete seed state: %w", err)
	}
	return nil
}

// World operations (filesystem-backed)

func (r *RedisStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	worldsDir := filepath.Join(r.dataDir, "worlds")
	worlds := make(map[string]string)

	err := filepath.WalkDir(worldsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		doc, err := world.LoadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read world file", "path", path, "error", err)
			return nil
		}

		worlds[doc.Name] = filepath.Base(path)
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk worlds directory", "error", err)
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}

	return worlds, nil
}

func (r *RedisStorage) GetWorldDoc(ctx context.Context, filename string) (*world.Document, error) {
	path := filepath.Join(r.dataDir, "worlds", filename)
	doc, err := world.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world not found: %s: %w", filename, err)
	}
	return doc, nil
}

func (r *RedisStorage) GetWorld(ctx context.Context, filename string) (*world.World, error) {
	doc, err := r.GetWorldDoc(ctx, filename)
	if err != nil {
		return nil, err
	}
	w, err := doc.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile world %s: %w", filename, err)
	}
	return w, nil
}
