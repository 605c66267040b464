package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/seed-engine/pkg/seed"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

// Storage is the persistence surface for seed states (Redis-backed) and
// world documents (filesystem-backed static data).
type Storage interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error

	// Close closes the storage connection
	Close() error

	// SaveSeedState saves a seed state under its ID
	SaveSeedState(ctx context.Context, id uuid.UUID, s *seed.SeedState) error

	// LoadSeedState retrieves a seed state by ID.
	// Returns nil if the seed state doesn't exist.
	LoadSeedState(ctx context.Context, id uuid.UUID) (*seed.SeedState, error)

	// DeleteSeedState removes a seed state by ID
	DeleteSeedState(ctx context.Context, id uuid.UUID) error

	// ListWorlds returns world names keyed to their filenames
	ListWorlds(ctx context.Context) (map[string]string, error)

	// GetWorldDoc loads a world document by filename
	GetWorldDoc(ctx context.Context, filename string) (*world.Document, error)

	// GetWorld loads and compiles a world by filename
	GetWorld(ctx context.Context, filename string) (*world.World, error)
}
