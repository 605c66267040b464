package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwebster45206/seed-engine/pkg/seed"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

// MockStorage is an in-memory implementation of Storage for testing
type MockStorage struct {
	seedStates map[uuid.UUID]*seed.SeedState
	worlds     map[string]*world.Document // filename -> document
	pingError  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		seedStates: make(map[uuid.UUID]*seed.SeedState),
		worlds:     make(map[string]*world.Document),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.pingError = err
}

// AddWorld registers a world document under a filename
func (m *MockStorage) AddWorld(filename string, doc *world.Document) {
	m.worlds[filename] = doc
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSeedState(ctx context.Context, id uuid.UUID, s *seed.SeedState) error {
	if s == nil {
		return errors.New("seed state cannot be nil")
	}
	m.seedStates[id] = s
	return nil
}

func (m *MockStorage) LoadSeedState(ctx context.Context, id uuid.UUID) (*seed.SeedState, error) {
	return m.seedStates[id], nil
}

func (m *MockStorage) DeleteSeedState(ctx context.Context, id uuid.UUID) error {
	delete(m.seedStates, id)
	return nil
}

func (m *MockStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.worlds))
	for filename, doc := range m.worlds {
		out[doc.Name] = filename
	}
	return out, nil
}

func (m *MockStorage) GetWorldDoc(ctx context.Context, filename string) (*world.Document, error) {
	doc, ok := m.worlds[filename]
	if !ok {
		return nil, fmt.Errorf("world not found: %s", filename)
	}
	return doc, nil
}

func (m *MockStorage) GetWorld(ctx context.Context, filename string) (*world.World, error) {
	doc, err := m.GetWorldDoc(ctx, filename)
	if err != nil {
		return nil, err
	}
	w, err := doc.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile world %s: %w", filename, err)
	}
	return w, nil
}
