// Package seed defines the SeedState record: one randomization request as it
// moves through the queue, the worker and storage.
package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/seed-engine/pkg/randomizer"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Gain is one spoiler-log entry, by name so consumers never need the world
// arena to read it.
type Gain struct {
	Location string `json:"location"`
	Token    string `json:"token"`
}

// SeedState is the API and storage representation of one randomization job.
type SeedState struct {
	ID        uuid.UUID `json:"id"`
	WorldFile string    `json:"world_file"`
	Seed      uint32    `json:"seed"`
	Status    Status    `json:"status"`

	// Populated when Status is done.
	Attempts   int               `json:"attempts,omitempty"`
	Placements map[string]string `json:"placements,omitempty"` // location name -> entity name
	Spheres    [][]Gain          `json:"spheres,omitempty"`
	Spoiler    string            `json:"spoiler,omitempty"`

	// Populated when Status is failed.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns a queued SeedState for the given world and seed.
func New(worldFile string, seedValue uint32) *SeedState {
	now := time.Now()
	return &SeedState{
		ID:        uuid.New(),
		WorldFile: worldFile,
		Seed:      seedValue,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyResult copies an accepted generation result onto the record by name
// and marks it done.
func (s *SeedState) ApplyResult(w *world.World, res *randomizer.Result) {
	s.Status = StatusDone
	s.Attempts = res.Attempts
	s.Placements = make(map[string]string, len(w.Locations))
	for i := range w.Locations {
		loc := &w.Locations[i]
		s.Placements[loc.Name] = w.Entity(res.Assignment[loc.ID]).Name
	}
	s.Spheres = make([][]Gain, len(res.Spheres))
	for i, sphere := range res.Spheres {
		gains := make([]Gain, len(sphere))
		for j, g := range sphere {
			gains[j] = Gain{
				Location: w.Location(g.Location).Name,
				Token:    w.Tokens.Name(g.Token),
			}
		}
		s.Spheres[i] = gains
	}
}

// Fail marks the record failed with the given reason.
func (s *SeedState) Fail(reason string) {
	s.Status = StatusFailed
	s.Error = reason
}
