package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request is one generation job on the queue. The SeedState record is stored
// separately; the request only carries what the worker needs to pick it up.
type Request struct {
	RequestID   string    `json:"request_id"`
	SeedStateID uuid.UUID `json:"seed_state_id"`
	WorldFile   string    `json:"world_file"`
	Seed        uint32    `json:"seed"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// NewRequest builds a queue request for a seed state.
func NewRequest(seedStateID uuid.UUID, worldFile string, seedValue uint32) *Request {
	return &Request{
		RequestID:   uuid.New().String(),
		SeedStateID: seedStateID,
		WorldFile:   worldFile,
		Seed:        seedValue,
		EnqueuedAt:  time.Now(),
	}
}

// ToJSON converts the request to JSON bytes for Redis.
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes.
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
