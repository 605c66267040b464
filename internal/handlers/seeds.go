package handlers

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/seed-engine/internal/services/events"
	"github.com/jwebster45206/seed-engine/internal/storage"
	"github.com/jwebster45206/seed-engine/pkg/queue"
	"github.com/jwebster45206/seed-engine/pkg/seed"
)

// Enqueuer is the queue surface the handler needs; satisfied by
// services/queue.GenerateQueue and mocked in tests.
type Enqueuer interface {
	EnqueueRequest(ctx context.Context, req *queue.Request) error
}

type SeedsHandler struct {
	log         *slog.Logger
	storage     storage.Storage
	queue       Enqueuer
	broadcaster events.Publisher
}

func NewSeedsHandler(log *slog.Logger, storage storage.Storage, q Enqueuer, broadcaster events.Publisher) *SeedsHandler {
	return &SeedsHandler{
		log:         log,
		storage:     storage,
		queue:       q,
		broadcaster: broadcaster,
	}
}

// CreateSeedRequest is the POST /v1/seeds body. Seed is optional; a random
// one is drawn and echoed back when omitted.
type CreateSeedRequest struct {
	World string  `json:"world"`
	Seed  *uint32 `json:"seed,omitempty"`
}

func (h *SeedsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/seeds")
	id = strings.Trim(id, "/")

	switch {
	case r.Method == http.MethodPost && id == "":
		h.handleCreate(w, r)
	case r.Method == http.MethodGet && id != "":
		h.handleGet(w, r, id)
	case r.Method == http.MethodDelete && id != "":
		h.handleDelete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SeedsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.World == "" {
		http.Error(w, "world is required", http.StatusBadRequest)
		return
	}
	if !validWorldFile(req.World) {
		http.Error(w, "Invalid world filename", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Reject unknown worlds up front rather than failing the job later.
	if _, err := h.storage.GetWorldDoc(ctx, req.World); err != nil {
		http.Error(w, "World not found", http.StatusNotFound)
		return
	}

	seedValue := randomSeed()
	if req.Seed != nil {
		seedValue = *req.Seed
	}

	ss := seed.New(req.World, seedValue)
	if err := h.storage.SaveSeedState(ctx, ss.ID, ss); err != nil {
		h.log.Error("Failed to save seed state", "error", err)
		http.Error(w, "Failed to save seed state", http.StatusInternalServerError)
		return
	}

	if err := h.queue.EnqueueRequest(ctx, queue.NewRequest(ss.ID, ss.WorldFile, ss.Seed)); err != nil {
		h.log.Error("Failed to enqueue generation request", "error", err, "seed_id", ss.ID)
		http.Error(w, "Failed to enqueue generation request", http.StatusInternalServerError)
		return
	}

	if h.broadcaster != nil {
		event := events.Event{
			Type: events.EventTypeSeedQueued,
			Data: map[string]interface{}{"world": ss.WorldFile, "seed": ss.Seed},
		}
		if err := h.broadcaster.Publish(ctx, ss.ID, event); err != nil {
			h.log.Warn("Failed to publish event", "error", err, "type", event.Type, "seed_id", ss.ID)
		}
	}

	h.log.Info("Seed generation queued", "seed_id", ss.ID, "world", ss.WorldFile, "seed", ss.Seed)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ss); err != nil {
		h.log.Error("Failed to encode seed state", "error", err)
	}
}

func (h *SeedsHandler) handleGet(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "Invalid seed state ID", http.StatusBadRequest)
		return
	}

	ss, err := h.storage.LoadSeedState(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to load seed state", "error", err, "seed_id", id)
		http.Error(w, "Failed to load seed state", http.StatusInternalServerError)
		return
	}
	if ss == nil {
		http.Error(w, "Seed state not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ss); err != nil {
		h.log.Error("Failed to encode seed state", "error", err, "seed_id", id)
	}
}

func (h *SeedsHandler) handleDelete(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "Invalid seed state ID", http.StatusBadRequest)
		return
	}

	if err := h.storage.DeleteSeedState(r.Context(), id); err != nil {
		h.log.Error("Failed to delete seed state", "error", err, "seed_id", id)
		http.Error(w, "Failed to delete seed state", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// randomSeed draws a request seed from the OS entropy source. Determinism
// only matters from the generator down; two requests should not collide.
func randomSeed() uint32 {
	var buf [4]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms
		return 0
	}
	return binary.BigEndian.Uint32(buf[:])
}
