package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/seed-engine/internal/storage"
)

type WorldsHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewWorldsHandler(log *slog.Logger, storage storage.Storage) *WorldsHandler {
	return &WorldsHandler{
		log:     log,
		storage: storage,
	}
}

// WorldSummary describes one world file without exposing the full document.
type WorldSummary struct {
	Name      string `json:"name"`
	FileName  string `json:"file_name"`
	Regions   int    `json:"regions"`
	Locations int    `json:"locations"`
	Entities  int    `json:"entities"`
	Tokens    int    `json:"tokens"`
}

func (h *WorldsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/v1/worlds")
	filename = strings.Trim(filename, "/")

	if filename == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, filename)
}

func (h *WorldsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	worlds, err := h.storage.ListWorlds(r.Context())
	if err != nil {
		h.log.Error("Failed to list worlds", "error", err)
		http.Error(w, "Failed to list worlds", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(worlds); err != nil {
		h.log.Error("Failed to encode worlds list", "error", err)
	}
}

// validWorldFile rejects names that could resolve outside the worlds
// directory. World files live in one flat directory, so any separator or
// parent reference is illegitimate.
func validWorldFile(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !strings.Contains(name, "/") && !strings.Contains(name, "\\")
}

func (h *WorldsHandler) handleGet(w http.ResponseWriter, r *http.Request, filename string) {
	if !validWorldFile(filename) {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	compiled, err := h.storage.GetWorld(r.Context(), filename)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "World not found", http.StatusNotFound)
			return
		}
		h.log.Error("Failed to load world", "error", err, "filename", filename)
		http.Error(w, "Failed to load world", http.StatusInternalServerError)
		return
	}

	summary := WorldSummary{
		Name:      compiled.Name,
		FileName:  filename,
		Regions:   len(compiled.Regions),
		Locations: len(compiled.Locations),
		Entities:  len(compiled.Entities),
		Tokens:    compiled.Tokens.Count(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		h.log.Error("Failed to encode world summary", "error", err, "filename", filename)
	}
}
