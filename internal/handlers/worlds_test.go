package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/seed-engine/internal/storage"
)

func newWorldsHandler(t *testing.T) *WorldsHandler {
	t.Helper()
	ms := storage.NewMockStorage()
	ms.AddWorld("two_rooms.yaml", testDoc(t))
	return NewWorldsHandler(testLogger(), ms)
}

func TestListWorlds(t *testing.T) {
	h := newWorldsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/worlds", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	assert.Equal(t, map[string]string{"two_rooms": "two_rooms.yaml"}, got)
}

func TestGetWorldSummary(t *testing.T) {
	h := newWorldsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/worlds/two_rooms.yaml", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got WorldSummary
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	assert.Equal(t, "two_rooms", got.Name)
	assert.Equal(t, "two_rooms.yaml", got.FileName)
	assert.Equal(t, 2, got.Regions)
	assert.Equal(t, 2, got.Locations)
	assert.Equal(t, 2, got.Entities)
	assert.Equal(t, 2, got.Tokens)
}

func TestGetWorldNotFound(t *testing.T) {
	h := newWorldsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/worlds/no_such.yaml", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetWorldRejectsTraversal(t *testing.T) {
	h := newWorldsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/worlds/..%2Fsecrets.yaml", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWorldsMethodNotAllowed(t *testing.T) {
	h := newWorldsHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/worlds", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
