package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lunchdesk/api/internal/upstream"
)

// LocationStore defines the upstream methods needed by location handlers.
// Satisfied by *upstream.Client.
type LocationStore interface {
	GetLocations(ctx context.Context) ([]upstream.Location, error)
}

// LocationHandler serves the upstream location/kitchen hierarchy.
type LocationHandler struct {
	store LocationStore
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(store LocationStore) *LocationHandler {
	return &LocationHandler{store: store}
}

// RegisterRoutes registers location endpoints on the given Chi router.
func (h *LocationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

type locationsResponse struct {
	Locations []upstream.Location `json:"locations"`
}

// List handles GET /locations.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.store.GetLocations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if locations == nil {
		locations = []upstream.Location{}
	}
	writeJSON(w, http.StatusOK, locationsResponse{Locations: locations})
}
