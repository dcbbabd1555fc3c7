package web

import (
	"net/http"

	"stockledger/internal/core"
)

// listLocations handles GET /api/locations.
func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locations.GetLocations(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, locations)
}

// createLocation handles POST /api/locations.
func (h *Handler) createLocation(w http.ResponseWriter, r *http.Request) {
	var input core.LocationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	location, err := h.locations.CreateLocation(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, location)
}

// getLocation handles GET /api/locations/{id}.
func (h *Handler) getLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	location, err := h.locations.GetLocation(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, location)
}

// updateLocation handles PUT /api/locations/{id}.
func (h *Handler) updateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var input core.LocationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	location, err := h.locations.UpdateLocation(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, location)
}

// deleteLocation handles DELETE /api/locations/{id}.
func (h *Handler) deleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.locations.DeleteLocation(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, "location not found", "NOT_FOUND", http.StatusNotFound)
		return
	}

	type response struct {
		Deleted bool `json:"deleted"`
	}
	writeJSON(w, response{Deleted: true})
}
