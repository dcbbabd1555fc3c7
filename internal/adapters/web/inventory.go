package web

import (
	"net/http"
)

// adjustRequest is the body of POST /api/inventory/adjust.
type adjustRequest struct {
	ProductID  int    `json:"product_id"`
	LocationID int    `json:"location_id"`
	Quantity   int    `json:"quantity"`
	IsAddition bool   `json:"is_addition"`
	Reason     string `json:"reason"`
}

// listInventory handles GET /api/inventory.
func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	records, err := h.inventory.GetInventory(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, records)
}

// getInventoryRecord handles GET /api/inventory/{productID}/{locationID}.
func (h *Handler) getInventoryRecord(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(w, r, "productID")
	if !ok {
		return
	}
	locationID, ok := idParam(w, r, "locationID")
	if !ok {
		return
	}

	record, err := h.inventory.GetRecord(r.Context(), productID, locationID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, record)
}

// adjustInventory handles POST /api/inventory/adjust.
func (h *Handler) adjustInventory(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.inventory.Adjust(r.Context(), req.ProductID, req.LocationID, req.Quantity, req.IsAddition, req.Reason)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	record, err := h.inventory.GetRecord(r.Context(), req.ProductID, req.LocationID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, record)
}
