package web

import (
	"net/http"
	"strconv"
)

// productInventoryReport handles GET /api/reports/product-inventory/{id}.
func (h *Handler) productInventoryReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	report, err := h.reports.ProductInventoryReport(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// locationInventoryReport handles GET /api/reports/location-inventory/{id}.
func (h *Handler) locationInventoryReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	report, err := h.reports.LocationInventoryReport(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// locationSalesReport handles GET /api/reports/location-sales/{id}?start=&end=.
// Both bounds are optional inclusive YYYY-MM-DD dates.
func (h *Handler) locationSalesReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	report, err := h.reports.LocationSalesReport(r.Context(), id, start, end)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// operationLog handles GET /api/logs?product_id=&location_id=.
func (h *Handler) operationLog(w http.ResponseWriter, r *http.Request) {
	productID, ok := optionalIDQuery(w, r, "product_id")
	if !ok {
		return
	}
	locationID, ok := optionalIDQuery(w, r, "location_id")
	if !ok {
		return
	}

	entries, err := h.reports.OperationLog(r.Context(), productID, locationID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, entries)
}

// optionalIDQuery parses a query parameter as a positive integer, returning
// nil when the parameter is absent. On a malformed value it writes HTTP 400
// and returns ok=false.
func optionalIDQuery(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name+": "+raw, "BAD_REQUEST", http.StatusBadRequest)
		return nil, false
	}
	return &id, true
}
