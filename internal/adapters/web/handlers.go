// Package web is the HTTP adapter: a chi router over the engines, JSON in
// and out, engine error classes mapped to statuses in errors.go.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stockledger/internal/core"
)

// Handler holds the engine services and the chi router.
type Handler struct {
	products  core.ProductService
	locations core.LocationService
	inventory core.InventoryService
	sales     core.SalesService
	reports   core.ReportingService
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(
	products core.ProductService,
	locations core.LocationService,
	inventory core.InventoryService,
	sales core.SalesService,
	reports core.ReportingService,
	allowedOrigins string,
) http.Handler {
	h := &Handler{
		products:  products,
		locations: locations,
		inventory: inventory,
		sales:     sales,
		reports:   reports,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Products ──────────────────────────────────────────────────────────────
	r.Get("/api/products", h.listProducts)
	r.Post("/api/products", h.createProduct)
	r.Get("/api/products/{id}", h.getProduct)
	r.Put("/api/products/{id}", h.updateProduct)
	r.Delete("/api/products/{id}", h.deleteProduct)

	// ── Locations ─────────────────────────────────────────────────────────────
	r.Get("/api/locations", h.listLocations)
	r.Post("/api/locations", h.createLocation)
	r.Get("/api/locations/{id}", h.getLocation)
	r.Put("/api/locations/{id}", h.updateLocation)
	r.Delete("/api/locations/{id}", h.deleteLocation)

	// ── Inventory ─────────────────────────────────────────────────────────────
	r.Get("/api/inventory", h.listInventory)
	r.Get("/api/inventory/{productID}/{locationID}", h.getInventoryRecord)
	r.Post("/api/inventory/adjust", h.adjustInventory)

	// ── Sales ─────────────────────────────────────────────────────────────────
	r.Get("/api/sales", h.listSales)
	r.Post("/api/sales", h.createSale)
	r.Delete("/api/sales/{id}", h.reverseSale)

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Get("/api/reports/product-inventory/{id}", h.productInventoryReport)
	r.Get("/api/reports/location-inventory/{id}", h.locationInventoryReport)
	r.Get("/api/reports/location-sales/{id}", h.locationSalesReport)
	r.Get("/api/logs", h.operationLog)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam parses the named URL parameter as a positive integer. On failure it
// writes HTTP 400 and returns false.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name+": "+raw, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the size limit set by RequestBodyLimit; HTTP 400 for all other
// decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
