package web

import (
	"net/http"

	"stockledger/internal/core"
)

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var input core.ProductInput
	if !decodeJSON(w, r, &input) {
		return
	}

	product, err := h.products.CreateProduct(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, product)
}

// getProduct handles GET /api/products/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

// updateProduct handles PUT /api/products/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var input core.ProductInput
	if !decodeJSON(w, r, &input) {
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

// deleteProduct handles DELETE /api/products/{id}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.products.DeleteProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, "product not found", "NOT_FOUND", http.StatusNotFound)
		return
	}

	type response struct {
		Deleted bool `json:"deleted"`
	}
	writeJSON(w, response{Deleted: true})
}
