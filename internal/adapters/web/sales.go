package web

import (
	"net/http"

	"github.com/shopspring/decimal"
)

// saleRequest is the body of POST /api/sales.
type saleRequest struct {
	ProductID  int             `json:"product_id"`
	LocationID int             `json:"location_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// listSales handles GET /api/sales.
func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.GetSales(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sales)
}

// createSale handles POST /api/sales.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sale, err := h.sales.CreateSale(r.Context(), req.ProductID, req.LocationID, req.Quantity, req.Price)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, sale)
}

// reverseSale handles DELETE /api/sales/{id}.
func (h *Handler) reverseSale(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	reversed, err := h.sales.ReverseSale(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Reversed bool `json:"reversed"`
	}
	writeJSON(w, response{Reversed: reversed})
}
