package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lunchdesk/api/internal/service"
)

// ProductServicer defines the service methods needed by product handlers.
type ProductServicer interface {
	CanteenProducts(ctx context.Context, kitchenID int64) ([]service.CatalogProduct, error)
}

// ProductHandler serves the kitchen's orderable product catalog.
type ProductHandler struct {
	svc ProductServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc ProductServicer) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// RegisterRoutes registers product endpoints on the given Chi router.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

type productsResponse struct {
	Products []service.CatalogProduct `json:"products"`
}

// List handles GET /products?kitchenId=...
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := strconv.ParseInt(r.URL.Query().Get("kitchenId"), 10, 64)
	if err != nil || kitchenID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kitchenId must be a positive integer"})
		return
	}

	products, err := h.svc.CanteenProducts(r.Context(), kitchenID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []service.CatalogProduct{}
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}
