package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lunchdesk/api/internal/enum"
	"github.com/lunchdesk/api/internal/service"
	"github.com/lunchdesk/api/internal/upstream"
	"github.com/lunchdesk/api/internal/ws"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	ListSimplified(ctx context.Context, start, end time.Time) ([]service.SimplifiedOrder, error)
	SetDesiredOrders(ctx context.Context, req service.SetOrdersRequest) (*service.SetOrdersResult, error)
}

// OrderBroadcaster pushes order-update events to connected frontends.
// Satisfied by *ws.Hub.
type OrderBroadcaster interface {
	BroadcastToKitchen(kitchenID int64, event ws.Event)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc OrderServicer
	hub OrderBroadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, hub OrderBroadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/", h.Set)
}

// --- Request / Response types ---

type setOrdersRequest struct {
	KitchenID     int64                     `json:"kitchenId"`
	Date          string                    `json:"date"`
	DesiredOrders []service.ProductQuantity `json:"desiredOrders"`
}

type ordersResponse struct {
	Orders   []service.SimplifiedOrder `json:"orders"`
	Warnings []service.Warning         `json:"warnings,omitempty"`
}

// --- Handlers ---

// List handles GET /orders?startDate=...&endDate=...
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("startDate"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "startDate must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("endDate"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "endDate must be YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "endDate must not precede startDate"})
		return
	}

	orders, err := h.svc.ListSimplified(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []service.SimplifiedOrder{}
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

// Set handles PATCH /orders: reconcile the caller's desired per-product
// quantities for one kitchen and day.
func (h *OrderHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.SetDesiredOrders(r.Context(), service.SetOrdersRequest{
		KitchenID:      req.KitchenID,
		Date:           req.Date,
		Desired:        req.DesiredOrders,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if result.Orders == nil {
		result.Orders = []service.SimplifiedOrder{}
	}
	resp := ordersResponse{Orders: result.Orders, Warnings: result.Warnings}

	if h.hub != nil {
		if payload, err := json.Marshal(resp); err == nil {
			h.hub.BroadcastToKitchen(req.KitchenID, ws.Event{
				Type:    enum.EventOrdersUpdated,
				Payload: payload,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeServiceError maps service-layer failures onto the API surface.
// Upstream failures pass through with their original status and body.
func writeServiceError(w http.ResponseWriter, err error) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(upErr.StatusCode)
		w.Write(upErr.Body)
		return
	}

	var cancelErr *service.PartialCancelError
	if errors.As(err, &cancelErr) {
		writeJSON(w, http.StatusBadGateway, map[string]any{"errors": cancelErrorEntries(cancelErr)})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidKitchen),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrNegativeQuantity):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrLocationNotFound),
		errors.Is(err, service.ErrWebshopNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Printf("order request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream request failed"})
	}
}

type cancelErrorEntry struct {
	OrderID int64           `json:"orderId"`
	Error   json.RawMessage `json:"error"`
}

// cancelErrorEntries keeps raw upstream payloads intact and wraps plain
// error messages as JSON strings.
func cancelErrorEntries(cancelErr *service.PartialCancelError) []cancelErrorEntry {
	entries := make([]cancelErrorEntry, 0, len(cancelErr.Failures))
	for _, f := range cancelErr.Failures {
		var payload json.RawMessage
		var upErr *upstream.Error
		if errors.As(f.Err, &upErr) && json.Valid(upErr.Body) {
			payload = upErr.Body
		} else {
			payload, _ = json.Marshal(f.Err.Error())
		}
		entries = append(entries, cancelErrorEntry{OrderID: f.OrderID, Error: payload})
	}
	return entries
}
