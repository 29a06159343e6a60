package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lunchdesk/api/internal/upstream"
)

// Errors returned by the order service.
var (
	ErrInvalidKitchen   = errors.New("kitchenId is required")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrNegativeQuantity = errors.New("quantity must be >= 0")
	ErrLocationNotFound = errors.New("no delivery location found for kitchen")
	ErrWebshopNotFound  = errors.New("kitchen has no webshop")
)

// UpstreamClient defines the ordering-API methods the service needs.
// Satisfied by *upstream.Client; narrow interface for testability.
type UpstreamClient interface {
	ListOrders(ctx context.Context, start, end time.Time) ([]upstream.OrderSummary, error)
	GetOrderDetails(ctx context.Context, orderID int64) (*upstream.DetailedOrder, error)
	GetProducts(ctx context.Context, kitchenID int64) ([]upstream.MenuGroup, error)
	GetLocations(ctx context.Context) ([]upstream.Location, error)
	PlaceOrder(ctx context.Context, kitchenID int64, deliveries []upstream.NewDelivery, idempotencyKey string) (*upstream.PlaceOrderAck, error)
	PayOrder(ctx context.Context, kitchenID int64, webshopUID string, deliveries []upstream.NewDelivery) (*upstream.PaymentResult, error)
	DeleteOrder(ctx context.Context, orderID int64) (bool, error)
}

// ProductQuantity is a desired (or to-be-created) amount of one product.
type ProductQuantity struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// SetOrdersRequest is the validated input for reconciling a kitchen's day.
type SetOrdersRequest struct {
	KitchenID      int64
	Date           string // YYYY-MM-DD
	Desired        []ProductQuantity
	IdempotencyKey string // optional, forwarded to order creation
}

// SetOrdersResult is the post-reconciliation view of the kitchen's day.
type SetOrdersResult struct {
	Orders   []SimplifiedOrder
	Warnings []Warning
}

// Warning flags a product whose fixed (immovable) quantity already exceeds
// the desired quantity. Reconciliation cannot reduce it.
type Warning struct {
	ProductID int64 `json:"productId"`
	Desired   int   `json:"desired"`
	Fixed     int   `json:"fixed"`
}

// CancelFailure records one failed delete-order call.
type CancelFailure struct {
	OrderID int64
	Err     error
}

// PartialCancelError aggregates the failures of a cancel batch. Cancels
// that already succeeded are not rolled back; the caller must surface the
// partial outcome rather than hide it.
type PartialCancelError struct {
	Failures []CancelFailure
}

func (e *PartialCancelError) Error() string {
	return fmt.Sprintf("%d of the scheduled cancellations failed", len(e.Failures))
}

// SimplifiedOrderLine is one merged product position in a SimplifiedOrder.
type SimplifiedOrderLine struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// SimplifiedOrder is the output-only projection returned to the frontend:
// order lines merged across deliveries, sorted by productId ascending.
type SimplifiedOrder struct {
	Date          string                `json:"date"`
	KitchenID     int64                 `json:"kitchenId"`
	Orderlines    []SimplifiedOrderLine `json:"orderlines"`
	CancelEnabled bool                  `json:"cancelEnabled"`
}
