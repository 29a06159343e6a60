package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lunchdesk/api/internal/pricing"
	"github.com/lunchdesk/api/internal/upstream"
)

const dateFmt = "2006-01-02"

// canteenProductsGroup is the fixed name of the menu group holding the
// orderable canteen products in the upstream product response.
const canteenProductsGroup = "Canteen products"

// Options tune the service's upstream behavior. Zero values fall back to
// the defaults below.
type Options struct {
	Concurrency   int            // upstream fan-out bound
	StrictDetails bool           // abort on any failed detail fetch
	DeliveryTime  string         // HH:MM serving time for new orders
	Location      *time.Location // timezone of the kitchens
}

// OrderService reconciles desired per-product quantities against the
// upstream order ledger. It owns no state of its own; every call operates
// on a fresh snapshot.
type OrderService struct {
	client      UpstreamClient
	concurrency int
	strict      bool
	serveHour   int
	serveMin    int
	loc         *time.Location
}

// NewOrderService creates a new OrderService.
func NewOrderService(client UpstreamClient, opts Options) *OrderService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	hour, min := 11, 0
	if opts.DeliveryTime != "" {
		if t, err := time.Parse("15:04", opts.DeliveryTime); err == nil {
			hour, min = t.Hour(), t.Minute()
		}
	}
	return &OrderService{
		client:      client,
		concurrency: opts.Concurrency,
		strict:      opts.StrictDetails,
		serveHour:   hour,
		serveMin:    min,
		loc:         opts.Location,
	}
}

// SetDesiredOrders drives the full reconciliation for one kitchen and day:
// fetch and filter the current orders, plan, cancel, create, and return the
// resulting simplified order list.
func (s *OrderService) SetDesiredOrders(ctx context.Context, req SetOrdersRequest) (*SetOrdersResult, error) {
	if req.KitchenID <= 0 {
		return nil, ErrInvalidKitchen
	}
	day, err := time.ParseInLocation(dateFmt, req.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}
	for _, pq := range req.Desired {
		if pq.Quantity < 0 {
			return nil, fmt.Errorf("product %d: %w", pq.ProductID, ErrNegativeQuantity)
		}
	}

	summaries, err := s.client.ListOrders(ctx, day, day)
	if err != nil {
		return nil, err
	}
	details, err := s.fetchOrderDetails(ctx, summaries, s.strict)
	if err != nil {
		return nil, err
	}

	var current []upstream.DetailedOrder
	for _, d := range details {
		if d.KitchenID == req.KitchenID {
			current = append(current, d)
		}
	}

	plan := Reconcile(req.Desired, current)

	if err := s.cancelOrders(ctx, plan.ToCancel); err != nil {
		return nil, err
	}

	result := &SetOrdersResult{Warnings: plan.Warnings}
	for _, o := range plan.Fixed {
		result.Orders = append(result.Orders, buildSimplifiedOrder(req.Date, req.KitchenID, o, false))
	}
	for _, o := range plan.Kept {
		result.Orders = append(result.Orders, buildSimplifiedOrder(req.Date, req.KitchenID, o, true))
	}

	if len(plan.ToCreate) > 0 {
		if err := s.createOrder(ctx, req.KitchenID, day, plan.ToCreate, req.IdempotencyKey); err != nil {
			return nil, err
		}
		catalog, err := s.priceIndex(ctx, req.KitchenID)
		if err != nil {
			return nil, err
		}
		result.Orders = append(result.Orders, simplifiedFromCreated(req.Date, req.KitchenID, plan.ToCreate, catalog))
	}

	return result, nil
}

// ListSimplified returns the simplified projection of every valid order in
// the date range. Listing is read-only, so a failed detail fetch drops the
// entry instead of failing the whole request.
func (s *OrderService) ListSimplified(ctx context.Context, start, end time.Time) ([]SimplifiedOrder, error) {
	summaries, err := s.client.ListOrders(ctx, start, end)
	if err != nil {
		return nil, err
	}
	details, err := s.fetchOrderDetails(ctx, summaries, false)
	if err != nil {
		return nil, err
	}

	orders := make([]SimplifiedOrder, 0, len(details))
	for _, d := range details {
		date := ""
		if len(d.Deliveries) > 0 {
			date = d.Deliveries[0].DeliveryTime.In(s.loc).Format(dateFmt)
		}
		orders = append(orders, buildSimplifiedOrder(date, d.KitchenID, d, fullyCancelable(d)))
	}
	return orders, nil
}

// CatalogProduct is one orderable product with its display price.
type CatalogProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// CanteenProducts extracts the canteen-products group from the kitchen's
// menu response.
func (s *OrderService) CanteenProducts(ctx context.Context, kitchenID int64) ([]CatalogProduct, error) {
	catalog, err := s.canteenCatalog(ctx, kitchenID)
	if err != nil {
		return nil, err
	}
	products := make([]CatalogProduct, 0, len(catalog))
	for _, p := range catalog {
		products = append(products, CatalogProduct{ID: p.ID, Name: p.Name, Price: pricing.Format(p.Price)})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// cancelOrders dispatches one delete call per order under the concurrency
// limit and attempts every order to completion. Failures are aggregated;
// cancels that already went through stay cancelled.
func (s *OrderService) cancelOrders(ctx context.Context, orders []upstream.DetailedOrder) error {
	if len(orders) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		failures []CancelFailure
	)
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, o := range orders {
		g.Go(func() error {
			ok, err := s.client.DeleteOrder(ctx, o.ID)
			if err == nil && !ok {
				err = fmt.Errorf("delete not acknowledged")
			}
			if err != nil {
				mu.Lock()
				failures = append(failures, CancelFailure{OrderID: o.ID, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].OrderID < failures[j].OrderID })
		return &PartialCancelError{Failures: failures}
	}
	return nil
}

// createOrder places and pays one consolidated order covering the
// to-create quantities. Place must succeed before pay is attempted; either
// failure aborts with the upstream error, with no automatic re-creation.
func (s *OrderService) createOrder(ctx context.Context, kitchenID int64, day time.Time, toCreate []ProductQuantity, idempotencyKey string) error {
	webshopUID, err := s.resolveWebshop(ctx, kitchenID)
	if err != nil {
		return err
	}

	lines := make([]upstream.NewOrderLine, 0, len(toCreate))
	for _, pq := range toCreate {
		lines = append(lines, upstream.NewOrderLine{ProductID: pq.ProductID, Quantity: pq.Quantity})
	}
	deliveries := []upstream.NewDelivery{{
		DeliveryTime: time.Date(day.Year(), day.Month(), day.Day(), s.serveHour, s.serveMin, 0, 0, s.loc),
		OrderLines:   lines,
	}}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	if _, err := s.client.PlaceOrder(ctx, kitchenID, deliveries, idempotencyKey); err != nil {
		return fmt.Errorf("place order: %w", err)
	}
	if _, err := s.client.PayOrder(ctx, kitchenID, webshopUID, deliveries); err != nil {
		return fmt.Errorf("pay order: %w", err)
	}
	return nil
}

// resolveWebshop finds the single location whose kitchen list contains the
// kitchen and returns that kitchen's webshop uid.
func (s *OrderService) resolveWebshop(ctx context.Context, kitchenID int64) (string, error) {
	locations, err := s.client.GetLocations(ctx)
	if err != nil {
		return "", err
	}

	var matches []upstream.Kitchen
	for _, loc := range locations {
		for _, k := range loc.Kitchens {
			if k.ID == kitchenID {
				matches = append(matches, k)
			}
		}
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("kitchen %d: %w", kitchenID, ErrLocationNotFound)
	}
	if len(matches[0].Webshops) == 0 {
		return "", fmt.Errorf("kitchen %d: %w", kitchenID, ErrWebshopNotFound)
	}
	return matches[0].Webshops[0].UID, nil
}

func (s *OrderService) canteenCatalog(ctx context.Context, kitchenID int64) ([]upstream.Product, error) {
	menus, err := s.client.GetProducts(ctx, kitchenID)
	if err != nil {
		return nil, err
	}
	for _, m := range menus {
		if m.Name == canteenProductsGroup {
			return m.Products, nil
		}
	}
	return nil, nil
}

// priceIndex maps productId to its catalog price for the kitchen's day.
func (s *OrderService) priceIndex(ctx context.Context, kitchenID int64) (map[int64]upstream.Money, error) {
	catalog, err := s.canteenCatalog(ctx, kitchenID)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]upstream.Money, len(catalog))
	for _, p := range catalog {
		index[p.ID] = p.Price
	}
	return index, nil
}
