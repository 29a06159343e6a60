package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	dateFmt      = "2006-01-02"
	listPageSize = 250
)

// Client performs authenticated calls against the external ordering API.
// All methods either return a typed result or pass the upstream failure
// through as *Error.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// listOrdersPage is one page of the upstream order listing.
type listOrdersPage struct {
	Orders []OrderSummary `json:"orders"`
	Pages  int            `json:"pages"`
}

// ListOrders returns every order summary in [start, end], walking the
// upstream pagination until the reported page count is exhausted.
func (c *Client) ListOrders(ctx context.Context, start, end time.Time) ([]OrderSummary, error) {
	var all []OrderSummary
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("startDate", start.Format(dateFmt))
		q.Set("endDate", end.Format(dateFmt))
		q.Set("page", fmt.Sprint(page))
		q.Set("pageSize", fmt.Sprint(listPageSize))

		var p listOrdersPage
		if err := c.do(ctx, http.MethodGet, "/orders?"+q.Encode(), nil, nil, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Orders...)
		if page >= p.Pages {
			return all, nil
		}
	}
}

func (c *Client) GetOrderDetails(ctx context.Context, orderID int64) (*DetailedOrder, error) {
	var d DetailedOrder
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetProducts returns the menu groups published for a kitchen's current day.
func (c *Client) GetProducts(ctx context.Context, kitchenID int64) ([]MenuGroup, error) {
	var resp struct {
		Menus []MenuGroup `json:"menus"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/kitchens/%d/products", kitchenID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Menus, nil
}

func (c *Client) GetLocations(ctx context.Context) ([]Location, error) {
	var resp struct {
		Locations []Location `json:"locations"`
	}
	if err := c.do(ctx, http.MethodGet, "/locations", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

// PlaceOrder creates an unpaid order. The idempotency key shields the
// caller against duplicate creation when a transient failure forces a retry.
func (c *Client) PlaceOrder(ctx context.Context, kitchenID int64, deliveries []NewDelivery, idempotencyKey string) (*PlaceOrderAck, error) {
	body := map[string]any{"deliveries": deliveries}
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	var ack PlaceOrderAck
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/kitchens/%d/orders", kitchenID), headers, body, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *Client) PayOrder(ctx context.Context, kitchenID int64, webshopUID string, deliveries []NewDelivery) (*PaymentResult, error) {
	body := map[string]any{"deliveries": deliveries}
	var res PaymentResult
	path := fmt.Sprintf("/kitchens/%d/webshops/%s/payments", kitchenID, url.PathEscape(webshopUID))
	if err := c.do(ctx, http.MethodPost, path, nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteOrder(ctx context.Context, orderID int64) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", orderID), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// do issues one request. Non-2xx responses become *Error with the raw body.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &Error{StatusCode: resp.StatusCode, Body: raw}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
