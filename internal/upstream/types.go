package upstream

import "time"

// Money is the upstream wire representation of a price: amount / 10^scale.
type Money struct {
	Amount int64 `json:"amount"`
	Scale  int32 `json:"scale"`
}

// OrderSummary is the shallow order record returned by the range listing.
type OrderSummary struct {
	ID int64 `json:"id"`
}

// OrderLine is one product position inside a delivery.
type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	UnitPrice Money `json:"unitPrice"`
}

// Delivery is one scheduled drop-off within an order. CancelEnable is
// upstream-determined: true only while the delivery date is today or later.
type Delivery struct {
	DeliveryTime time.Time   `json:"deliveryTime"`
	OrderLines   []OrderLine `json:"orderLines"`
	CancelEnable bool        `json:"cancelEnable"`
}

// DetailedOrder is the full order record owned by the upstream system.
// An order with a non-empty CreditNoteOrderIDs list has been refunded.
type DetailedOrder struct {
	ID                 int64      `json:"id"`
	OrderType          string     `json:"orderType"`
	KitchenID          int64      `json:"kitchenId"`
	Deliveries         []Delivery `json:"deliveries"`
	CreditNoteOrderIDs []int64    `json:"creditNoteOrderIds"`
}

// Product is an orderable item in a kitchen's catalog.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

// MenuGroup is a named group of products within a kitchen's menu response.
type MenuGroup struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

type Webshop struct {
	UID string `json:"uid"`
}

type Kitchen struct {
	ID       int64     `json:"id"`
	Webshops []Webshop `json:"webshops"`
}

type Location struct {
	Name     string    `json:"name"`
	Kitchens []Kitchen `json:"kitchens"`
}

// NewOrderLine and NewDelivery describe an order being placed.
type NewOrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type NewDelivery struct {
	DeliveryTime time.Time      `json:"deliveryTime"`
	OrderLines   []NewOrderLine `json:"orderLines"`
}

// PlaceOrderAck acknowledges a placed (but not yet paid) order.
type PlaceOrderAck struct {
	OrderID int64 `json:"orderId"`
}

// PaymentResult is the outcome of paying a placed order.
type PaymentResult struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}
