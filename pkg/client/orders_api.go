package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Order is a purchase request between a buyer and a listing's seller.
type Order struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"item_id"`
	BuyerID     string     `json:"buyer_id"`
	SellerID    string     `json:"seller_id"`
	Message     string     `json:"message"`
	Price       *float64   `json:"price"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// OrderCreate is the payload for filing a purchase request.
type OrderCreate struct {
	ItemID  string   `json:"item_id"`
	Message string   `json:"message"`
	Price   *float64 `json:"price"`
}

// OrdersAPI wraps the order endpoints.
type OrdersAPI struct {
	transport *Transport
}

// Create files a purchase request against an active listing.
func (a *OrdersAPI) Create(ctx context.Context, input OrderCreate) (*Order, error) {
	var order Order
	if err := a.transport.Do(ctx, http.MethodPost, "/api/orders/", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Received fetches orders where the caller is the seller.
func (a *OrdersAPI) Received(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := a.transport.Do(ctx, http.MethodGet, "/api/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Placed fetches orders where the caller is the buyer.
func (a *OrdersAPI) Placed(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := a.transport.Do(ctx, http.MethodGet, "/api/orders/my-orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus transitions an order. Sellers accept or reject pending
// orders; either party completes an accepted one.
func (a *OrdersAPI) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	body := map[string]string{"status": status}
	var order Order
	path := fmt.Sprintf("/api/orders/%s/", url.PathEscape(id))
	if err := a.transport.Do(ctx, http.MethodPatch, path, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
