package dto

import (
	"time"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// OrderCreateRequest payload for purchase requests.
type OrderCreateRequest struct {
	ItemID  string   `json:"item_id"`
	Message string   `json:"message"`
	Price   *float64 `json:"price"`
}

// OrderUpdateRequest carries a status transition.
type OrderUpdateRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// OrderResponse is the public order shape.
type OrderResponse struct {
	ID          string             `json:"id"`
	ItemID      string             `json:"item_id"`
	BuyerID     string             `json:"buyer_id"`
	SellerID    string             `json:"seller_id"`
	Message     string             `json:"message"`
	Price       *float64           `json:"price"`
	Status      domain.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at"`
}

// NewOrderResponse maps a domain order onto the wire shape.
func NewOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		ItemID:      order.ItemID,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		Message:     order.Message,
		Price:       order.Price,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		CompletedAt: order.CompletedAt,
	}
}

// NewOrderListResponse maps a slice of orders.
func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	results := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		results = append(results, NewOrderResponse(&orders[i]))
	}
	return results
}
