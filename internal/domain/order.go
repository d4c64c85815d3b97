package domain

import "time"

// OrderStatus is the negotiation lifecycle of a purchase request.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAccepted  OrderStatus = "accepted"
	OrderRejected  OrderStatus = "rejected"
	OrderCompleted OrderStatus = "completed"
)

// Order is a buyer's purchase request against a listing.
type Order struct {
	ID          string
	ItemID      string
	BuyerID     string
	SellerID    string
	Message     string
	Price       *float64
	Status      OrderStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}
