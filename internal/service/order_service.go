package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
	"github.com/Ahmed-Younes0x/greenswap/internal/events"
	"github.com/Ahmed-Younes0x/greenswap/internal/repository"
	apperrors "github.com/Ahmed-Younes0x/greenswap/pkg/util"
)

// OrderService coordinates purchase request workflows.
type OrderService struct {
	orders     repository.OrderRepository
	items      repository.ItemRepository
	dispatcher events.Dispatcher
}

// OrderDependencies bundles repositories for the order service.
type OrderDependencies struct {
	OrderRepo  repository.OrderRepository
	ItemRepo   repository.ItemRepository
	Dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:     deps.OrderRepo,
		items:      deps.ItemRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a purchase request from buyer to the listing's seller.
func (s *OrderService) Create(ctx context.Context, buyerID, itemID, message string, price *float64) (*domain.Order, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": itemID})
		}
		return nil, err
	}
	if item.Status != domain.ItemStatusActive {
		return nil, apperrors.NewValidationError("item is not available", map[string]any{"status": item.Status})
	}
	if item.UserID == buyerID {
		return nil, apperrors.NewValidationError("cannot order your own listing", nil)
	}

	order := &domain.Order{
		ItemID:   itemID,
		BuyerID:  buyerID,
		SellerID: item.UserID,
		Message:  message,
		Price:    price,
		Status:   domain.OrderPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventOrderCreated, order.ID, buyerID, events.OrderCreatedPayload{
		ItemID:   itemID,
		SellerID: order.SellerID,
	})
	return order, nil
}

// ListForUser returns orders the user participates in, as buyer or seller.
func (s *OrderService) ListForUser(ctx context.Context, userID string, asSeller bool, limit, offset int) ([]domain.Order, error) {
	filter := repository.OrderFilter{Limit: limit, Offset: offset}
	if asSeller {
		filter.SellerID = &userID
	} else {
		filter.BuyerID = &userID
	}
	return s.orders.List(ctx, filter)
}

// UpdateStatus advances an order through its lifecycle. Only the seller may
// accept or reject; completion is allowed for either party once accepted.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID string, newStatus domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": orderID})
		}
		return nil, err
	}

	oldStatus := order.Status
	switch newStatus {
	case domain.OrderAccepted, domain.OrderRejected:
		if order.SellerID != userID {
			return nil, apperrors.NewForbidden("only the seller may decide on an order")
		}
		if order.Status != domain.OrderPending {
			return nil, apperrors.NewValidationError("order already decided", map[string]any{"status": order.Status})
		}
	case domain.OrderCompleted:
		if order.SellerID != userID && order.BuyerID != userID {
			return nil, apperrors.NewForbidden("not a participant of this order")
		}
		if order.Status != domain.OrderAccepted {
			return nil, apperrors.NewValidationError("order must be accepted first", map[string]any{"status": order.Status})
		}
		now := time.Now()
		order.CompletedAt = &now
	default:
		return nil, apperrors.NewValidationError("unsupported status change", map[string]any{"status": newStatus})
	}

	order.Status = newStatus
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	if newStatus == domain.OrderCompleted {
		if item, err := s.items.GetByID(ctx, order.ItemID); err == nil && item.Status == domain.ItemStatusActive {
			item.Status = domain.ItemStatusSold
			_ = s.items.Update(ctx, item)
		}
	}

	s.publish(ctx, events.EventOrderStatusChanged, order.ID, userID, events.OrderStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: order.Status,
	})
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
