package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Ahmed-Younes0x/greenswap/internal/api/dto"
	"github.com/Ahmed-Younes0x/greenswap/internal/auth"
	"github.com/Ahmed-Younes0x/greenswap/internal/service"
	apperrors "github.com/Ahmed-Younes0x/greenswap/pkg/util"
)

// OrdersHandler exposes purchase request endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// List handles GET /api/orders/ (orders received as seller).
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	limit, offset := pagination(c)
	orders, err := h.orders.ListForUser(c.Context(), principal.User.ID, true, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderListResponse(orders))
}

// MyOrders handles GET /api/orders/my-orders/ (orders sent as buyer).
func (h *OrdersHandler) MyOrders(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	limit, offset := pagination(c)
	orders, err := h.orders.ListForUser(c.Context(), principal.User.ID, false, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderListResponse(orders))
}

// Create handles POST /api/orders/.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ItemID == "" {
		return apperrors.NewValidationError("item_id required", nil)
	}

	order, err := h.orders.Create(c.Context(), principal.User.ID, req.ItemID, req.Message, req.Price)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// Update handles PATCH /api/orders/:id/.
func (h *OrdersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.OrderUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.UpdateStatus(c.Context(), principal.User.ID, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderResponse(order))
}
