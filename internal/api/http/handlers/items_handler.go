package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Ahmed-Younes0x/greenswap/internal/api/dto"
	"github.com/Ahmed-Younes0x/greenswap/internal/auth"
	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
	"github.com/Ahmed-Younes0x/greenswap/internal/repository"
	"github.com/Ahmed-Younes0x/greenswap/internal/service"
	apperrors "github.com/Ahmed-Younes0x/greenswap/pkg/util"
)

const defaultPageSize = 20

// ItemsHandler exposes listing endpoints.
type ItemsHandler struct {
	items *service.ItemService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(itemService *service.ItemService) *ItemsHandler {
	return &ItemsHandler{items: itemService}
}

// Categories handles GET /api/items/categories/.
func (h *ItemsHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.items.Categories(c.Context())
	if err != nil {
		return err
	}

	results := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		results = append(results, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(results)
}

// List handles GET /api/items/ with DRF-style query filters.
func (h *ItemsHandler) List(c *fiber.Ctx) error {
	filter := repository.ItemFilter{Ordering: c.Query("ordering")}

	if v := c.Query("category"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("condition"); v != "" {
		cond := domain.ItemCondition(v)
		filter.Condition = &cond
	}
	if v := c.Query("price_type"); v != "" {
		pt := domain.PriceType(v)
		filter.PriceType = &pt
	}
	if v := c.Query("location"); v != "" {
		filter.Location = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}
	filter.Limit, filter.Offset = pagination(c)

	items, total, err := h.items.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewItemListResponse(items, total))
}

// Featured handles GET /api/items/featured/. Returns a bare array,
// not the paginated envelope; the SDK decodes it as such.
func (h *ItemsHandler) Featured(c *fiber.Ctx) error {
	items, err := h.items.Featured(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewItemResponses(items))
}

// Stats handles GET /api/items/stats/.
func (h *ItemsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.items.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.ItemStatsResponse{
		TotalItems:  stats.TotalItems,
		ActiveItems: stats.ActiveItems,
		SoldItems:   stats.SoldItems,
		TotalUsers:  stats.TotalUsers,
	})
}

// Get handles GET /api/items/:id/.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	item, err := h.items.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Create handles POST /api/items/create/.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.items.Create(c.Context(), principal.User.ID, service.ItemCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Condition:     req.Condition,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Price:         req.Price,
		PriceType:     req.PriceType,
		Location:      req.Location,
		ContactMethod: req.ContactMethod,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewItemResponse(item))
}

// Update handles PATCH /api/items/:id/update/.
func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ItemUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.items.Update(c.Context(), principal.User.ID, c.Params("id"), service.ItemUpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Condition:     req.Condition,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Price:         req.Price,
		PriceType:     req.PriceType,
		Location:      req.Location,
		ContactMethod: req.ContactMethod,
		Status:        req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewItemResponse(item))
}

// Delete handles DELETE /api/items/:id/update/.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.items.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MyItems handles GET /api/items/my-items/.
func (h *ItemsHandler) MyItems(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	limit, offset := pagination(c)
	items, total, err := h.items.MyItems(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewItemListResponse(items, total))
}

// MarkInterested handles POST /api/items/:id/interested/.
func (h *ItemsHandler) MarkInterested(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.items.MarkInterested(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"detail": "interest recorded"})
}

// Report handles POST /api/items/report/.
func (h *ItemsHandler) Report(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ItemReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ItemID == "" || req.ReportType == "" {
		return apperrors.NewValidationError("item_id and report_type required", nil)
	}

	report, err := h.items.Report(c.Context(), principal.User.ID, req.ItemID, req.ReportType, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": report.ID, "status": report.Status})
}

// Moderate handles PATCH /api/items/:id/moderate/ (admin only).
func (h *ItemsHandler) Moderate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ItemModerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.items.Moderate(c.Context(), principal.User.ID, c.Params("id"), req.Approve, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewItemResponse(item))
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.Query("page_size", strconv.Itoa(defaultPageSize)))
	if size < 1 || size > 100 {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}
