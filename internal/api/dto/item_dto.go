package dto

import (
	"time"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// CategoryResponse is the public category shape.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameAr      string `json:"name_ar"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ItemCreateRequest payload for publishing a listing.
type ItemCreateRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	CategoryID    string               `json:"category_id"`
	Condition     domain.ItemCondition `json:"condition"`
	Quantity      int                  `json:"quantity"`
	Unit          string               `json:"unit"`
	Price         *float64             `json:"price"`
	PriceType     domain.PriceType     `json:"price_type"`
	Location      string               `json:"location"`
	ContactMethod domain.ContactMethod `json:"contact_method"`
}

// ItemUpdateRequest carries partial listing edits.
type ItemUpdateRequest struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	CategoryID    *string               `json:"category_id"`
	Condition     *domain.ItemCondition `json:"condition"`
	Quantity      *int                  `json:"quantity"`
	Unit          *string               `json:"unit"`
	Price         *float64              `json:"price"`
	PriceType     *domain.PriceType     `json:"price_type"`
	Location      *string               `json:"location"`
	ContactMethod *domain.ContactMethod `json:"contact_method"`
	Status        *domain.ItemStatus    `json:"status"`
}

// ItemReportRequest payload for abuse reports.
type ItemReportRequest struct {
	ItemID      string            `json:"item_id"`
	ReportType  domain.ReportType `json:"report_type"`
	Description string            `json:"description"`
}

// ItemModerateRequest payload for admin moderation decisions.
type ItemModerateRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// ItemResponse is the public listing shape.
type ItemResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	CategoryID      string               `json:"category_id"`
	UserID          string               `json:"user_id"`
	Condition       domain.ItemCondition `json:"condition"`
	Quantity        int                  `json:"quantity"`
	Unit            string               `json:"unit"`
	Price           *float64             `json:"price"`
	PriceType       domain.PriceType     `json:"price_type"`
	Location        string               `json:"location"`
	ContactMethod   domain.ContactMethod `json:"contact_method"`
	Status          domain.ItemStatus    `json:"status"`
	Views           int                  `json:"views"`
	InterestedCount int                  `json:"interested_count"`
	Featured        bool                 `json:"is_featured"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	ExpiresAt       *time.Time           `json:"expires_at"`
}

// ItemListResponse is the paginated listing envelope.
type ItemListResponse struct {
	Count   int            `json:"count"`
	Results []ItemResponse `json:"results"`
}

// ItemStatsResponse aggregates marketplace counters.
type ItemStatsResponse struct {
	TotalItems  int `json:"total_items"`
	ActiveItems int `json:"active_items"`
	SoldItems   int `json:"sold_items"`
	TotalUsers  int `json:"total_users"`
}

// NewItemResponse maps a domain item onto the wire shape.
func NewItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:              item.ID,
		Title:           item.Title,
		Description:     item.Description,
		CategoryID:      item.CategoryID,
		UserID:          item.UserID,
		Condition:       item.Condition,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		Price:           item.Price,
		PriceType:       item.PriceType,
		Location:        item.Location,
		ContactMethod:   item.ContactMethod,
		Status:          item.Status,
		Views:           item.Views,
		InterestedCount: item.InterestedCount,
		Featured:        item.Featured,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		ExpiresAt:       item.ExpiresAt,
	}
}

// NewItemResponses maps a slice of domain items.
func NewItemResponses(items []domain.Item) []ItemResponse {
	results := make([]ItemResponse, 0, len(items))
	for i := range items {
		results = append(results, NewItemResponse(&items[i]))
	}
	return results
}

// NewItemListResponse maps a page of items.
func NewItemListResponse(items []domain.Item, total int) ItemListResponse {
	return ItemListResponse{Count: total, Results: NewItemResponses(items)}
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          cat.ID,
		Name:        cat.Name,
		NameAr:      cat.NameAr,
		Description: cat.Description,
		Icon:        cat.Icon,
	}
}
