package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Category is a listing category.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameAr      string `json:"name_ar"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Item is a marketplace listing.
type Item struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CategoryID      string     `json:"category_id"`
	UserID          string     `json:"user_id"`
	Condition       string     `json:"condition"`
	Quantity        int        `json:"quantity"`
	Unit            string     `json:"unit"`
	Price           *float64   `json:"price"`
	PriceType       string     `json:"price_type"`
	Location        string     `json:"location"`
	ContactMethod   string     `json:"contact_method"`
	Status          string     `json:"status"`
	Views           int        `json:"views"`
	InterestedCount int        `json:"interested_count"`
	Featured        bool       `json:"is_featured"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

// ItemPage is a paginated listing result.
type ItemPage struct {
	Count   int    `json:"count"`
	Results []Item `json:"results"`
}

// ItemStats aggregates marketplace counters.
type ItemStats struct {
	TotalItems  int `json:"total_items"`
	ActiveItems int `json:"active_items"`
	SoldItems   int `json:"sold_items"`
	TotalUsers  int `json:"total_users"`
}

// ItemListParams filters the public listing feed. Zero values are
// omitted from the query.
type ItemListParams struct {
	CategoryID string
	Condition  string
	PriceType  string
	Location   string
	Search     string
	Ordering   string
	Page       int
	PageSize   int
}

func (p ItemListParams) query() string {
	values := url.Values{}
	set := func(key, val string) {
		if val != "" {
			values.Set(key, val)
		}
	}
	set("category", p.CategoryID)
	set("condition", p.Condition)
	set("price_type", p.PriceType)
	set("location", p.Location)
	set("search", p.Search)
	set("ordering", p.Ordering)
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ItemCreate is the payload for publishing a listing.
type ItemCreate struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CategoryID    string   `json:"category_id"`
	Condition     string   `json:"condition"`
	Quantity      int      `json:"quantity"`
	Unit          string   `json:"unit"`
	Price         *float64 `json:"price"`
	PriceType     string   `json:"price_type"`
	Location      string   `json:"location"`
	ContactMethod string   `json:"contact_method"`
}

// ItemUpdate carries partial listing edits; nil fields are unchanged.
type ItemUpdate struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	CategoryID    *string  `json:"category_id"`
	Condition     *string  `json:"condition"`
	Quantity      *int     `json:"quantity"`
	Unit          *string  `json:"unit"`
	Price         *float64 `json:"price"`
	PriceType     *string  `json:"price_type"`
	Location      *string  `json:"location"`
	ContactMethod *string  `json:"contact_method"`
	Status        *string  `json:"status"`
}

// ItemReport is the payload for flagging a listing.
type ItemReport struct {
	ItemID      string `json:"item_id"`
	ReportType  string `json:"report_type"`
	Description string `json:"description"`
}

// ItemsAPI wraps the listing endpoints.
type ItemsAPI struct {
	transport *Transport
}

// List fetches the public listing feed.
func (a *ItemsAPI) List(ctx context.Context, params ItemListParams) (*ItemPage, error) {
	var page ItemPage
	if err := a.transport.Do(ctx, http.MethodGet, "/api/items/"+params.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Categories fetches the active category set.
func (a *ItemsAPI) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := a.transport.Do(ctx, http.MethodGet, "/api/items/categories/", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Featured fetches up to limit promoted listings.
func (a *ItemsAPI) Featured(ctx context.Context, limit int) ([]Item, error) {
	path := "/api/items/featured/"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var items []Item
	if err := a.transport.Do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Stats fetches marketplace counters.
func (a *ItemsAPI) Stats(ctx context.Context) (*ItemStats, error) {
	var stats ItemStats
	if err := a.transport.Do(ctx, http.MethodGet, "/api/items/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Get fetches a single listing and records a view.
func (a *ItemsAPI) Get(ctx context.Context, id string) (*Item, error) {
	var item Item
	if err := a.transport.Do(ctx, http.MethodGet, itemPath(id, ""), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create publishes a listing; it enters the moderation queue as
// pending.
func (a *ItemsAPI) Create(ctx context.Context, input ItemCreate) (*Item, error) {
	var item Item
	if err := a.transport.Do(ctx, http.MethodPost, "/api/items/create/", input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update edits an owned listing.
func (a *ItemsAPI) Update(ctx context.Context, id string, input ItemUpdate) (*Item, error) {
	var item Item
	if err := a.transport.Do(ctx, http.MethodPatch, itemPath(id, "update"), input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes an owned listing.
func (a *ItemsAPI) Delete(ctx context.Context, id string) error {
	return a.transport.Do(ctx, http.MethodDelete, itemPath(id, "update"), nil, nil)
}

// MyItems fetches the caller's own listings in any status.
func (a *ItemsAPI) MyItems(ctx context.Context, page, pageSize int) (*ItemPage, error) {
	params := ItemListParams{Page: page, PageSize: pageSize}
	var result ItemPage
	if err := a.transport.Do(ctx, http.MethodGet, "/api/items/my-items/"+params.query(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkInterested records buyer interest on a listing.
func (a *ItemsAPI) MarkInterested(ctx context.Context, id string) error {
	return a.transport.Do(ctx, http.MethodPost, itemPath(id, "interested"), nil, nil)
}

// Report flags a listing for moderation.
func (a *ItemsAPI) Report(ctx context.Context, report ItemReport) error {
	return a.transport.Do(ctx, http.MethodPost, "/api/items/report/", report, nil)
}

// Moderate applies an admin moderation decision.
func (a *ItemsAPI) Moderate(ctx context.Context, id string, approve bool, reason string) (*Item, error) {
	body := map[string]any{"approve": approve, "reason": reason}
	var item Item
	if err := a.transport.Do(ctx, http.MethodPatch, itemPath(id, "moderate"), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func itemPath(id, action string) string {
	if action == "" {
		return fmt.Sprintf("/api/items/%s/", url.PathEscape(id))
	}
	return fmt.Sprintf("/api/items/%s/%s/", url.PathEscape(id), action)
}
