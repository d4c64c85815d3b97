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

// listingTTL is how long a published listing stays up before expiry.
const listingTTL = 90 * 24 * time.Hour

// ItemService coordinates listing workflows and moderation.
type ItemService struct {
	items      repository.ItemRepository
	categories repository.CategoryRepository
	reports    repository.ReportRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// ItemDependencies bundles repositories for the item service.
type ItemDependencies struct {
	ItemRepo     repository.ItemRepository
	CategoryRepo repository.CategoryRepository
	ReportRepo   repository.ReportRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
}

// NewItemService builds the service.
func NewItemService(deps ItemDependencies) *ItemService {
	return &ItemService{
		items:      deps.ItemRepo,
		categories: deps.CategoryRepo,
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ItemCreateInput describes listing creation payload.
type ItemCreateInput struct {
	Title         string
	Description   string
	CategoryID    string
	Condition     domain.ItemCondition
	Quantity      int
	Unit          string
	Price         *float64
	PriceType     domain.PriceType
	Location      string
	ContactMethod domain.ContactMethod
}

// ItemUpdateInput carries partial listing edits; nil fields are untouched.
type ItemUpdateInput struct {
	Title         *string
	Description   *string
	CategoryID    *string
	Condition     *domain.ItemCondition
	Quantity      *int
	Unit          *string
	Price         *float64
	PriceType     *domain.PriceType
	Location      *string
	ContactMethod *domain.ContactMethod
	Status        *domain.ItemStatus
}

// Categories lists active categories.
func (s *ItemService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.ListActive(ctx)
}

// List returns public listings matching the filter. Only active items are
// visible on the public surface.
func (s *ItemService) List(ctx context.Context, filter repository.ItemFilter) ([]domain.Item, int, error) {
	status := domain.ItemStatusActive
	filter.Status = &status
	return s.items.List(ctx, filter)
}

// Featured returns the highlighted active listings.
func (s *ItemService) Featured(ctx context.Context, limit int) ([]domain.Item, error) {
	status := domain.ItemStatusActive
	featured := true
	if limit <= 0 {
		limit = 10
	}
	items, _, err := s.items.List(ctx, repository.ItemFilter{
		Status:   &status,
		Featured: &featured,
		Limit:    limit,
	})
	return items, err
}

// Get fetches a single active listing and bumps its view counter.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": id})
		}
		return nil, err
	}
	if item.Status != domain.ItemStatusActive {
		return nil, apperrors.NewNotFound("item", map[string]any{"id": id})
	}
	if err := s.items.IncrementViews(ctx, id); err == nil {
		item.Views++
	}
	return item, nil
}

// Create publishes a new listing. New listings start in pending status and
// become publicly visible only after moderation.
func (s *ItemService) Create(ctx context.Context, userID string, input ItemCreateInput) (*domain.Item, error) {
	if input.Title == "" || input.CategoryID == "" {
		return nil, apperrors.NewValidationError("title and category are required", nil)
	}
	if input.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", nil)
	}
	if input.PriceType == "" {
		input.PriceType = domain.PriceFree
	}
	if input.PriceType != domain.PriceFree && input.Price == nil {
		return nil, apperrors.NewValidationError("price required for priced listings", nil)
	}
	if input.ContactMethod == "" {
		input.ContactMethod = domain.ContactBoth
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, err
	}

	expires := time.Now().Add(listingTTL)
	item := &domain.Item{
		Title:         input.Title,
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		UserID:        userID,
		Condition:     input.Condition,
		Quantity:      input.Quantity,
		Unit:          input.Unit,
		Price:         input.Price,
		PriceType:     input.PriceType,
		Location:      input.Location,
		ContactMethod: input.ContactMethod,
		Status:        domain.ItemStatusPending,
		ExpiresAt:     &expires,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventItemCreated, item.ID, userID, events.ItemCreatedPayload{
		Title:      item.Title,
		CategoryID: item.CategoryID,
		Status:     item.Status,
	})
	return item, nil
}

// Update applies owner edits to a listing.
func (s *ItemService) Update(ctx context.Context, userID, itemID string, input ItemUpdateInput) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": *input.CategoryID})
		}
		item.CategoryID = *input.CategoryID
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, apperrors.NewValidationError("quantity must be positive", nil)
		}
		item.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.Price != nil {
		item.Price = input.Price
	}
	if input.PriceType != nil {
		item.PriceType = *input.PriceType
	}
	if input.Location != nil {
		item.Location = *input.Location
	}
	if input.ContactMethod != nil {
		item.ContactMethod = *input.ContactMethod
	}
	if input.Status != nil {
		// owners may only mark their listing sold
		if *input.Status != domain.ItemStatusSold {
			return nil, apperrors.NewValidationError("unsupported status change", map[string]any{"status": *input.Status})
		}
		item.Status = *input.Status
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an owned listing.
func (s *ItemService) Delete(ctx context.Context, userID, itemID string) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.items.Delete(ctx, itemID)
}

// MyItems lists every listing owned by the user, regardless of status.
func (s *ItemService) MyItems(ctx context.Context, userID string, limit, offset int) ([]domain.Item, int, error) {
	return s.items.List(ctx, repository.ItemFilter{UserID: &userID, Limit: limit, Offset: offset})
}

// MarkInterested bumps the interest counter for an active listing.
func (s *ItemService) MarkInterested(ctx context.Context, itemID string) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("item", map[string]any{"id": itemID})
		}
		return err
	}
	if item.Status != domain.ItemStatusActive {
		return apperrors.NewNotFound("item", map[string]any{"id": itemID})
	}
	return s.items.IncrementInterested(ctx, itemID)
}

// Report files an abuse report against a listing.
func (s *ItemService) Report(ctx context.Context, reporterID, itemID string, reportType domain.ReportType, description string) (*domain.ItemReport, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": itemID})
		}
		return nil, err
	}

	report := &domain.ItemReport{
		ItemID:      itemID,
		ReporterID:  reporterID,
		Type:        reportType,
		Description: description,
		Status:      domain.ReportPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventItemReported, itemID, reporterID, events.ItemReportedPayload{
		ReportID: report.ID,
		Type:     report.Type,
	})
	return report, nil
}

// Moderate approves or rejects a pending listing. Admin only; enforced at
// the route layer.
func (s *ItemService) Moderate(ctx context.Context, adminID, itemID string, approve bool, reason string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": itemID})
		}
		return nil, err
	}

	oldStatus := item.Status
	if approve {
		item.Status = domain.ItemStatusActive
	} else {
		item.Status = domain.ItemStatusRejected
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventItemModerated, item.ID, adminID, events.ItemModeratedPayload{
		OldStatus: oldStatus,
		NewStatus: item.Status,
		Reason:    reason,
	})
	return item, nil
}

// Stats aggregates marketplace counters for the public stats widget.
func (s *ItemService) Stats(ctx context.Context) (*domain.ItemStats, error) {
	stats, err := s.items.Stats(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalUsers = users
	return stats, nil
}

func (s *ItemService) ownedItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": itemID})
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, apperrors.NewForbidden("not the listing owner")
	}
	return item, nil
}

func (s *ItemService) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string, payload any) {
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
