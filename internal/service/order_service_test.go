package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
	"github.com/Ahmed-Younes0x/greenswap/internal/events"
	apperrors "github.com/Ahmed-Younes0x/greenswap/pkg/util"
)

func newTestOrderService(t *testing.T) (*OrderService, *fakeItemRepo, *recordingDispatcher, *domain.Item) {
	t.Helper()
	items := newFakeItemRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewOrderService(OrderDependencies{
		OrderRepo:  newFakeOrderRepo(),
		ItemRepo:   items,
		Dispatcher: dispatcher,
	})

	item := &domain.Item{
		Title:      "Copper wire offcuts",
		CategoryID: testCategoryID,
		UserID:     "seller",
		Status:     domain.ItemStatusActive,
		Quantity:   5,
	}
	require.NoError(t, items.Create(context.Background(), item))
	return svc, items, dispatcher, item
}

func TestOrderCreate(t *testing.T) {
	svc, _, dispatcher, item := newTestOrderService(t)

	order, err := svc.Create(context.Background(), "buyer", item.ID, "interested, can pick up", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, "seller", order.SellerID)

	created := dispatcher.byType(events.EventOrderCreated)
	require.Len(t, created, 1)
	assert.Equal(t, order.ID, created[0].SubjectID)
}

func TestOrderCreateRejectsOwnListing(t *testing.T) {
	svc, _, _, item := newTestOrderService(t)

	_, err := svc.Create(context.Background(), "seller", item.ID, "", nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestOrderCreateRequiresActiveItem(t *testing.T) {
	svc, items, _, item := newTestOrderService(t)

	item.Status = domain.ItemStatusSold
	require.NoError(t, items.Update(context.Background(), item))

	_, err := svc.Create(context.Background(), "buyer", item.ID, "", nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(context.Background(), "buyer", "missing", "", nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestOrderDecisionIsSellerOnly(t *testing.T) {
	svc, _, _, item := newTestOrderService(t)

	order, err := svc.Create(context.Background(), "buyer", item.ID, "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), "buyer", order.ID, domain.OrderAccepted)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	accepted, err := svc.UpdateStatus(context.Background(), "seller", order.ID, domain.OrderAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderAccepted, accepted.Status)

	// A decided order cannot be decided again.
	_, err = svc.UpdateStatus(context.Background(), "seller", order.ID, domain.OrderRejected)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestOrderCompletionMarksItemSold(t *testing.T) {
	svc, items, dispatcher, item := newTestOrderService(t)

	order, err := svc.Create(context.Background(), "buyer", item.ID, "", nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), "seller", order.ID, domain.OrderAccepted)
	require.NoError(t, err)

	completed, err := svc.UpdateStatus(context.Background(), "buyer", order.ID, domain.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	got, err := items.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusSold, got.Status)

	changes := dispatcher.byType(events.EventOrderStatusChanged)
	require.Len(t, changes, 2)
}

func TestOrderCompletionRequiresAcceptance(t *testing.T) {
	svc, _, _, item := newTestOrderService(t)

	order, err := svc.Create(context.Background(), "buyer", item.ID, "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), "buyer", order.ID, domain.OrderCompleted)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.UpdateStatus(context.Background(), "stranger", order.ID, domain.OrderCompleted)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestListForUserSeparatesSides(t *testing.T) {
	svc, _, _, item := newTestOrderService(t)

	_, err := svc.Create(context.Background(), "buyer", item.ID, "", nil)
	require.NoError(t, err)

	placed, err := svc.ListForUser(context.Background(), "buyer", false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, placed, 1)

	received, err := svc.ListForUser(context.Background(), "seller", true, 0, 0)
	require.NoError(t, err)
	assert.Len(t, received, 1)

	none, err := svc.ListForUser(context.Background(), "buyer", true, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
