package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed-Younes0x/greenswap/internal/api/dto"
	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// These tests serve the backend's actual DTO values so a response-shape
// change on either side fails here instead of only in production.

func backendListing(id, title string) domain.Item {
	return domain.Item{
		ID:         id,
		Title:      title,
		CategoryID: "cat-metal",
		UserID:     "u1",
		Condition:  domain.ConditionGood,
		Quantity:   3,
		PriceType:  domain.PriceFree,
		Status:     domain.ItemStatusActive,
		Featured:   true,
	}
}

func TestFeaturedDecodesBackendShape(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/featured/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.NewItemResponses([]domain.Item{
			backendListing("i1", "Copper wire"),
			backendListing("i2", "Glass bottles"),
		}))
	})

	c := newTestClient(t, mux)

	items, err := c.Items.Featured(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, "Copper wire", items[0].Title)
	assert.True(t, items[1].Featured)
}

func TestListDecodesBackendEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.NewItemListResponse([]domain.Item{
			backendListing("i1", "Copper wire"),
		}, 7))
	})

	c := newTestClient(t, mux)

	page, err := c.Items.List(context.Background(), ItemListParams{})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, domain.ItemStatusActive, domain.ItemStatus(page.Results[0].Status))
}

func TestGetDecodesBackendShape(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/i1/", func(w http.ResponseWriter, r *http.Request) {
		item := dto.NewItemResponse(&domain.Item{
			ID: "i1", Title: "Copper wire", Quantity: 3, Views: 12,
		})
		writeJSON(w, http.StatusOK, item)
	})

	c := newTestClient(t, mux)

	item, err := c.Items.Get(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 12, item.Views)
}
