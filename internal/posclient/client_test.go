package posclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/possync"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	integration = &model.POSIntegration{Provider: "square", AccessToken: "tok"}
	location    = &model.POSLocation{ID: "loc-1", ExternalLocationID: "L1"}
)

func newClient(url string) *HTTPClient {
	log := logger.NewNop()
	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("pos-test"), log)
	return NewHTTPClient(Config{BaseURL: url, Timeout: time.Second}, cb, log)
}

func TestFetchOrdersByBusinessDate_FollowsCursor(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/square/locations/L1/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2026-03-01", r.URL.Query().Get("business_date"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("cursor") == "" {
			w.Write([]byte(`{"orders":[{"id":"o1","created_at":"2026-03-01T20:00:00Z","total_amount":12,"line_items":[{"product_id":"p1","quantity":2,"unit_price":6}]}],"next_cursor":"c2"}`))
			return
		}
		w.Write([]byte(`{"orders":[{"id":"o2","created_at":"2026-03-01T21:00:00Z"}]}`))
	}))
	defer srv.Close()

	orders, err := newClient(srv.URL).FetchOrdersByBusinessDate(context.Background(), integration, location, "2026-03-01")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "p1", orders[0].LineItems[0].ExternalProductID)
	assert.Equal(t, 6.0, orders[0].LineItems[0].UnitPrice)
}

func TestFetchOrdersByRange_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("start"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`token expired`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).FetchOrdersByRange(context.Background(), integration, location, time.Now().Add(-time.Hour), time.Now())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestFetchOrders_EndlessCursorIsAnError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[{"id":"o","created_at":"2026-03-01T20:00:00Z"}],"next_cursor":"more"}`))
	}))
	defer srv.Close()

	orders, err := newClient(srv.URL).FetchOrdersByBusinessDate(context.Background(), integration, location, "2026-03-01")
	assert.ErrorIs(t, err, possync.ErrPaginationTruncated)
	assert.Nil(t, orders)
	assert.Equal(t, maxPages, calls)
}
