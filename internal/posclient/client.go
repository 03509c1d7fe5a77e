package posclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/possync"
	"github.com/fekuna/omnipos-inventory-service/internal/possync/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/resilience"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 20 * time.Second
	maxPages       = 50
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPClient talks to the POS provider gateway. Every request goes through
// a shared circuit breaker.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	logger     logger.ZapLogger
}

func NewHTTPClient(cfg Config, breaker *resilience.CircuitBreaker, log logger.ZapLogger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
		logger:  log,
	}
}

type ordersResponse struct {
	Orders     []dto.POSOrder `json:"orders"`
	NextCursor string         `json:"next_cursor"`
}

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pos provider returned %d: %s", e.StatusCode, e.Body)
}

// FetchOrdersByBusinessDate returns the orders the provider bucketed under
// businessDate (YYYY-MM-DD) for one location.
func (c *HTTPClient) FetchOrdersByBusinessDate(ctx context.Context, integration *model.POSIntegration, location *model.POSLocation, businessDate string) ([]dto.POSOrder, error) {
	q := url.Values{}
	q.Set("business_date", businessDate)
	return c.fetchAll(ctx, integration, location, q)
}

func (c *HTTPClient) FetchOrdersByRange(ctx context.Context, integration *model.POSIntegration, location *model.POSLocation, start, end time.Time) ([]dto.POSOrder, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	return c.fetchAll(ctx, integration, location, q)
}

func (c *HTTPClient) fetchAll(ctx context.Context, integration *model.POSIntegration, location *model.POSLocation, q url.Values) ([]dto.POSOrder, error) {
	path := fmt.Sprintf("/v1/%s/locations/%s/orders", url.PathEscape(integration.Provider), url.PathEscape(location.ExternalLocationID))

	var orders []dto.POSOrder
	for page := 0; page < maxPages; page++ {
		var resp ordersResponse
		if err := c.doRequest(ctx, integration.AccessToken, path, q, &resp); err != nil {
			return nil, err
		}
		orders = append(orders, resp.Orders...)
		if resp.NextCursor == "" {
			return orders, nil
		}
		q.Set("cursor", resp.NextCursor)
	}

	c.logger.Warn("pos order pagination truncated",
		zap.String("location_id", location.ID),
		zap.Int("orders", len(orders)),
	)
	return nil, fmt.Errorf("location %s after %d pages: %w", location.ExternalLocationID, maxPages, possync.ErrPaginationTruncated)
}

func (c *HTTPClient) doRequest(ctx context.Context, token, path string, q url.Values, result interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		if err := json.Unmarshal(body, result); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	return err
}
