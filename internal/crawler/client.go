// Package crawler fetches POI data from Overpass API interpreters.
package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"alpenlodge/internal/config"
	"alpenlodge/internal/logger"
	"alpenlodge/internal/models"
)

// Client errors.
var (
	ErrNoEndpoints        = errors.New("no overpass endpoints configured")
	ErrAllEndpointsFailed = errors.New("overpass fetch failed on all endpoints")
	ErrInvalidResponse    = errors.New("invalid overpass response")
	ErrRemoteRuntime      = errors.New("overpass runtime error")
)

// Client executes Overpass queries with a single fallback pass over its endpoints.
type Client struct {
	scraper   *Scraper
	endpoints *EndpointManager
	log       *logger.Logger
}

// NewClient creates a client from environment settings.
func NewClient(env *config.EnvConfig, log *logger.Logger) *Client {
	return NewClientWithDeps(
		NewScraperWithConfig(env.Timeout(), env.MaxBodyBytes(), env.UserAgent),
		NewEndpointManager(env.Endpoints),
		log,
	)
}

// NewClientWithDeps creates a new client with injected dependencies.
func NewClientWithDeps(scraper *Scraper, endpoints *EndpointManager, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		scraper:   scraper,
		endpoints: endpoints,
		log:       log,
	}
}

// Endpoints returns the client's endpoint manager.
func (c *Client) Endpoints() *EndpointManager {
	return c.endpoints
}

// Fetch posts query to each endpoint in order and returns the first 2xx response
// that decodes as Overpass JSON. When every endpoint fails the returned error
// wraps ErrAllEndpointsFailed and the last underlying error.
func (c *Client) Fetch(ctx context.Context, query string) (*models.OverpassResponse, error) {
	var lastErr error

	for _, endpoint := range c.endpoints.Endpoints() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch cancelled: %w", err)
		}

		body, status, duration, err := c.scraper.PostQuery(ctx, endpoint, query)

		var resp *models.OverpassResponse
		if err == nil {
			resp, err = decodeResponse(body)
		}

		c.endpoints.RecordAttempt(endpoint, err == nil, err, status, duration)

		if err != nil {
			c.log.Warn("overpass endpoint failed", "endpoint", endpoint, "status", status, "error", err)
			lastErr = fmt.Errorf("%s: %w", endpoint, err)

			continue
		}

		c.log.Debug("overpass endpoint answered",
			"endpoint", endpoint,
			"elements", len(resp.Elements),
			"duration", duration,
		)

		return resp, nil
	}

	if lastErr == nil {
		return nil, ErrNoEndpoints
	}

	return nil, fmt.Errorf("%w: %w", ErrAllEndpointsFailed, lastErr)
}

// decodeResponse parses an Overpass JSON body. A remark reporting a runtime
// error means the interpreter aborted and the element list is partial.
func decodeResponse(body []byte) (*models.OverpassResponse, error) {
	var resp models.OverpassResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if strings.Contains(strings.ToLower(resp.Remark), "runtime error") {
		return nil, fmt.Errorf("%w: %s", ErrRemoteRuntime, resp.Remark)
	}

	return &resp, nil
}
