package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"alpenlodge/pkg/utils"
)

// DefaultMaxBodyBytes caps a response body at 64 MiB.
const DefaultMaxBodyBytes = int64(64 << 20)

// Scraper errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrResponseTooLarge     = errors.New("response body exceeds limit")
)

// Scraper performs single POST attempts against an Overpass interpreter.
type Scraper struct {
	client       *http.Client
	headers      *utils.HTTPHelper
	maxBodyBytes int64
}

// NewScraperWithConfig creates a scraper with a per-attempt timeout, a response
// size cap and a User-Agent.
func NewScraperWithConfig(timeout time.Duration, maxBodyBytes int64, userAgent string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
		},
		headers:      utils.NewHTTPHelper(userAgent),
		maxBodyBytes: maxBodyBytes,
	}
}

// PostQuery sends query as the form field "data" and returns
// (body, statusCode, duration, error). Only 2xx responses succeed.
func (s *Scraper) PostQuery(ctx context.Context, endpoint, query string) ([]byte, int, time.Duration, error) {
	startTime := time.Now()

	form := url.Values{"data": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form))
	if err != nil {
		return nil, 0, time.Since(startTime), fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.BuildHeaders(map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, time.Since(startTime), fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		return nil, resp.StatusCode, time.Since(startTime), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, time.Since(startTime), fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > s.maxBodyBytes {
		return nil, resp.StatusCode, time.Since(startTime), fmt.Errorf("%w: %d bytes", ErrResponseTooLarge, s.maxBodyBytes)
	}

	return body, resp.StatusCode, time.Since(startTime), nil
}
