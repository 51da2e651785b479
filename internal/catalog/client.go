// Package catalog is the HTTP client for the remote firm catalog and
// statistics service.
//
// Endpoints (relative to the configured base URL):
//
//	GET  /api/firms?<criteria>   firm list, unset criteria omitted
//	GET  /api/firms/{id}         one firm, 404 when absent
//	GET  /api/statistics         catalog aggregates
//	POST /api/firms/compare      {"firm_ids": [...]} -> {"firms": [...]}
//
// Every failure wraps core.ErrFetchFailed except a 404 on a single firm,
// which wraps core.ErrNotFound. Firm details and statistics are cached for a
// short TTL; firm lists never are.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/JonMunkholm/PropCompare/internal/core"
	"github.com/JonMunkholm/PropCompare/internal/logging"
	"github.com/JonMunkholm/PropCompare/internal/metrics"
)

const (
	endpointList       = "list"
	endpointGet        = "get"
	endpointStatistics = "statistics"
	endpointCompare    = "compare"

	statisticsCacheKey = "statistics"

	// maxErrorBody bounds how much of an error response is kept for logs.
	maxErrorBody = 512
)

// Options configures a Client. Zero values select the defaults noted.
type Options struct {
	// HTTPClient performs requests (default: a client with Timeout).
	HTTPClient *http.Client

	// Timeout bounds each request when HTTPClient is nil (default: 10s).
	Timeout time.Duration

	// RequestsPerSecond and Burst shape outbound traffic (default: unlimited).
	RequestsPerSecond int
	Burst             int

	// CacheTTL keeps firm details and statistics (default: 0, no caching).
	CacheTTL time.Duration
}

// Client talks to the catalog service.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
}

var _ core.Catalog = (*Client)(nil)

// New creates a Client for the service rooted at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("catalog base url %q must be absolute", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = opts.RequestsPerSecond
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	c := &Client{
		base:    u,
		http:    httpClient,
		limiter: limiter,
	}
	if opts.CacheTTL > 0 {
		c.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return c, nil
}

// ListFirms returns the firms matching query, in catalog order.
func (c *Client) ListFirms(ctx context.Context, query url.Values) ([]core.Firm, error) {
	var firms []core.Firm
	if err := c.do(ctx, endpointList, http.MethodGet, "/api/firms", query, nil, &firms); err != nil {
		return nil, err
	}
	if firms == nil {
		firms = []core.Firm{}
	}
	return firms, nil
}

// GetFirm returns one firm by ID.
func (c *Client) GetFirm(ctx context.Context, id string) (core.Firm, error) {
	key := "firm:" + id
	if f, ok := c.cached(endpointGet, key); ok {
		return f.(core.Firm), nil
	}

	var firm core.Firm
	if err := c.do(ctx, endpointGet, http.MethodGet, "/api/firms/"+url.PathEscape(id), nil, nil, &firm); err != nil {
		return core.Firm{}, err
	}
	c.store(key, firm)
	return firm, nil
}

// Statistics returns the catalog aggregates.
func (c *Client) Statistics(ctx context.Context) (core.Statistics, error) {
	if st, ok := c.cached(endpointStatistics, statisticsCacheKey); ok {
		return st.(core.Statistics), nil
	}

	var st core.Statistics
	if err := c.do(ctx, endpointStatistics, http.MethodGet, "/api/statistics", nil, nil, &st); err != nil {
		return core.Statistics{}, err
	}
	c.store(statisticsCacheKey, st)
	return st, nil
}

type compareRequest struct {
	FirmIDs []string `json:"firm_ids"`
}

type compareResponse struct {
	Firms []core.Firm `json:"firms"`
}

// Compare fetches the given firms, ordered like ids. At most
// core.MaxSelection IDs are accepted.
func (c *Client) Compare(ctx context.Context, ids []string) ([]core.Firm, error) {
	if len(ids) == 0 {
		return []core.Firm{}, nil
	}
	if len(ids) > core.MaxSelection {
		return nil, fmt.Errorf("compare %d firms: %w", len(ids), core.ErrSelectionLimitReached)
	}

	body, err := json.Marshal(compareRequest{FirmIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("encode compare request: %w", err)
	}

	var resp compareResponse
	if err := c.do(ctx, endpointCompare, http.MethodPost, "/api/firms/compare", nil, body, &resp); err != nil {
		return nil, err
	}
	// The service may answer in any order; IDs it did not return are dropped.
	return core.Resolve(resp.Firms, ids), nil
}

// do performs one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body []byte, out any) error {
	logger := logging.WithFields(ctx, "endpoint", endpoint)

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return fmt.Errorf("%w: %s: rate limit wait: %w", core.ErrFetchFailed, endpoint, err)
	}

	// path is already escaped; JoinPath keeps RawPath in step.
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: build %s request: %w", core.ErrFetchFailed, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.CatalogLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		logger.Warn("catalog request failed", "url", u.Redacted(), "error", err)
		return fmt.Errorf("%w: %s %s: %w", core.ErrFetchFailed, method, u.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && endpoint == endpointGet:
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeNotFound).Inc()
		return core.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Warn("catalog returned error status",
			"status", resp.StatusCode,
			"url", u.Redacted(),
			"body", strings.TrimSpace(string(snippet)),
		)
		return fmt.Errorf("%w: %s %s: status %s", core.ErrFetchFailed, method, u.Path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return fmt.Errorf("%w: decode %s response: %w", core.ErrFetchFailed, endpoint, err)
	}

	metrics.CatalogRequests.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()
	logger.Debug("catalog request completed",
		"method", method,
		"path", u.Path,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (c *Client) cached(endpoint, key string) (any, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if ok {
		metrics.CatalogCacheHits.WithLabelValues(endpoint).Inc()
	}
	return v, ok
}

func (c *Client) store(key string, v any) {
	if c.cache != nil {
		c.cache.Set(key, v, cache.DefaultExpiration)
	}
}
