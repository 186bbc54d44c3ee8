package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"shopsync/internal/logger"
	"shopsync/internal/mapping"
)

const (
	defaultAPIVersion = "2023-10"
	// Shopify's leaky bucket refills at 2 calls per second with a bucket of 40.
	defaultRate  = 2
	defaultBurst = 40
)

type Client struct {
	shopDomain  string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *logger.Logger
}

type Option func(*Client)

// WithBaseURL points the client at a different admin API root, for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.baseURL = fmt.Sprintf("https://%s/admin/api/%s", shopHost(c.shopDomain), version)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func NewClient(shopDomain, accessToken string, logger *logger.Logger, opts ...Option) *Client {
	c := &Client{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		baseURL:     fmt.Sprintf("https://%s/admin/api/%s", shopHost(shopDomain), defaultAPIVersion),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(defaultRate, defaultBurst),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// shopHost accepts either "my-shop" or "my-shop.myshopify.com".
func shopHost(shopDomain string) string {
	if strings.Contains(shopDomain, ".") {
		return shopDomain
	}
	return shopDomain + ".myshopify.com"
}

// Collections fetches one page of custom collections.
func (c *Client) Collections(ctx context.Context, q Query) ([]mapping.Record, error) {
	return c.list(ctx, "collections", "custom_collections.json", "custom_collections", q.values())
}

// Products fetches one page of products.
func (c *Client) Products(ctx context.Context, q Query) ([]mapping.Record, error) {
	return c.list(ctx, "products", "products.json", "products", q.values())
}

// Collects fetches one page of collection memberships.
func (c *Client) Collects(ctx context.Context, q Query) ([]mapping.Record, error) {
	return c.list(ctx, "collects", "collects.json", "collects", q.values())
}

// ProductListingIDs fetches one page of product ids published to this app.
// Pages start at 1; an empty result means there are no more.
func (c *Client) ProductListingIDs(ctx context.Context, page, limit int) ([]string, error) {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("page", strconv.Itoa(page))

	var resp ProductListingIDsResponse
	if err := c.get(ctx, "product listings", "product_listings/product_ids.json", values, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.ProductIDs))
	for _, id := range resp.ProductIDs {
		ids = append(ids, id.String())
	}
	return ids, nil
}

func (c *Client) list(ctx context.Context, op, path, key string, values url.Values) ([]mapping.Record, error) {
	var envelope map[string]json.RawMessage
	if err := c.get(ctx, op, path, values, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[key]
	if !ok {
		return nil, &TransportError{Op: op, URL: path, StatusCode: http.StatusOK, Err: fmt.Errorf("response has no %q key", key)}
	}

	var records []mapping.Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, &TransportError{Op: op, URL: path, StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode %s: %w", key, err)}
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, op, path string, values url.Values, out any) error {
	endpoint := c.baseURL + "/" + path
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, URL: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &TransportError{Op: op, URL: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	// Add authentication header
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("GET %s", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: endpoint, Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &TransportError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API request failed: %d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &TransportError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
