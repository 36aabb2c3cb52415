package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tillsync/internal/config"
)

// Client fetches orders from the storefront's REST API using consumer
// key/secret Basic auth.
type Client struct {
	baseURL    string
	key        string
	secret     string
	pageSize   int
	httpClient *http.Client
}

// NewClient creates a storefront REST client from config.
func NewClient(cfg *config.StoreConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		key:        cfg.ConsumerKey,
		secret:     cfg.ConsumerSecret,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchOrders returns orders created after the given time, newest first.
func (c *Client) FetchOrders(ctx context.Context, after time.Time) ([]Order, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(c.pageSize))
	q.Set("orderby", "date")
	q.Set("order", "desc")
	if !after.IsZero() {
		q.Set("after", after.UTC().Format(time.RFC3339))
	}

	var orders []Order
	if err := c.get(ctx, "/wp-json/wc/v3/orders", q, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchOrder returns a single order by its storefront id.
func (c *Client) FetchOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	path := fmt.Sprintf("/wp-json/wc/v3/orders/%d", orderID)
	if err := c.get(ctx, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading storefront response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storefront returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding storefront response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
