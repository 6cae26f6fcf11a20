// Package listening is a client for the Emplifi Listening API: it lists
// queries, fetches posts across cursor-paginated result sets and retrieves
// aggregated metrics.
package listening

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdulachik/emplifi/internal/auth"
	"github.com/abdulachik/emplifi/internal/transport"
)

// maxPageSize is the server-enforced maximum page size for posts.
const maxPageSize = 100

// defaultPostFields is requested when the caller does not pick fields.
var defaultPostFields = []string{
	"id",
	"created_time",
	"platform",
	"author",
	"message",
	"sentiment",
	"interactions",
	"url",
}

// APIError is a non-success response from the API, either immediate (4xx)
// or after the retry budget was spent on 429/5xx answers.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Body)
}

// Client talks to the Listening API.
type Client struct {
	baseURL string
	auth    auth.Provider
	exec    *transport.Executor
	now     func() time.Time
}

// Config holds client configuration.
type Config struct {
	BaseURL  string
	Auth     auth.Provider
	Executor *transport.Executor
}

// New creates a Listening API client.
func New(cfg Config) *Client {
	exec := cfg.Executor
	if exec == nil {
		exec = transport.NewExecutor(transport.Config{})
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		auth:    cfg.Auth,
		exec:    exec,
		now:     time.Now,
	}
}

// ListQueries retrieves all listening queries visible to the account.
func (c *Client) ListQueries(ctx context.Context) ([]Query, error) {
	raw, err := c.send(ctx, "GET", c.baseURL+"/listening/queries", nil)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}

	items, err := extractQueryItems(raw)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}

	queries := make([]Query, 0, len(items))
	for _, item := range items {
		if q, ok := mapQuery(item); ok {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

// FetchPosts retrieves all posts matching the request, following cursor
// pagination. Results keep the server's order. A failing page aborts the
// whole fetch; nothing partial is returned.
func (c *Client) FetchPosts(ctx context.Context, req PostsRequest) ([]Post, error) {
	fields := req.Fields
	if len(fields) == 0 {
		fields = defaultPostFields
	}

	limit := req.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	payload := map[string]any{
		"date_start":        datePart(req.DateStart),
		"date_end":          datePart(req.DateEnd),
		"listening_queries": req.QueryIDs,
		"limit":             limit,
		"fields":            fields,
	}
	if req.SortField != "" {
		order := req.SortOrder
		if order == "" {
			order = "desc"
		}
		payload["sort"] = []map[string]string{{"field": req.SortField, "order": order}}
	}

	raw, err := c.fetchAllPages(ctx, c.baseURL+"/listening/posts", payload, req.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	posts := make([]Post, 0, len(raw))
	for _, item := range raw {
		if p, ok := mapPost(item); ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// FetchMetrics retrieves aggregated metrics for the given queries and date
// range. This endpoint is not paginated.
func (c *Client) FetchMetrics(ctx context.Context, req MetricsRequest) (*Metrics, error) {
	if req.DateStart == "" || req.DateEnd == "" {
		return nil, fmt.Errorf("fetch metrics: date range is required")
	}

	payload := map[string]any{
		"listening_queries": req.QueryIDs,
		"date_start":        startTimestamp(req.DateStart),
		"date_end":          endTimestamp(req.DateEnd),
		"metrics":           req.Metrics,
	}
	if len(req.Dimensions) > 0 {
		payload["dimensions"] = req.Dimensions
	}

	raw, err := c.send(ctx, "POST", c.baseURL+"/listening/metrics", payload)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics: %w", err)
	}

	metrics, err := decodeMetrics(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics: %w", err)
	}
	return metrics, nil
}

// GetRecentPosts fetches the last daysBack days of posts for one query,
// sorted by interactions (highest engagement first).
func (c *Client) GetRecentPosts(ctx context.Context, queryID string, daysBack, limit, maxPages int) ([]Post, error) {
	if daysBack <= 0 {
		daysBack = 7
	}
	end := c.now().UTC()
	start := end.AddDate(0, 0, -daysBack)

	return c.FetchPosts(ctx, PostsRequest{
		QueryIDs:  []string{queryID},
		DateStart: start.Format(dateOnly),
		DateEnd:   end.Format(dateOnly),
		SortField: "interactions",
		SortOrder: "desc",
		Limit:     limit,
		MaxPages:  maxPages,
	})
}

// GetDailyMentionMetrics fetches per-day mention counts for one query over
// the last daysBack days.
func (c *Client) GetDailyMentionMetrics(ctx context.Context, queryID string, daysBack int) (*Metrics, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	end := c.now().UTC()
	start := end.AddDate(0, 0, -daysBack)

	return c.FetchMetrics(ctx, MetricsRequest{
		QueryIDs:   []string{queryID},
		DateStart:  start.Format(dateOnly),
		DateEnd:    end.Format(dateOnly),
		Metrics:    []MetricConfig{{Type: "mentions"}},
		Dimensions: []DimensionConfig{{Type: "date.day"}},
	})
}

// send issues one request through the retrying executor and applies the
// raise-for-status step: any response of 400 or above becomes an *APIError.
// Transport failures surface as plain errors.
func (c *Client) send(ctx context.Context, method, url string, body any) ([]byte, error) {
	headers, err := c.auth.Headers(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.exec.Do(ctx, method, url, headers, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Body: truncate(string(data), 512)}
	}
	return data, nil
}

// truncate shortens a string to maxLen, adding ellipsis if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
