package listening

import "time"

// Query is a listening query: a saved search configuration that monitors
// social platforms for keywords, hashtags or mentions.
type Query struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Author carries the author information attached to a post.
type Author struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Post is a single mention matched by a listening query.
type Post struct {
	ID           string    `json:"id"`
	CreatedTime  time.Time `json:"created_time"`
	Platform     string    `json:"platform"`
	Author       *Author   `json:"author,omitempty"`
	Message      string    `json:"message"`
	Sentiment    string    `json:"sentiment,omitempty"`
	Interactions *int64    `json:"interactions,omitempty"`
	URL          string    `json:"url,omitempty"`
}

// MetricConfig selects a metric to aggregate, e.g. {Type: "mentions"}.
type MetricConfig struct {
	Type string `json:"type"`
}

// DimensionConfig selects a grouping dimension, e.g. {Type: "date.day"}.
type DimensionConfig struct {
	Type  string         `json:"type"`
	Group map[string]any `json:"group,omitempty"`
}

// Metrics is an aggregated metrics result: an ordered sequence of
// heterogeneous data points plus optional metadata.
type Metrics struct {
	Data []map[string]any `json:"data"`
	Meta map[string]any   `json:"meta,omitempty"`
}

// PostsRequest parameterizes a paginated post fetch.
type PostsRequest struct {
	QueryIDs  []string
	DateStart string // YYYY-MM-DD or ISO timestamp; truncated to the date
	DateEnd   string
	Fields    []string // defaults to the standard eight fields
	SortField string   // e.g. "interactions", "comments", "shares"
	SortOrder string   // "asc" or "desc" (default "desc")
	Limit     int      // page size, clamped to the server maximum of 100
	MaxPages  int      // 0 means unbounded
}

// MetricsRequest parameterizes a metrics fetch.
type MetricsRequest struct {
	QueryIDs   []string
	DateStart  string // bare dates are expanded to T00:00:00
	DateEnd    string // bare dates are expanded to T23:59:59
	Metrics    []MetricConfig
	Dimensions []DimensionConfig
}
