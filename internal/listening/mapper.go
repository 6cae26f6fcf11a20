package listening

import (
	"encoding/json"
	"log/slog"
	"time"
)

// extractQueryItems pulls the query list out of the response body. The
// endpoint has been seen answering with several shapes: a "data" array, a
// top-level array, a "queries" array, or a single object.
func extractQueryItems(raw []byte) ([]map[string]any, error) {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}

	asItems := func(list []any) []map[string]any {
		items := make([]map[string]any, 0, len(list))
		for _, v := range list {
			if m, ok := v.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	}

	switch v := body.(type) {
	case []any:
		return asItems(v), nil
	case map[string]any:
		if list, ok := v["data"].([]any); ok {
			return asItems(list), nil
		}
		if list, ok := v["queries"].([]any); ok {
			return asItems(list), nil
		}
		// Fallback: treat the whole body as a single item
		return []map[string]any{v}, nil
	default:
		return nil, nil
	}
}

// mapQuery converts a raw item to a Query. Items without the required
// fields are dropped with a warning, never propagated as errors.
func mapQuery(item map[string]any) (Query, bool) {
	id := stringField(item, "id")
	name := stringField(item, "name")
	if id == "" || name == "" {
		slog.Warn("skipping malformed query", "query_id", idOrUnknown(item))
		return Query{}, false
	}
	return Query{
		ID:          id,
		Name:        name,
		Description: stringField(item, "description"),
		Status:      stringField(item, "status"),
	}, true
}

// mapPost converts a raw item to a Post. Malformed items are expected
// (upstream schema drift) and are dropped with a warning so one bad record
// cannot break a bulk retrieval.
func mapPost(item map[string]any) (Post, bool) {
	id := stringField(item, "id")
	created := stringField(item, "created_time")
	platform := stringField(item, "platform")
	message := stringField(item, "message")

	if id == "" || created == "" || platform == "" || message == "" {
		slog.Warn("skipping malformed post", "post_id", idOrUnknown(item))
		return Post{}, false
	}

	ts, err := parseTime(created)
	if err != nil {
		slog.Warn("skipping post with unparseable created_time",
			"post_id", id,
			"created_time", created,
			"error", err,
		)
		return Post{}, false
	}

	post := Post{
		ID:          id,
		CreatedTime: ts,
		Platform:    platform,
		Message:     message,
		Sentiment:   stringField(item, "sentiment"),
		URL:         stringField(item, "url"),
	}

	if raw, ok := item["author"].(map[string]any); ok {
		post.Author = &Author{
			ID:       stringField(raw, "id"),
			Name:     stringField(raw, "name"),
			Username: stringField(raw, "username"),
			URL:      stringField(raw, "url"),
		}
	}

	// Optional numeric field; non-numeric values are ignored rather than
	// dropping the whole post.
	if n, ok := item["interactions"].(float64); ok {
		count := int64(n)
		post.Interactions = &count
	}

	return post, true
}

// decodeMetrics parses the metrics response envelope.
func decodeMetrics(raw []byte) (*Metrics, error) {
	var body struct {
		Data []map[string]any `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return &Metrics{Data: body.Data, Meta: body.Meta}, nil
}

func parseTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func stringField(item map[string]any, key string) string {
	s, _ := item[key].(string)
	return s
}

func idOrUnknown(item map[string]any) string {
	if id := stringField(item, "id"); id != "" {
		return id
	}
	return "unknown"
}
