package listening

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// postsPage is the pagination envelope of the posts endpoint.
type postsPage struct {
	Data struct {
		Posts []map[string]any `json:"posts"`
		Next  *string          `json:"next"`
	} `json:"data"`
}

// fetchAllPages issues the initial request and follows the cursor until
// exhaustion or the page ceiling, aggregating raw items in received order.
//
// Follow-up requests carry only the cursor; the server does not want the
// original filter payload repeated. Retries happen inside the executor per
// page; a page that still fails aborts the fetch and the partial aggregate
// is discarded. An empty page is treated as exhaustion even when a cursor
// is present, so a misbehaving server cannot loop us forever.
func (c *Client) fetchAllPages(ctx context.Context, url string, payload map[string]any, maxPages int) ([]map[string]any, error) {
	var all []map[string]any

	body := any(payload)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.send(ctx, "POST", url, body)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		var pg postsPage
		if err := json.Unmarshal(raw, &pg); err != nil {
			return nil, fmt.Errorf("decode page %d: %w", page, err)
		}

		all = append(all, pg.Data.Posts...)

		next := pg.Data.Next
		if next == nil || *next == "" {
			break
		}
		if len(pg.Data.Posts) == 0 {
			slog.Warn("cursor present on an empty page, stopping pagination", "page", page)
			break
		}
		if maxPages > 0 && page >= maxPages {
			slog.Debug("page ceiling reached", "pages", page, "items", len(all))
			break
		}

		body = map[string]any{"next": *next}
	}

	return all, nil
}
