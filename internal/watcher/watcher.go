// Package watcher polls listening queries for new posts on an interval and
// hands anything unseen to a handler.
package watcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abdulachik/emplifi/internal/listening"
)

// maxSeenIDs bounds the dedupe set so a long-running watch does not grow
// without limit.
const maxSeenIDs = 10000

// PostFetcher is the slice of the listening client the watcher needs.
type PostFetcher interface {
	GetRecentPosts(ctx context.Context, queryID string, daysBack, limit, maxPages int) ([]listening.Post, error)
}

// Handler receives posts that have not been seen before. Posts arrive in
// the order the API returned them.
type Handler func(queryID string, posts []listening.Post)

// Watcher periodically fetches recent posts for a set of queries.
type Watcher struct {
	client   PostFetcher
	queryIDs []string
	interval time.Duration
	daysBack int
	limit    int
	handler  Handler
	health   *Health

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// Config holds watcher configuration.
type Config struct {
	Client   PostFetcher
	QueryIDs []string
	Interval time.Duration
	DaysBack int
	Limit    int
	Handler  Handler
}

// New creates a watcher. Interval defaults to 5 minutes, daysBack to 1 and
// limit to 50 when unset.
func New(cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.DaysBack <= 0 {
		cfg.DaysBack = 1
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	return &Watcher{
		client:   cfg.Client,
		queryIDs: cfg.QueryIDs,
		interval: cfg.Interval,
		daysBack: cfg.DaysBack,
		limit:    cfg.Limit,
		handler:  cfg.Handler,
		health:   NewHealth(),
		seen:     make(map[string]struct{}),
	}
}

// Health exposes the per-query poll status.
func (w *Watcher) Health() *Health {
	return w.health
}

// Run polls until the context is cancelled. The first cycle runs
// immediately, later cycles follow the ticker.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("starting watcher",
		"queries", len(w.queryIDs),
		"interval", w.interval,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.pollAll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.pollAll(ctx)
		}
	}
}

// pollAll runs one cycle over every watched query. A failing query is
// recorded and skipped; it does not stop the others.
func (w *Watcher) pollAll(ctx context.Context) {
	for _, id := range w.queryIDs {
		if ctx.Err() != nil {
			return
		}
		w.poll(ctx, id)
	}
}

func (w *Watcher) poll(ctx context.Context, queryID string) {
	posts, err := w.client.GetRecentPosts(ctx, queryID, w.daysBack, w.limit, 0)
	if err != nil {
		w.health.RecordFailure(queryID, err)
		slog.Error("poll failed", "query_id", queryID, "error", err)
		return
	}

	fresh := w.filterNew(posts)
	w.health.RecordSuccess(queryID, len(fresh))

	if len(fresh) == 0 {
		slog.Debug("no new posts", "query_id", queryID)
		return
	}

	slog.Info("new posts", "query_id", queryID, "count", len(fresh))
	if w.handler != nil {
		w.handler(queryID, fresh)
	}
}

// filterNew returns the posts not seen in earlier cycles and marks them
// seen. The dedupe set evicts oldest entries past maxSeenIDs.
func (w *Watcher) filterNew(posts []listening.Post) []listening.Post {
	w.mu.Lock()
	defer w.mu.Unlock()

	var fresh []listening.Post
	for _, p := range posts {
		if _, ok := w.seen[p.ID]; ok {
			continue
		}
		w.seen[p.ID] = struct{}{}
		w.order = append(w.order, p.ID)
		fresh = append(fresh, p)
	}

	for len(w.order) > maxSeenIDs {
		delete(w.seen, w.order[0])
		w.order = w.order[1:]
	}

	return fresh
}
