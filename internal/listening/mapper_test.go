package listening

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPost(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want *Post
	}{
		{
			name: "full record",
			raw: map[string]any{
				"id":           "P1",
				"created_time": "2025-08-01T10:30:00Z",
				"platform":     "twitter",
				"author":       map[string]any{"name": "Jamie", "id": "A1"},
				"message":      "hello",
				"sentiment":    "positive",
				"interactions": float64(42),
				"url":          "https://example.com/p/1",
			},
			want: &Post{
				ID:           "P1",
				CreatedTime:  time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC),
				Platform:     "twitter",
				Author:       &Author{Name: "Jamie", ID: "A1"},
				Message:      "hello",
				Sentiment:    "positive",
				Interactions: int64Ptr(42),
				URL:          "https://example.com/p/1",
			},
		},
		{
			name: "created_time without zone",
			raw: map[string]any{
				"id":           "P2",
				"created_time": "2025-08-01T10:30:00",
				"platform":     "instagram",
				"message":      "hi",
			},
			want: &Post{
				ID:          "P2",
				CreatedTime: time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC),
				Platform:    "instagram",
				Message:     "hi",
			},
		},
		{
			name: "non-numeric interactions are ignored",
			raw: map[string]any{
				"id":           "P3",
				"created_time": "2025-08-01T10:30:00Z",
				"platform":     "twitter",
				"message":      "hi",
				"interactions": "lots",
			},
			want: &Post{
				ID:          "P3",
				CreatedTime: time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC),
				Platform:    "twitter",
				Message:     "hi",
			},
		},
		{name: "missing id", raw: map[string]any{"created_time": "2025-08-01T10:30:00Z", "platform": "x", "message": "hi"}},
		{name: "missing created_time", raw: map[string]any{"id": "P4", "platform": "x", "message": "hi"}},
		{name: "unparseable created_time", raw: map[string]any{"id": "P5", "created_time": "yesterday", "platform": "x", "message": "hi"}},
		{name: "missing platform", raw: map[string]any{"id": "P6", "created_time": "2025-08-01T10:30:00Z", "message": "hi"}},
		{name: "missing message", raw: map[string]any{"id": "P7", "created_time": "2025-08-01T10:30:00Z", "platform": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mapPost(tt.raw)
			if tt.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, *tt.want, got)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestExtractQueryItems(t *testing.T) {
	item := map[string]any{"id": "LNQ_1", "name": "Flowers"}

	tests := []struct {
		name string
		body []byte
		want int
	}{
		{"data array", []byte(`{"data":[{"id":"LNQ_1","name":"Flowers"},{"id":"LNQ_2","name":"Cars"}]}`), 2},
		{"top-level array", []byte(`[{"id":"LNQ_1","name":"Flowers"}]`), 1},
		{"queries key", []byte(`{"queries":[{"id":"LNQ_1","name":"Flowers"}]}`), 1},
		{"single object wrapped", []byte(`{"id":"LNQ_1","name":"Flowers"}`), 1},
		{"empty data", []byte(`{"data":[]}`), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := extractQueryItems(tt.body)
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		_, err := extractQueryItems([]byte(`{`))
		assert.Error(t, err)
	})

	t.Run("fallback preserves the object", func(t *testing.T) {
		items, err := extractQueryItems([]byte(`{"id":"LNQ_1","name":"Flowers"}`))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, item, items[0])
	})
}

func TestDateHelpers(t *testing.T) {
	t.Run("datePart", func(t *testing.T) {
		assert.Equal(t, "2025-08-01", datePart("2025-08-01T00:00:00Z"))
		assert.Equal(t, "2025-08-01", datePart("2025-08-01T15:04:05"))
		assert.Equal(t, "2025-08-01", datePart("2025-08-01"))
	})

	t.Run("startTimestamp", func(t *testing.T) {
		assert.Equal(t, "2025-08-01T00:00:00", startTimestamp("2025-08-01"))
		assert.Equal(t, "2025-08-01T06:00:00", startTimestamp("2025-08-01T06:00:00"))
		assert.Equal(t, "", startTimestamp(""))
	})

	t.Run("endTimestamp", func(t *testing.T) {
		assert.Equal(t, "2025-08-01T23:59:59", endTimestamp("2025-08-01"))
		assert.Equal(t, "2025-08-01T18:00:00", endTimestamp("2025-08-01T18:00:00"))
		assert.Equal(t, "", endTimestamp(""))
	})
}
