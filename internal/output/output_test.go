package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/emplifi/internal/listening"
)

func samplePosts() []listening.Post {
	count := int64(42)
	return []listening.Post{
		{
			ID:           "P1",
			CreatedTime:  time.Date(2025, 8, 1, 10, 30, 0, 0, time.UTC),
			Platform:     "twitter",
			Author:       &listening.Author{Name: "Jamie"},
			Message:      "a message, with a comma",
			Sentiment:    "positive",
			Interactions: &count,
			URL:          "https://example.com/p/1",
		},
		{
			ID:          "P2",
			CreatedTime: time.Date(2025, 8, 2, 9, 0, 0, 0, time.UTC),
			Platform:    "instagram",
			Message:     "no author here",
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, samplePosts()))
	assert.Contains(t, buf.String(), `"id": "P1"`)
	assert.Contains(t, buf.String(), `"platform": "twitter"`)
}

func TestWritePostsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePostsCSV(&buf, samplePosts()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "created_time", "platform", "author", "sentiment", "interactions", "message", "url"}, rows[0])
	assert.Equal(t, "P1", rows[1][0])
	assert.Equal(t, "2025-08-01T10:30:00Z", rows[1][1])
	assert.Equal(t, "Jamie", rows[1][3])
	assert.Equal(t, "42", rows[1][5])
	assert.Equal(t, "a message, with a comma", rows[1][6])

	// Optional fields empty when absent.
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "", rows[2][5])
}

func TestWriteQueriesCSV(t *testing.T) {
	var buf bytes.Buffer
	queries := []listening.Query{
		{ID: "LNQ_1", Name: "Flowers", Description: "desc", Status: "active"},
	}
	require.NoError(t, WriteQueriesCSV(&buf, queries))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"LNQ_1", "Flowers", "desc", "active"}, rows[1])
}

func TestPreviewQueries(t *testing.T) {
	var buf bytes.Buffer
	PreviewQueries(&buf, []listening.Query{{ID: "LNQ_1", Name: "Flowers", Status: "active"}})
	out := buf.String()
	assert.Contains(t, out, "Found 1 listening queries")
	assert.Contains(t, out, "LNQ_1")
	assert.Contains(t, out, "(active)")

	buf.Reset()
	PreviewQueries(&buf, nil)
	assert.Contains(t, buf.String(), "No listening queries found")
}

func TestPreviewPosts(t *testing.T) {
	var buf bytes.Buffer
	PreviewPosts(&buf, samplePosts())
	out := buf.String()
	assert.Contains(t, out, "Found 2 posts")
	assert.Contains(t, out, "twitter by Jamie")
	assert.Contains(t, out, "sentiment: positive, interactions: 42")
	assert.Contains(t, out, "instagram by unknown")

	buf.Reset()
	PreviewPosts(&buf, nil)
	assert.Contains(t, buf.String(), "No posts found")
}

func TestPreviewMetrics(t *testing.T) {
	var buf bytes.Buffer
	PreviewMetrics(&buf, &listening.Metrics{Data: []map[string]any{
		{"date": "2025-08-01", "mentions": float64(5)},
	}})
	out := buf.String()
	assert.Contains(t, out, "2025-08-01")
	assert.Contains(t, out, "mentions=5")

	buf.Reset()
	PreviewMetrics(&buf, nil)
	assert.Contains(t, buf.String(), "No metric data found")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		check  func(t *testing.T, got string)
	}{
		{
			name:   "short string unchanged",
			input:  "hello",
			maxLen: 80,
			check: func(t *testing.T, got string) {
				assert.Equal(t, "hello", got)
			},
		},
		{
			name:   "long string gets ellipsis",
			input:  strings.Repeat("word ", 40),
			maxLen: 50,
			check: func(t *testing.T, got string) {
				assert.True(t, strings.HasSuffix(got, "..."))
				assert.LessOrEqual(t, len([]rune(got)), 50)
			},
		},
		{
			name:   "breaks at word boundary",
			input:  "the quick brown fox jumps over the lazy dog again and again",
			maxLen: 30,
			check: func(t *testing.T, got string) {
				assert.True(t, strings.HasSuffix(got, "..."))
				assert.NotContains(t, strings.TrimSuffix(got, "..."), "  ")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Truncate(tt.input, tt.maxLen))
		})
	}
}
