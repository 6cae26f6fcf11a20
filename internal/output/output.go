// Package output renders query and post results for the terminal and for
// machine consumption (JSON, CSV).
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/abdulachik/emplifi/internal/listening"
)

// previewMessageLen is the maximum message length shown in terminal previews.
const previewMessageLen = 80

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteQueriesCSV writes queries as CSV with a header row.
func WriteQueriesCSV(w io.Writer, queries []listening.Query) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "description", "status"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, q := range queries {
		if err := cw.Write([]string{q.ID, q.Name, q.Description, q.Status}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WritePostsCSV writes posts as CSV with a header row. The author column
// holds the display name when present.
func WritePostsCSV(w io.Writer, posts []listening.Post) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "created_time", "platform", "author", "sentiment", "interactions", "message", "url"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range posts {
		author := ""
		if p.Author != nil {
			author = p.Author.Name
		}
		interactions := ""
		if p.Interactions != nil {
			interactions = strconv.FormatInt(*p.Interactions, 10)
		}
		row := []string{
			p.ID,
			p.CreatedTime.Format("2006-01-02T15:04:05Z07:00"),
			p.Platform,
			author,
			p.Sentiment,
			interactions,
			p.Message,
			p.URL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// PreviewQueries writes a short human-readable listing of queries.
func PreviewQueries(w io.Writer, queries []listening.Query) {
	if len(queries) == 0 {
		fmt.Fprintln(w, "No listening queries found.")
		return
	}
	fmt.Fprintf(w, "Found %d listening queries:\n\n", len(queries))
	for _, q := range queries {
		fmt.Fprintf(w, "  %s  %s", q.ID, q.Name)
		if q.Status != "" {
			fmt.Fprintf(w, " (%s)", q.Status)
		}
		fmt.Fprintln(w)
		if q.Description != "" {
			fmt.Fprintf(w, "      %s\n", Truncate(q.Description, previewMessageLen))
		}
	}
}

// PreviewPosts writes a short human-readable listing of posts.
func PreviewPosts(w io.Writer, posts []listening.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return
	}
	fmt.Fprintf(w, "Found %d posts:\n\n", len(posts))
	for _, p := range posts {
		author := "unknown"
		if p.Author != nil && p.Author.Name != "" {
			author = p.Author.Name
		}
		fmt.Fprintf(w, "  [%s] %s by %s\n", p.CreatedTime.Format("2006-01-02 15:04"), p.Platform, author)
		fmt.Fprintf(w, "      %s\n", Truncate(p.Message, previewMessageLen))
		var extras []string
		if p.Sentiment != "" {
			extras = append(extras, "sentiment: "+p.Sentiment)
		}
		if p.Interactions != nil {
			extras = append(extras, fmt.Sprintf("interactions: %d", *p.Interactions))
		}
		if len(extras) > 0 {
			fmt.Fprintf(w, "      %s\n", strings.Join(extras, ", "))
		}
	}
}

// PreviewMetrics writes daily metric rows as an aligned listing.
func PreviewMetrics(w io.Writer, metrics *listening.Metrics) {
	if metrics == nil || len(metrics.Data) == 0 {
		fmt.Fprintln(w, "No metric data found.")
		return
	}
	fmt.Fprintf(w, "Found %d metric rows:\n\n", len(metrics.Data))
	for _, row := range metrics.Data {
		// Date leads when present, remaining keys sorted for stable output.
		if date, ok := row["date"].(string); ok {
			fmt.Fprintf(w, "  %s", date)
			keys := make([]string, 0, len(row))
			for k := range row {
				if k != "date" {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  %s=%v", k, row[k])
			}
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "  %v\n", row)
	}
}

// Truncate shortens s to at most maxLen runes, appending an ellipsis and
// breaking at a word boundary when one is close enough.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	truncated := string(runes[:maxLen-3])

	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > (maxLen-3)/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimRight(truncated, " .,;:!?") + "..."
}
