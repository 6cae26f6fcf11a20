package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulachik/emplifi/internal/app"
	"github.com/abdulachik/emplifi/internal/config"
	"github.com/abdulachik/emplifi/internal/listening"
	"github.com/abdulachik/emplifi/internal/output"
)

var (
	postsQueryIDs []string
	postsFrom     string
	postsTo       string
	postsFields   []string
	postsLimit    int
	postsMaxPages int
	postsSort     string
	postsOrder    string
	postsJSON     bool
	postsCSV      bool
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Fetch posts for listening queries",
	Long: `Fetch posts (mentions) matching one or more listening queries over a
date range, following pagination until exhausted or --max-pages is hit.`,
	RunE: runPosts,
}

func init() {
	postsCmd.Flags().StringSliceVar(&postsQueryIDs, "query", nil, "Listening query ID (repeatable)")
	postsCmd.Flags().StringVar(&postsFrom, "from", "", "Start date (YYYY-MM-DD)")
	postsCmd.Flags().StringVar(&postsTo, "to", "", "End date (YYYY-MM-DD)")
	postsCmd.Flags().StringSliceVar(&postsFields, "field", nil, "Post field to request (repeatable, default standard set)")
	postsCmd.Flags().IntVar(&postsLimit, "limit", 50, "Page size (max 100)")
	postsCmd.Flags().IntVar(&postsMaxPages, "max-pages", 0, "Stop after this many pages (0 = no limit)")
	postsCmd.Flags().StringVar(&postsSort, "sort", "", "Sort field (e.g. interactions, created_time)")
	postsCmd.Flags().StringVar(&postsOrder, "order", "desc", "Sort order (asc or desc)")
	postsCmd.Flags().BoolVar(&postsJSON, "json", false, "Output as JSON")
	postsCmd.Flags().BoolVar(&postsCSV, "csv", false, "Output as CSV")
	_ = postsCmd.MarkFlagRequired("query")
	_ = postsCmd.MarkFlagRequired("from")
	_ = postsCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForAuth(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	posts, err := a.Client.FetchPosts(ctx, listening.PostsRequest{
		QueryIDs:  postsQueryIDs,
		DateStart: postsFrom,
		DateEnd:   postsTo,
		Fields:    postsFields,
		SortField: postsSort,
		SortOrder: postsOrder,
		Limit:     postsLimit,
		MaxPages:  postsMaxPages,
	})
	if err != nil {
		return fmt.Errorf("fetch posts: %w", err)
	}

	switch {
	case postsJSON:
		return output.WriteJSON(os.Stdout, posts)
	case postsCSV:
		return output.WritePostsCSV(os.Stdout, posts)
	default:
		output.PreviewPosts(os.Stdout, posts)
		return nil
	}
}
