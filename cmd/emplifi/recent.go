package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulachik/emplifi/internal/app"
	"github.com/abdulachik/emplifi/internal/config"
	"github.com/abdulachik/emplifi/internal/output"
)

var (
	recentDaysBack int
	recentLimit    int
	recentMaxPages int
	recentJSON     bool
	recentCSV      bool
)

var recentCmd = &cobra.Command{
	Use:   "recent <query-id>",
	Short: "Show recent posts for a query",
	Long: `Show the most recent posts for a single listening query, sorted by
interactions. The date window is computed from --days back to now.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().IntVar(&recentDaysBack, "days", 7, "How many days back to look")
	recentCmd.Flags().IntVar(&recentLimit, "limit", 50, "Page size (max 100)")
	recentCmd.Flags().IntVar(&recentMaxPages, "max-pages", 1, "Stop after this many pages (0 = no limit)")
	recentCmd.Flags().BoolVar(&recentJSON, "json", false, "Output as JSON")
	recentCmd.Flags().BoolVar(&recentCSV, "csv", false, "Output as CSV")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
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

	posts, err := a.Client.GetRecentPosts(ctx, args[0], recentDaysBack, recentLimit, recentMaxPages)
	if err != nil {
		return fmt.Errorf("fetch recent posts: %w", err)
	}

	switch {
	case recentJSON:
		return output.WriteJSON(os.Stdout, posts)
	case recentCSV:
		return output.WritePostsCSV(os.Stdout, posts)
	default:
		output.PreviewPosts(os.Stdout, posts)
		return nil
	}
}
