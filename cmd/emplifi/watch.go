package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/emplifi/internal/app"
	"github.com/abdulachik/emplifi/internal/config"
	"github.com/abdulachik/emplifi/internal/listening"
	"github.com/abdulachik/emplifi/internal/output"
	"github.com/abdulachik/emplifi/internal/watcher"
)

var (
	watchInterval time.Duration
	watchDaysBack int
	watchLimit    int
	watchJSON     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <query-id> [query-id...]",
	Short: "Watch queries for new posts",
	Long: `Poll one or more listening queries on an interval and print posts
that have not been seen before. Runs until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Poll interval (default from config)")
	watchCmd.Flags().IntVar(&watchDaysBack, "days", 0, "How many days back each poll looks (default from config)")
	watchCmd.Flags().IntVar(&watchLimit, "limit", 50, "Page size per poll (max 100)")
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Print new posts as JSON lines")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	interval := watchInterval
	if interval <= 0 {
		interval = cfg.WatchInterval
	}
	daysBack := watchDaysBack
	if daysBack <= 0 {
		daysBack = cfg.WatchDaysBack
	}

	w := watcher.New(watcher.Config{
		Client:   a.Client,
		QueryIDs: args,
		Interval: interval,
		DaysBack: daysBack,
		Limit:    watchLimit,
		Handler:  printNewPosts,
	})

	// Run watcher in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("watcher error: %w", err)
		}
	}

	cancel()
	return nil
}

func printNewPosts(queryID string, posts []listening.Post) {
	if watchJSON {
		for _, p := range posts {
			if err := output.WriteJSON(os.Stdout, p); err != nil {
				slog.Error("encode post", "error", err)
			}
		}
		return
	}
	fmt.Printf("--- %s: %d new posts ---\n", queryID, len(posts))
	output.PreviewPosts(os.Stdout, posts)
}
