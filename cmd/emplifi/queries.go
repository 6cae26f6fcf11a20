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
	queriesJSON bool
	queriesCSV  bool
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List listening queries",
	Long:  `List the listening queries available to the configured account.`,
	RunE:  runQueries,
}

func init() {
	queriesCmd.Flags().BoolVar(&queriesJSON, "json", false, "Output as JSON")
	queriesCmd.Flags().BoolVar(&queriesCSV, "csv", false, "Output as CSV")
	rootCmd.AddCommand(queriesCmd)
}

func runQueries(cmd *cobra.Command, args []string) error {
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

	queries, err := a.Client.ListQueries(ctx)
	if err != nil {
		return fmt.Errorf("list queries: %w", err)
	}

	switch {
	case queriesJSON:
		return output.WriteJSON(os.Stdout, queries)
	case queriesCSV:
		return output.WriteQueriesCSV(os.Stdout, queries)
	default:
		output.PreviewQueries(os.Stdout, queries)
		return nil
	}
}
