package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/emplifi/internal/app"
	"github.com/abdulachik/emplifi/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain an OAuth token",
	Long: `Obtain an OAuth access token. Reuses a stored token when still valid,
refreshes an expired one, and otherwise opens the browser for an
authorization flow with a local callback.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForLogin(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	oauth := a.OAuth()
	if oauth == nil {
		return fmt.Errorf("login requires EMPLIFI_CLIENT_ID and EMPLIFI_CLIENT_SECRET")
	}

	if err := oauth.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Println("Login successful. Token stored at", cfg.TokenPath)
	return nil
}
