package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/apierror"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the resume backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	err := withRetry(cmd.Context(), func(ctx context.Context) error {
		_, err := app.service.Health(ctx)
		return err
	})
	if err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✗ %s is unhealthy: %s\n", app.settings.BaseURL, apierror.UserMessageFor(err))
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is healthy\n", app.settings.BaseURL)
	return nil
}
