package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/api"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend health, templates and stored resumes",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	var status *api.Status
	err := withRetry(cmd.Context(), func(ctx context.Context) error {
		var err error
		status, err = app.service.Snapshot(ctx)
		return err
	})
	if err != nil {
		return err
	}

	printer(cmd).PrintStatus(app.settings.BaseURL, status)
	return nil
}
