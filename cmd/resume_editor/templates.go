package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/types"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available rendering templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	var templates []types.Template
	err := withRetry(cmd.Context(), func(ctx context.Context) error {
		var err error
		templates, err = app.service.ListTemplates(ctx)
		return err
	})
	if err != nil {
		return err
	}

	printer(cmd).PrintTemplates(templates)
	return nil
}
