package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/apierror"
	"github.com/jonathan/resume-editor/internal/types"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "List, show, create and update stored resumes",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored resumes",
	Args:  cobra.NoArgs,
	RunE:  runResumesList,
}

var resumesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a stored resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesGet,
}

var resumesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a resume from a JSON file",
	Long:  "Creates a resume from a JSON file. The file is validated locally first; an invalid file is never sent. The create request is sent once and is not retried.",
	Args:  cobra.NoArgs,
	RunE:  runResumesCreate,
}

var resumesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a stored resume with the contents of a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesUpdate,
}

var (
	resumesGetJSON    bool
	resumesCreateFile string
	resumesUpdateFile string
)

func init() {
	resumesGetCmd.Flags().BoolVar(&resumesGetJSON, "json", false, "Print the resume as JSON")
	resumesCreateCmd.Flags().StringVarP(&resumesCreateFile, "file", "f", "", "Path to resume JSON file (required)")
	resumesUpdateCmd.Flags().StringVarP(&resumesUpdateFile, "file", "f", "", "Path to resume JSON file (required)")

	if err := resumesCreateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	if err := resumesUpdateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	resumesCmd.AddCommand(resumesListCmd, resumesGetCmd, resumesCreateCmd, resumesUpdateCmd)
	rootCmd.AddCommand(resumesCmd)
}

func runResumesList(cmd *cobra.Command, _ []string) error {
	var resumes []types.Resume
	err := withRetry(cmd.Context(), func(ctx context.Context) error {
		var err error
		resumes, err = app.service.ListResumes(ctx)
		return err
	})
	if err != nil {
		return err
	}

	printer(cmd).PrintResumeList(resumes)
	return nil
}

func runResumesGet(cmd *cobra.Command, args []string) error {
	var resume *types.Resume
	err := withRetry(cmd.Context(), func(ctx context.Context) error {
		var err error
		resume, err = app.service.GetResume(ctx, args[0])
		return err
	})
	if err != nil {
		return err
	}

	if resumesGetJSON {
		jsonBytes, err := json.MarshalIndent(resume, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal resume to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return nil
	}

	printer(cmd).PrintResume(resume)
	return nil
}

func runResumesCreate(cmd *cobra.Command, _ []string) error {
	payload, err := readPayload(resumesCreateFile)
	if err != nil {
		return err
	}

	// Never retried; POST /resume is not idempotent.
	id, err := app.service.CreateResume(cmd.Context(), payload)
	if err != nil {
		app.logger.Debug("request failed", "kind", apierror.KindOf(err), "error", err)
		reportInvalid(cmd, err)
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created resume %s\n", id)
	return nil
}

func runResumesUpdate(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(resumesUpdateFile)
	if err != nil {
		return err
	}

	err = withRetry(cmd.Context(), func(ctx context.Context) error {
		return app.service.UpdateResume(ctx, args[0], payload)
	})
	if err != nil {
		reportInvalid(cmd, err)
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated resume %s\n", args[0])
	return nil
}

// readPayload reads a resume JSON file without interpreting it.
func readPayload(path string) (json.RawMessage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	if !json.Valid(content) {
		return nil, fmt.Errorf("resume file is not valid JSON: %s", path)
	}
	return json.RawMessage(content), nil
}
