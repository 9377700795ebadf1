package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/api"
	"github.com/jonathan/resume-editor/internal/apierror"
	"github.com/jonathan/resume-editor/internal/client"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/observability"
	"github.com/jonathan/resume-editor/internal/retry"
	"github.com/jonathan/resume-editor/internal/schemas"
)

// appState is built once per invocation by setupApp.
type appState struct {
	settings config.Settings
	logger   *slog.Logger
	service  *api.Service
}

var app appState

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
}

// setupApp resolves settings (environment, then config file, then flags)
// and builds the API service.
func setupApp(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.ErrOrStderr(), rootVerbose)
	slog.SetDefault(logger)

	var fileCfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
		logger.Debug("loaded config", "path", rootConfigPath)
	}

	// Command-line flags take priority over the config file
	var flagCfg config.Config
	if cmd.Flags().Changed("base-url") {
		flagCfg.BaseURL = rootBaseURL
	}
	if cmd.Flags().Changed("timeout") {
		flagCfg.RequestTimeoutMS = int(rootTimeout.Milliseconds())
	}
	if cmd.Flags().Changed("retries") {
		flagCfg.Retry.MaxAttempts = rootRetries
	}

	merged := flagCfg.MergeWithDefaults(fileCfg)
	if err := merged.Validate(); err != nil {
		return err
	}

	settings := merged.ApplyTo(config.LoadSettings(logger))
	c := client.New(client.Options{
		BaseURL: settings.BaseURL,
		Timeout: settings.RequestTimeout,
		Headers: settings.Headers,
		Logger:  logger,
	})

	app = appState{
		settings: settings,
		logger:   logger,
		service:  api.NewService(c, settings.ConnectionTimeout, logger),
	}
	logger.Debug("settings resolved",
		"base_url", settings.BaseURL,
		"request_timeout", settings.RequestTimeout,
		"connection_timeout", settings.ConnectionTimeout,
		"max_attempts", settings.Retry.MaxAttempts)
	return nil
}

// withRetry runs fn under the configured retry policy. The technical detail
// of a final failure is logged; the caller reports only its kind.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := retry.Do(ctx, app.settings.Retry, app.logger, fn)
	if err != nil {
		app.logger.Debug("request failed", "kind", apierror.KindOf(err), "error", err)
	}
	return err
}

func printer(cmd *cobra.Command) *observability.Printer {
	return observability.NewPrinter(cmd.OutOrStdout())
}

// reportInvalid prints the field-level problems of a rejected payload.
func reportInvalid(cmd *cobra.Command, err error) {
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		printer(cmd).PrintValidation(err)
	}
}

// describeError returns what the user sees for a failed command. Classified
// API failures map to a fixed sentence per kind; anything else is a usage or
// local file problem and is shown as is.
func describeError(err error) string {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apierror.UserMessage(apiErr.Kind)
	}
	return err.Error()
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
