// Package main provides the resume_editor CLI, a command-line client for the resume API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/config"
)

var rootCmd = &cobra.Command{
	Use:               "resume_editor",
	Short:             "Resume API client",
	Long:              "resume_editor lists, edits and exports resumes stored by the resume backend, and renders them to PDF or LaTeX using the backend's templates.",
	PersistentPreRunE: setupApp,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

var (
	rootConfigPath string
	rootBaseURL    string
	rootTimeout    time.Duration
	rootRetries    int
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&rootBaseURL, "base-url", "", "Resume API base URL (overrides "+config.EnvBaseURL+")")
	rootCmd.PersistentFlags().DurationVar(&rootTimeout, "timeout", 0, "Request timeout (overrides "+config.EnvRequestTimeout+")")
	rootCmd.PersistentFlags().IntVar(&rootRetries, "retries", 0, "Maximum attempts for transient failures")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		stop()
		os.Exit(1)
	}
}
