package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a resume JSON file locally without sending it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(args[0])
	if err != nil {
		return err
	}

	err = schemas.ValidateRequest(payload)
	printer(cmd).PrintValidation(err)
	return err
}
