package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-editor/internal/artifact"
	"github.com/jonathan/resume-editor/internal/client"
	"github.com/jonathan/resume-editor/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a resume to PDF or LaTeX",
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf <resume-id>",
	Short: "Download a resume rendered as PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportPDF,
}

var exportLatexCmd = &cobra.Command{
	Use:   "latex <resume-id>",
	Short: "Print or save the LaTeX source of a rendered resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportLatex,
}

var (
	exportTemplate string
	exportOrder    []string
	exportOutput   string
	exportMaxPages int
)

func init() {
	for _, c := range []*cobra.Command{exportPDFCmd, exportLatexCmd} {
		c.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template id (defaults to the configured default template)")
		c.Flags().StringSliceVar(&exportOrder, "order", nil, "Comma-separated section order (defaults to the configured order)")
		c.Flags().StringVarP(&exportOutput, "out", "o", "", "Path to output file")
	}

	exportPDFCmd.Flags().IntVar(&exportMaxPages, "max-pages", 0, "Warn when the rendered PDF has more pages (0 disables the check)")

	exportCmd.AddCommand(exportPDFCmd, exportLatexCmd)
	rootCmd.AddCommand(exportCmd)
}

// exportRequest fills unset template and order from the resolved settings.
func exportRequest(resumeID string) types.ExportRequest {
	req := types.ExportRequest{
		ResumeID:   resumeID,
		TemplateID: exportTemplate,
		Order:      exportOrder,
	}
	if req.TemplateID == "" {
		req.TemplateID = app.settings.DefaultTemplate
	}
	if len(req.Order) == 0 {
		req.Order = app.settings.SectionOrder
	}
	return req
}

// outputPath returns the explicit --out path, or a file named after the
// resume in the configured output directory.
func outputPath(resumeID, ext string) string {
	if exportOutput != "" {
		return exportOutput
	}
	return filepath.Join(app.settings.OutputDir, fmt.Sprintf("resume-%s.%s", filepath.Base(resumeID), ext))
}

func runExportPDF(cmd *cobra.Command, args []string) error {
	req := exportRequest(args[0])

	var dl *client.Download
	err := withRetry(cmd.Context(), func(ctx context.Context) error {
		var err error
		dl, err = app.service.DownloadPDF(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	info, err := artifact.InspectPDF(dl.Body)
	if err != nil {
		app.logger.Debug("download is not a readable PDF", "content_type", dl.ContentType, "error", err)
		return err
	}
	if exportMaxPages > 0 && info.Pages > exportMaxPages {
		app.logger.Warn("rendered resume exceeds page limit",
			"resume_id", req.ResumeID,
			"pages", info.Pages,
			"max_pages", exportMaxPages)
	}

	path := outputPath(req.ResumeID, "pdf")
	if err := writeOutput(path, dl.Body); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d pages, %d bytes)\n", path, info.Pages, info.Bytes)
	return nil
}

func runExportLatex(cmd *cobra.Command, args []string) error {
	req := exportRequest(args[0])

	var latex string
	err := withRetry(cmd.Context(), func(ctx context.Context) error {
		var err error
		latex, err = app.service.CopyLaTeX(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), latex)
		return nil
	}

	if err := writeOutput(exportOutput, []byte(latex)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", exportOutput)
	return nil
}
