// Package observability provides formatted output for the resume editor CLI.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-editor/internal/api"
	"github.com/jonathan/resume-editor/internal/apierror"
	"github.com/jonathan/resume-editor/internal/schemas"
	"github.com/jonathan/resume-editor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResume outputs a human-readable summary of a resume.
func (p *Printer) PrintResume(resume *types.Resume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", resume.Identifier()))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", resume.Name))
	if info := resume.BasicInfo; info != nil {
		sb.WriteString(fmt.Sprintf("Owner:    %s\n", info.Name))
		sb.WriteString(fmt.Sprintf("Email:    %s\n", info.Email))
		if phone := info.Phone.String(); phone != "" {
			sb.WriteString(fmt.Sprintf("Phone:    %s\n", phone))
		}
	}
	if len(resume.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", truncate(strings.Join(resume.Keywords, ", "), 40)))
	}
	sb.WriteString("\n")

	if len(resume.Education) > 0 {
		sb.WriteString("Education:\n")
		for _, edu := range resume.Education {
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", edu.Degree, edu.University))
		}
		sb.WriteString("\n")
	}

	if len(resume.Experiences) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(resume.Experiences), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := resume.Experiences[i]
			line := exp.Title
			if exp.Company != "" {
				if line != "" {
					line += " @ "
				}
				line += exp.Company
			}
			sb.WriteString(fmt.Sprintf("  • %s", line))
			if len(exp.Projects) > 0 {
				sb.WriteString(fmt.Sprintf(" (%d projects)", len(exp.Projects)))
			}
			sb.WriteString("\n")
		}
		if len(resume.Experiences) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Experiences)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(resume.Projects) > 0 {
		sb.WriteString("Projects:\n")
		count := min(len(resume.Projects), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", resume.Projects[i].Title))
		}
		if len(resume.Projects) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Projects)-3))
		}
	}

	p.printBox("RESUME", strings.TrimRight(sb.String(), "\n"))
}

// PrintResumeList outputs one line per stored resume.
func (p *Printer) PrintResumeList(resumes []types.Resume) {
	if len(resumes) == 0 {
		p.printBox("RESUMES", "No resumes stored yet")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d resumes:\n\n", len(resumes)))
	for i, r := range resumes {
		sb.WriteString(fmt.Sprintf("%-24s %s", r.Identifier(), r.Name))
		if i < len(resumes)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("RESUMES", sb.String())
}

// PrintTemplates outputs the available rendering templates.
func (p *Printer) PrintTemplates(templates []types.Template) {
	if len(templates) == 0 {
		p.printBox("TEMPLATES", "No templates available")
		return
	}

	lines := make([]string, 0, len(templates))
	for _, tpl := range templates {
		lines = append(lines, fmt.Sprintf("%-16s %s", tpl.ID, tpl.Name))
	}
	p.printBox("TEMPLATES", strings.Join(lines, "\n"))
}

// PrintStatus outputs a backend snapshot.
func (p *Printer) PrintStatus(baseURL string, status *api.Status) {
	if status == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Backend:   %s\n", baseURL))
	if status.Healthy {
		sb.WriteString("Health:    ✓ healthy\n")
	} else {
		sb.WriteString(fmt.Sprintf("Health:    ✗ %s\n", apierror.UserMessageFor(status.HealthErr)))
	}
	sb.WriteString(fmt.Sprintf("Templates: %d\n", len(status.Templates)))
	sb.WriteString(fmt.Sprintf("Resumes:   %d", len(status.Resumes)))

	p.printBox("BACKEND STATUS", sb.String())
}

// PrintValidation outputs the result of a local payload check.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ PAYLOAD IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var validationErr *schemas.ValidationError
	if !errors.As(err, &validationErr) {
		p.printBox("VALIDATION FAILED", apierror.UserMessageFor(err))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(validationErr.Errors)))
	for i, fe := range validationErr.Errors {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s", fe.Message))
		if i < len(validationErr.Errors)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("VALIDATION FAILED", sb.String())
}
