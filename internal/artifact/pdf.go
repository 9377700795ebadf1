// Package artifact inspects rendered resume artifacts returned by the backend.
package artifact

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-editor/internal/apierror"
)

// PDFInfo summarizes a rendered PDF.
type PDFInfo struct {
	Pages int
	Bytes int
	Words int
}

// InspectPDF parses data as a PDF and reports its page count and an
// approximate word count. Data that does not parse, or has no pages, is a
// validation error.
func InspectPDF(data []byte) (info *PDFInfo, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, apierror.Validation("downloaded artifact is not a PDF", nil)
	}

	// The parser panics on some malformed object syntax.
	defer func() {
		if r := recover(); r != nil {
			info, err = nil, apierror.Validation(fmt.Sprintf("failed to parse PDF: %v", r), nil)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apierror.Validation(fmt.Sprintf("failed to parse PDF: %v", err), err)
	}

	pages := reader.NumPage()
	if pages == 0 {
		return nil, apierror.Validation("downloaded PDF has no pages", nil)
	}
	info = &PDFInfo{Pages: pages, Bytes: len(data)}

	// Text extraction is best effort; fonts without a text encoding yield nothing.
	if plain, err := reader.GetPlainText(); err == nil {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, plain); err == nil {
			info.Words = len(strings.Fields(buf.String()))
		}
	}
	return info, nil
}
