package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extract pulls the plain text out of a PDF export, page by page, joining
// non-blank pages with newlines. The downstream pipeline works on this text
// positionally, so page order is preserved as-is.
//
// Text extraction is robust against light layout changes because nothing here
// depends on table cells or coordinates.
func Extract(pdfBytes []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return "", fmt.Errorf("pdftext: open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdftext: extract page %d: %w", i, err)
		}
		if strings.TrimSpace(txt) != "" {
			pages = append(pages, txt)
		}
	}

	return strings.Join(pages, "\n"), nil
}
