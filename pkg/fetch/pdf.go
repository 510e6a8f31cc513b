package fetch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText extracts the plain text of a PDF, page by page. Pages are
// separated by form feeds so the cleanup pass can detect repeated
// per-page headers and footers.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var pages []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := extractPageText(page)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", pageNum, err)
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n\f\n"), nil
}

// extractPageText reassembles a page's text rows top to bottom. Characters
// that share a row are joined in X order so the line structure of the
// original layout survives.
func extractPageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range rows {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		var lastX float64
		for i, word := range row.Content {
			if i > 0 && word.X > lastX+1 {
				b.WriteByte(' ')
			}
			b.WriteString(word.S)
			lastX = word.X + word.W
		}
	}
	return b.String(), nil
}
