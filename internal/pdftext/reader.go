package pdftext

import (
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/extract"
)

// Pages extracts per-page plain text from a PDF. Pages that fail text
// extraction are skipped; an unreadable file is an error. Page numbers are
// 1-based and only pages with text are returned.
func Pages(ctx context.Context, r io.ReaderAt, size int64) ([]extract.Page, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	total := reader.NumPage()
	pages := make([]extract.Page, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logutil.GetLogger(ctx).Warn("page text extraction failed", zap.Int("page", i), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		pages = append(pages, extract.Page{Number: i, Text: text})
	}
	return pages, nil
}

// NumPages returns the total page count of a PDF, including pages with no
// extractable text.
func NumPages(r io.ReaderAt, size int64) (int, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return reader.NumPage(), nil
}
