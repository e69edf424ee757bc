// Package pdf extracts plain text from PDF documents.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/chunkforge/chunkforge/internal/adapters/driven/extractors"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// pageTimeout bounds text extraction of a single page. Malformed PDFs
// can send the parser into pathological content streams; a stuck page is
// dropped rather than hanging the batch.
const pageTimeout = 10 * time.Second

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor converts PDF files to normalised text.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract opens the PDF and concatenates the plain text of every page,
// separated by blank lines. It fails with domain.ErrExtraction when the
// file cannot be parsed or no page yields any text (e.g. image-only
// scans).
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractedText, error) {
	reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", domain.ErrExtraction, path, err)
	}

	numPages := reader.NumPage()
	logger.Debug("Extracting %d pages from %s", numPages, path)

	var b strings.Builder
	extracted := 0
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := extractPage(ctx, page)
		if err != nil {
			// A single damaged page is dropped; the rest of the
			// document is still worth publishing.
			logger.Warn("Page %d of %s unreadable: %v", i, path, err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(content)
		extracted++
	}

	body := b.String()
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: %s contains no extractable text", domain.ErrExtraction, path)
	}

	logger.Debug("Extracted text from %d of %d pages of %s", extracted, numPages, path)
	return &domain.ExtractedText{
		Body:  body,
		Title: extractors.TitleFromText(body, path),
		Pages: numPages,
	}, nil
}

// extractPage reads one page's plain text under a timeout.
func extractPage(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resCh := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resCh <- result{content, err}
	}()

	select {
	case r := <-resCh:
		return r.content, r.err
	case <-time.After(pageTimeout):
		return "", errors.New("page extraction timed out")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
