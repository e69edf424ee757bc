// Package office extracts plain text from office and plaintext files
// (.docx, .odt, .rtf, .txt).
package office

import (
	"context"
	"fmt"
	"strings"

	"github.com/lu4p/cat"

	"github.com/chunkforge/chunkforge/internal/adapters/driven/extractors"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor converts office documents and plain text files to
// normalised text. These formats carry no page concept, so Pages is
// always 0.
type Extractor struct{}

// New creates an office/plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{".docx", ".odt", ".rtf", ".txt"}
}

// Extract reads the file's text content. Failures and empty documents
// wrap domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractedText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrExtraction, path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s contains no extractable text", domain.ErrExtraction, path)
	}

	return &domain.ExtractedText{
		Body:  text,
		Title: extractors.TitleFromText(text, path),
	}, nil
}
