package driven

import (
	"context"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

// Extractor converts a source file into normalised plain text.
// Each extractor handles specific file extensions (e.g. ".pdf").
type Extractor interface {
	// Extensions returns the lower-case file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract reads the file and returns its text and basic metadata.
	// Failures wrap domain.ErrExtraction: an unreadable file, an invalid
	// document, or a document with no extractable text. Extraction is
	// never retried; the caller records the failure and moves on.
	Extract(ctx context.Context, path string) (*domain.ExtractedText, error)
}
