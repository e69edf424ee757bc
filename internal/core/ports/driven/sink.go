package driven

import (
	"context"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

// ChunkSink publishes a document's complete chunk set into one output
// representation. Adding an output format means adding a sink; chunking
// logic is never touched.
//
// Publish replaces everything the sink previously held for the document.
// Implementations must apply the update atomically per document
// (write-to-temp-then-rename), so a crash never leaves a document's
// artifacts half-written, and must not disturb entries belonging to
// other documents.
type ChunkSink interface {
	// Name identifies the sink for logging and for skip lists.
	Name() string

	// Publish writes the document's chunk set.
	Publish(ctx context.Context, doc *domain.Document, text *domain.ExtractedText, chunks []domain.Chunk) error
}

// ChunkSource provides read-back access to published chunks.
// The per-document store implements it for the search command.
type ChunkSource interface {
	// LoadChunks returns every published chunk across all documents.
	LoadChunks(ctx context.Context) ([]domain.Chunk, error)
}

// DocumentSource provides read-back access to whole published
// documents. The per-document store implements it so derived artifacts
// can be rebuilt from it when they are lost or damaged.
type DocumentSource interface {
	// LoadDocuments returns every published document, ordered by name.
	LoadDocuments(ctx context.Context) ([]domain.PublishedDocument, error)
}
