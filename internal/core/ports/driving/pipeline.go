package driving

import (
	"context"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

// RunOptions configures one pipeline invocation.
type RunOptions struct {
	// InputDir is the directory holding source documents.
	InputDir string

	// ChunkSize is the chunk length in characters. Must be positive.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks in
	// characters. Must satisfy 0 <= overlap < size.
	ChunkOverlap int

	// Force bypasses the registry skip logic and reprocesses everything.
	Force bool

	// SkipSinks names sinks to omit from publication, e.g. "collection"
	// to skip the consolidated collection output.
	SkipSinks []string

	// Progress, when non-nil, receives structured status updates as the
	// run executes. It is invoked from the goroutine running the batch.
	Progress domain.ProgressFunc
}

// Pipeline orchestrates a batch run over the input directory: scan,
// filter unchanged documents, extract, chunk, publish, record.
//
// Run is safe to invoke from a background goroutine; all status flows
// through the returned report and the Progress callback, never through
// captured stdout.
type Pipeline interface {
	// Run executes one batch. A document's failure is isolated to that
	// document and recorded in the report; the only error Run itself
	// returns before touching any document is a configuration or scan
	// failure.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)
}

// Registry exposes the registry to the presentation layer.
type Registry interface {
	// Records lists everything the registry knows, ordered by name.
	Records(ctx context.Context) ([]domain.ProcessRecord, error)

	// Forget drops a document's record so the next run reprocesses it.
	Forget(ctx context.Context, name string) error
}

// Searcher performs keyword search over published chunks.
type Searcher interface {
	// Search scores chunks by query term frequency and returns the top
	// limit results, best first.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}
