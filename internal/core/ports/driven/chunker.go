package driven

import "github.com/chunkforge/chunkforge/internal/core/domain"

// Chunker splits extracted text into an ordered sequence of fixed-size,
// overlapping chunks. Chunking is pure character-offset arithmetic:
// identical text with identical parameters always yields an identical
// sequence. That determinism underlies incremental-update correctness.
type Chunker interface {
	// Chunk produces the chunk sequence for one document's text.
	// size must be positive and overlap must satisfy 0 <= overlap < size;
	// violations return an error wrapping domain.ErrConfiguration.
	Chunk(docName, text string, size, overlap int) ([]domain.Chunk, error)
}
