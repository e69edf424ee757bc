// Package chunker provides fixed-size overlapping text chunking.
package chunker

import (
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Ensure Fixed implements the interface.
var _ driven.Chunker = (*Fixed)(nil)

// Fixed splits text into chunks by pure character-offset arithmetic:
// chunk boundaries never depend on content, so re-chunking identical
// text with identical parameters yields an identical sequence.
type Fixed struct{}

// New creates a fixed-size chunker.
func New() *Fixed {
	return &Fixed{}
}

// Chunk emits chunks spanning [offset, offset+size) clipped to the text
// length, advancing the offset by size-overlap each step. Text no longer
// than size produces exactly one chunk. Empty text produces none.
func (f *Fixed) Chunk(docName, text string, size, overlap int) ([]domain.Chunk, error) {
	if err := domain.ValidateChunkParams(size, overlap); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	total := len(runes)
	step := size - overlap

	chunks := make([]domain.Chunk, 0, total/step+1)
	for start := 0; start < total; start += step {
		end := start + size
		if end > total {
			end = total
		}

		chunks = append(chunks, domain.Chunk{
			DocName: docName,
			Index:   len(chunks),
			Start:   start,
			End:     end,
			Text:    string(runes[start:end]),
		})

		if end == total {
			break
		}
	}

	return chunks, nil
}
