// Package jsonl implements the retrieval-file sink.
//
// Each document gets one JSONL file under the ollama directory with one
// JSON object per chunk, the line format consumed by the local
// embedding/RAG tooling. Rewriting a document's file replaces all of its
// previous lines, so a reprocessed document never appears twice.
package jsonl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
)

// SinkName identifies this sink in skip lists and logs.
const SinkName = "jsonl"

// Ensure Sink implements the interface.
var _ driven.ChunkSink = (*Sink)(nil)

// line is the on-disk layout of one chunk.
type line struct {
	Text     string   `json:"text"`
	Metadata metadata `json:"metadata"`
}

// metadata maps a line back to its source document and offset.
type metadata struct {
	Source      string `json:"source"`
	DocName     string `json:"doc_name"`
	ChunkID     int    `json:"chunk_id"`
	TotalChunks int    `json:"total_chunks"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Sink writes per-document JSONL retrieval files.
type Sink struct {
	dir string
}

// New creates a retrieval-file sink rooted at dir.
func New(dir string) *Sink {
	return &Sink{dir: dir}
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return SinkName
}

// Publish writes one line per chunk to the document's JSONL file,
// replacing any previous content atomically.
func (s *Sink) Publish(ctx context.Context, doc *domain.Document, _ *domain.ExtractedText, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, c := range chunks {
		l := line{
			Text: c.Text,
			Metadata: metadata{
				Source:      doc.Source,
				DocName:     doc.Name,
				ChunkID:     c.Index,
				TotalChunks: len(chunks),
				Start:       c.Start,
				End:         c.End,
			},
		}
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("encoding chunk %d of %s: %w", c.Index, doc.Name, err)
		}
	}

	return sinks.WriteFileAtomic(s.path(doc.Name), buf.Bytes())
}

func (s *Sink) path(name string) string {
	return filepath.Join(s.dir, name+".jsonl")
}
