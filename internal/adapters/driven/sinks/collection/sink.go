// Package collection implements the consolidated collection sink.
//
// All published documents are merged into a single collection JSON under
// the openwebui directory, the file handed to the external knowledge-base
// import feature. Merging is upsert-by-document: reprocessing one
// document never perturbs the entries of others, and republishing an
// unchanged chunk set rewrites an identical entry.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// SinkName identifies this sink in skip lists and logs.
const SinkName = "collection"

// DefaultCollectionName is used when no name is configured.
const DefaultCollectionName = "Knowledge Base"

// FileName is the collection artifact written under the sink directory.
const FileName = "collection.json"

// Ensure Sink implements the interface.
var _ driven.ChunkSink = (*Sink)(nil)

// Sink maintains the consolidated collection file. When a recovery
// source is provided, a damaged collection file is rebuilt from it
// instead of being restarted empty, so the collection never silently
// loses entries the per-document store still holds.
type Sink struct {
	dir      string
	name     string
	recovery driven.DocumentSource
}

// New creates a collection sink rooted at dir with the given collection
// display name. recovery may be nil, in which case a damaged collection
// file is an error.
func New(dir, name string, recovery driven.DocumentSource) *Sink {
	if name == "" {
		name = DefaultCollectionName
	}
	return &Sink{dir: dir, name: name, recovery: recovery}
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return SinkName
}

// Publish upserts the document's entry into the collection file.
// Entry and chunk IDs are name-derived UUIDs, so rebuilding an unchanged
// document produces a byte-identical entry and the merge is idempotent.
func (s *Sink) Publish(ctx context.Context, doc *domain.Document, text *domain.ExtractedText, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	col, err := s.Load(ctx)
	if err != nil {
		return err
	}
	col.Upsert(entryFor(doc.Name, doc.Source, chunks))

	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling collection: %w", err)
	}
	if err := sinks.WriteFileAtomic(s.Path(), data); err != nil {
		return err
	}
	if err := s.writeInstructions(); err != nil {
		return err
	}

	logger.Debug("Collection now holds %d documents", len(col.Documents))
	return nil
}

// Load reads the current collection, or returns an empty one when the
// file does not exist yet. A corrupt file is rebuilt from the recovery
// source when one is configured, never silently emptied.
func (s *Sink) Load(ctx context.Context) (*domain.Collection, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.Collection{Name: s.name}, nil
		}
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	var col domain.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		if s.recovery == nil {
			return nil, fmt.Errorf("parsing collection: %w", err)
		}
		logger.Warn("Collection file unreadable (%v), rebuilding from the document store", err)
		return s.rebuild(ctx)
	}
	if col.Name == "" {
		col.Name = s.name
	}
	return &col, nil
}

// rebuild reconstructs the collection from the per-document store.
func (s *Sink) rebuild(ctx context.Context) (*domain.Collection, error) {
	docs, err := s.recovery.LoadDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuilding collection: %w", err)
	}

	col := &domain.Collection{Name: s.name}
	for _, doc := range docs {
		col.Upsert(entryFor(doc.Name, doc.Source, doc.Chunks))
	}
	logger.Debug("Rebuilt collection with %d documents", len(col.Documents))
	return col, nil
}

// Path returns the collection file location.
func (s *Sink) Path() string {
	return filepath.Join(s.dir, FileName)
}

// entryFor builds a document's collection entry. Publishing and
// rebuilding share it so both paths produce identical entries.
func entryFor(name, source string, chunks []domain.Chunk) domain.CollectionEntry {
	docID := stableID(name)
	entry := domain.CollectionEntry{
		ID:     docID,
		URL:    "",
		Title:  name,
		Chunks: make([]domain.CollectionChunk, len(chunks)),
	}
	for i, c := range chunks {
		entry.Chunks[i] = domain.CollectionChunk{
			ID:      stableID(fmt.Sprintf("%s#%d", name, c.Index)),
			DocID:   docID,
			Content: c.Text,
			Metadata: domain.CollectionChunkMeta{
				Source:      source,
				ChunkIndex:  c.Index,
				TotalChunks: len(chunks),
			},
		}
	}
	return entry
}

// stableID derives a deterministic UUID from a document or chunk key.
// Determinism keeps the collection byte-stable across forced rebuilds of
// unchanged content.
func stableID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("chunkforge://"+key)).String()
}

// writeInstructions drops a short import how-to beside the collection.
func (s *Sink) writeInstructions() error {
	instructions := fmt.Sprintf(`Collection: %s

To import this collection into Open WebUI:

1. Open the Open WebUI interface
2. Go to Collections
3. Click "Import Collection"
4. Select the file: %s
5. Verify the import was successful
`, s.name, s.Path())

	path := filepath.Join(s.dir, "collection_import_instructions.txt")
	return sinks.WriteFileAtomic(path, []byte(instructions))
}
