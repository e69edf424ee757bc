// Package docstore implements the per-document store sink.
//
// Each published document yields three synchronized artifacts under the
// docs directory, all derived from the same extraction and chunk set:
//
//	<name>.txt  - the full extracted text
//	<name>.json - structured metadata and the chunk records
//	<name>.md   - a human-readable rendering
//
// Reprocessing a document overwrites its artifacts wholesale.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// SinkName identifies this sink in skip lists and logs.
const SinkName = "docstore"

// Ensure Store implements the interfaces.
var (
	_ driven.ChunkSink      = (*Store)(nil)
	_ driven.ChunkSource    = (*Store)(nil)
	_ driven.DocumentSource = (*Store)(nil)
)

// documentRecord is the on-disk JSON layout of one document.
type documentRecord struct {
	Name       string        `json:"name"`
	Title      string        `json:"title"`
	Source     string        `json:"source"`
	Pages      int           `json:"pages"`
	ChunkCount int           `json:"chunk_count"`
	Chunks     []chunkRecord `json:"chunks"`
}

// chunkRecord is one chunk in the document JSON.
type chunkRecord struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Store writes per-document artifacts to a directory.
type Store struct {
	dir string
}

// New creates a per-document store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Name returns the sink name.
func (s *Store) Name() string {
	return SinkName
}

// Publish writes the document's three artifacts. Each file is replaced
// atomically; a reprocessed document's previous artifacts are fully
// overwritten.
func (s *Store) Publish(ctx context.Context, doc *domain.Document, text *domain.ExtractedText, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	record := documentRecord{
		Name:       doc.Name,
		Title:      text.Title,
		Source:     doc.Source,
		Pages:      text.Pages,
		ChunkCount: len(chunks),
		Chunks:     make([]chunkRecord, len(chunks)),
	}
	for i, c := range chunks {
		record.Chunks[i] = chunkRecord{Index: c.Index, Start: c.Start, End: c.End, Text: c.Text}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling document record: %w", err)
	}

	if err := sinks.WriteFileAtomic(s.textPath(doc.Name), []byte(text.Body)); err != nil {
		return err
	}
	if err := sinks.WriteFileAtomic(s.jsonPath(doc.Name), data); err != nil {
		return err
	}
	if err := sinks.WriteFileAtomic(s.markdownPath(doc.Name), []byte(renderMarkdown(doc, text, chunks))); err != nil {
		return err
	}

	logger.Debug("Wrote document artifacts for %s", doc.Name)
	return nil
}

// LoadDocuments reads every document JSON in the store, ordered by
// name. Unreadable files are skipped with a warning so one damaged
// artifact never disables the read side entirely.
func (s *Store) LoadDocuments(ctx context.Context) ([]domain.PublishedDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var docs []domain.PublishedDocument
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := s.loadRecord(filepath.Join(s.dir, name))
		if err != nil {
			logger.Warn("Skipping unreadable document record %s: %v", name, err)
			continue
		}
		doc := domain.PublishedDocument{
			Name:   record.Name,
			Title:  record.Title,
			Source: record.Source,
			Pages:  record.Pages,
			Chunks: make([]domain.Chunk, len(record.Chunks)),
		}
		for i, c := range record.Chunks {
			doc.Chunks[i] = domain.Chunk{
				DocName: record.Name,
				Index:   c.Index,
				Start:   c.Start,
				End:     c.End,
				Text:    c.Text,
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadChunks returns all published chunks, ordered by document name
// then chunk index.
func (s *Store) LoadChunks(ctx context.Context) ([]domain.Chunk, error) {
	docs, err := s.LoadDocuments(ctx)
	if err != nil {
		return nil, err
	}
	var all []domain.Chunk
	for _, doc := range docs {
		all = append(all, doc.Chunks...)
	}
	return all, nil
}

func (s *Store) loadRecord(path string) (*documentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record documentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) textPath(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *Store) jsonPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) markdownPath(name string) string {
	return filepath.Join(s.dir, name+".md")
}

// renderMarkdown produces the human-readable artifact.
func renderMarkdown(doc *domain.Document, text *domain.ExtractedText, chunks []domain.Chunk) string {
	var b strings.Builder

	title := text.Title
	if title == "" {
		title = doc.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Source: %s\n", doc.Source)
	if text.Pages > 0 {
		fmt.Fprintf(&b, "- Pages: %d\n", text.Pages)
	}
	fmt.Fprintf(&b, "- Chunks: %d\n\n", len(chunks))
	b.WriteString(text.Body)
	if !strings.HasSuffix(text.Body, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
