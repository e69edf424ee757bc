package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkforge/chunkforge/internal/adapters/driven/scanner/filesystem"
	"github.com/chunkforge/chunkforge/internal/adapters/driven/sinks/docstore"
	"github.com/chunkforge/chunkforge/internal/chunker"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
)

// writeSource creates a real file so fingerprinting works, and returns
// its SourceFile entry.
func writeSource(t *testing.T, dir, name, content string) domain.SourceFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return domain.SourceFile{Path: path, Size: info.Size(), ModTime: info.ModTime()}
}

func newTestOrchestrator(scanner *fakeScanner, extractor *fakeExtractor, sink *recordingSink, store *memoryStore) *Orchestrator {
	return NewOrchestrator(
		scanner,
		[]driven.Extractor{extractor},
		chunker.New(),
		NewPublisher(sink),
		NewRegistry(store),
	)
}

func defaultOpts() driving.RunOptions {
	return driving.RunOptions{InputDir: "in", ChunkSize: 10, ChunkOverlap: 2}
}

func TestRun_ProcessesNewDocuments(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "alpha.txt", "alpha body")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts: map[string]*domain.ExtractedText{
			file.Path: {Body: "alpha body content here", Title: "Alpha", Pages: 2},
		},
	}
	sink := &recordingSink{name: "docstore"}
	store := newMemoryStore()

	o := newTestOrchestrator(scanner, extractor, sink, store)
	report, err := o.Run(context.Background(), defaultOpts())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	require.Len(t, sink.published, 1)
	assert.Equal(t, "alpha", sink.published[0].doc.Name)
	assert.NotEmpty(t, sink.published[0].chunks)

	rec, err := store.Get(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Pages)
	assert.Equal(t, len(sink.published[0].chunks), rec.Chunks)
}

func TestRun_SkipsUnchangedDocuments(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "alpha.txt", "alpha body")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts: map[string]*domain.ExtractedText{
			file.Path: {Body: "alpha body"},
		},
	}
	sink := &recordingSink{name: "docstore"}
	store := newMemoryStore()
	o := newTestOrchestrator(scanner, extractor, sink, store)

	_, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)
	require.Len(t, sink.published, 1)

	// Second run with identical content publishes nothing.
	report, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Processed)
	assert.Len(t, sink.published, 1)
}

func TestRun_ReprocessesChangedDocuments(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "alpha.txt", "original")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts: map[string]*domain.ExtractedText{
			file.Path: {Body: "original"},
		},
	}
	sink := &recordingSink{name: "docstore"}
	store := newMemoryStore()
	o := newTestOrchestrator(scanner, extractor, sink, store)

	_, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)

	// Change the content; fingerprint differs even if size matched.
	scanner.files[0] = writeSource(t, dir, "alpha.txt", "modified")
	extractor.texts[file.Path] = &domain.ExtractedText{Body: "modified"}

	report, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Len(t, sink.published, 2)
}

func TestRun_ForceReprocessesEverything(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "alpha.txt", "stable")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts:      map[string]*domain.ExtractedText{file.Path: {Body: "stable"}},
	}
	sink := &recordingSink{name: "docstore"}
	store := newMemoryStore()
	o := newTestOrchestrator(scanner, extractor, sink, store)

	_, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)

	opts := defaultOpts()
	opts.Force = true
	report, err := o.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Len(t, sink.published, 2)
}

func TestRun_IsolatesDocumentFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.txt", "good content")
	bad := writeSource(t, dir, "bad.txt", "bad content")

	scanner := &fakeScanner{files: []domain.SourceFile{bad, good}}
	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts:      map[string]*domain.ExtractedText{good.Path: {Body: "good content"}},
		errs:       map[string]error{bad.Path: domain.ErrExtraction},
	}
	sink := &recordingSink{name: "docstore"}
	store := newMemoryStore()
	o := newTestOrchestrator(scanner, extractor, sink, store)

	report, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Documents, 2)
	assert.Equal(t, domain.StatusFailed, report.Documents[0].Status)
	assert.Equal(t, domain.StageExtracting, report.Documents[0].Stage)
	assert.NotEmpty(t, report.Documents[0].Err)
	assert.Equal(t, domain.StatusProcessed, report.Documents[1].Status)

	// The failed document must not be recorded, so the next run retries it.
	_, err = store.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRun_PublishFailureLeavesDocumentUnrecorded(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "alpha.txt", "content")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts:      map[string]*domain.ExtractedText{file.Path: {Body: "content"}},
	}
	sink := &recordingSink{name: "docstore", err: errors.New("disk full")}
	store := newMemoryStore()
	o := newTestOrchestrator(scanner, extractor, sink, store)

	report, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, domain.StageSynchronizing, report.Documents[0].Stage)

	_, err = store.Get(context.Background(), "alpha")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRun_OutputInsideInputStaysIdempotent(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "guide.txt", "guide body text")
	outDir := filepath.Join(dir, "processed_docs")

	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts:      map[string]*domain.ExtractedText{source.Path: {Body: "guide body text"}},
	}
	store := newMemoryStore()
	o := NewOrchestrator(
		filesystem.New([]string{".txt"}, outDir),
		[]driven.Extractor{extractor},
		chunker.New(),
		NewPublisher(docstore.New(filepath.Join(outDir, "docs"))),
		NewRegistry(store),
	)

	opts := driving.RunOptions{InputDir: dir, ChunkSize: 10, ChunkOverlap: 2}
	report, err := o.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	// The published artifact shares the source's stem. It must not be
	// rediscovered as a new document on the next pass.
	_, err = os.Stat(filepath.Join(outDir, "docs", "guide.txt"))
	require.NoError(t, err)

	report, err = o.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 0, report.Failed)
}

func TestRun_SameStemSourcesDoNotClobber(t *testing.T) {
	dir := t.TempDir()
	pdf := writeSource(t, dir, "report.pdf", "pdf bytes")
	txt := writeSource(t, dir, "report.txt", "plain text")

	scanner := &fakeScanner{files: []domain.SourceFile{pdf, txt}}
	extractor := &fakeExtractor{
		extensions: []string{".pdf", ".txt"},
		texts: map[string]*domain.ExtractedText{
			pdf.Path: {Body: "pdf content"},
			txt.Path: {Body: "txt content"},
		},
	}
	sink := &recordingSink{name: "docstore"}
	store := newMemoryStore()
	o := newTestOrchestrator(scanner, extractor, sink, store)

	report, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)

	// Both sources map to the name "report"; the first claims it and the
	// second fails instead of overwriting its artifacts.
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, sink.published, 1)
	assert.Equal(t, pdf.Path, sink.published[0].doc.Path)
	require.Len(t, report.Documents, 2)
	assert.Contains(t, report.Documents[1].Err, "same document name")
}

func TestRun_InvalidChunkParams(t *testing.T) {
	o := newTestOrchestrator(&fakeScanner{}, &fakeExtractor{}, &recordingSink{name: "x"}, newMemoryStore())

	opts := defaultOpts()
	opts.ChunkOverlap = opts.ChunkSize
	_, err := o.Run(context.Background(), opts)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRun_ScanFailureAbortsRun(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("no such directory")}
	o := newTestOrchestrator(scanner, &fakeExtractor{}, &recordingSink{name: "x"}, newMemoryStore())

	_, err := o.Run(context.Background(), defaultOpts())
	assert.Error(t, err)
}

func TestRun_UnsupportedExtensionFailsDocument(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "image.png", "not really an image")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	extractor := &fakeExtractor{extensions: []string{".txt"}}
	o := newTestOrchestrator(scanner, extractor, &recordingSink{name: "x"}, newMemoryStore())

	report, err := o.Run(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Documents[0].Err, "unsupported")
}

func TestRun_EmitsProgressUpdates(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "alpha.txt", "content")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	extractor := &fakeExtractor{
		extensions: []string{".txt"},
		texts:      map[string]*domain.ExtractedText{file.Path: {Body: "content"}},
	}
	o := newTestOrchestrator(scanner, extractor, &recordingSink{name: "x"}, newMemoryStore())

	var stages []domain.Stage
	opts := defaultOpts()
	opts.Progress = func(p domain.Progress) {
		assert.Equal(t, "alpha", p.Name)
		stages = append(stages, p.Stage)
	}

	_, err := o.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []domain.Stage{
		domain.StageScanning,
		domain.StageExtracting,
		domain.StageChunking,
		domain.StageSynchronizing,
		domain.StageRecording,
		domain.StageDone,
	}, stages)
}

func TestRun_CancelledContextStopsBatch(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "alpha.txt", "content")

	scanner := &fakeScanner{files: []domain.SourceFile{file}}
	o := newTestOrchestrator(scanner, &fakeExtractor{}, &recordingSink{name: "x"}, newMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, defaultOpts())
	assert.ErrorIs(t, err, context.Canceled)
}
