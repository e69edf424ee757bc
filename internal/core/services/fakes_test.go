package services

import (
	"context"
	"sort"
	"sync"

	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
)

// memoryStore is an in-memory ProcessedStore for tests.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]domain.ProcessRecord

	getErr  error
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]domain.ProcessRecord)}
}

func (m *memoryStore) Get(_ context.Context, name string) (*domain.ProcessRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.records[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *memoryStore) Save(_ context.Context, record domain.ProcessRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[record.Name] = record
	return nil
}

func (m *memoryStore) List(_ context.Context) ([]domain.ProcessRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ProcessRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, name)
	return nil
}

// fakeScanner returns a fixed file list.
type fakeScanner struct {
	files []domain.SourceFile
	err   error
}

func (f *fakeScanner) Scan(context.Context, string) ([]domain.SourceFile, error) {
	return f.files, f.err
}

// fakeExtractor returns canned text keyed by path.
type fakeExtractor struct {
	extensions []string
	texts      map[string]*domain.ExtractedText
	errs       map[string]error
}

func (f *fakeExtractor) Extensions() []string { return f.extensions }

func (f *fakeExtractor) Extract(_ context.Context, path string) (*domain.ExtractedText, error) {
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if text, ok := f.texts[path]; ok {
		return text, nil
	}
	return nil, domain.ErrExtraction
}

// recordingSink captures publications, optionally failing.
type recordingSink struct {
	name      string
	err       error
	published []publication
}

type publication struct {
	doc    *domain.Document
	chunks []domain.Chunk
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, doc *domain.Document, _ *domain.ExtractedText, chunks []domain.Chunk) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, publication{doc: doc, chunks: chunks})
	return nil
}

// fakeChunkSource serves a fixed chunk list.
type fakeChunkSource struct {
	chunks []domain.Chunk
	err    error
}

func (f *fakeChunkSource) LoadChunks(context.Context) ([]domain.Chunk, error) {
	return f.chunks, f.err
}

// fakeLLM returns a canned generation and records prompts.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

func (f *fakeLLM) Ping(context.Context) error { return nil }
