package cli

import (
	"bytes"
	"context"
	"os"
	"time"

	configfile "github.com/chunkforge/chunkforge/internal/adapters/driven/config/file"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
)

// fakePipeline returns a canned report and records the options it ran with.
type fakePipeline struct {
	report  *domain.RunReport
	err     error
	lastOpt driving.RunOptions
}

func (f *fakePipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	f.lastOpt = opts
	if f.err != nil {
		return nil, f.err
	}
	if f.report == nil {
		return &domain.RunReport{}, nil
	}
	return f.report, nil
}

// fakeSearcher returns canned results.
type fakeSearcher struct {
	results []domain.SearchResult
	err     error
}

func (f *fakeSearcher) Search(context.Context, string, int) ([]domain.SearchResult, error) {
	return f.results, f.err
}

// fakeAsker returns a canned answer.
type fakeAsker struct {
	answer *domain.Answer
	err    error
}

func (f *fakeAsker) Ask(context.Context, string) (*domain.Answer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

// fakeRegistry serves canned records.
type fakeRegistry struct {
	records   []domain.ProcessRecord
	err       error
	forgotten []string
}

func (f *fakeRegistry) Records(context.Context) ([]domain.ProcessRecord, error) {
	return f.records, f.err
}

func (f *fakeRegistry) Forget(_ context.Context, name string) error {
	f.forgotten = append(f.forgotten, name)
	return f.err
}

type testServices struct {
	pipeline *fakePipeline
	searcher *fakeSearcher
	asker    *fakeAsker
	registry *fakeRegistry
}

// setupTestServices swaps the production factories for fakes and wires a
// throwaway config store. The returned cleanup restores everything.
func setupTestServices() (*testServices, func()) {
	svcs := &testServices{
		pipeline: &fakePipeline{},
		searcher: &fakeSearcher{},
		asker:    &fakeAsker{},
		registry: &fakeRegistry{},
	}

	prevPipeline := newPipeline
	prevSearcher := newSearcher
	prevAsker := newAsker
	prevRegistry := newRegistry
	prevConfig := configStore

	newPipeline = func(string, string) (driving.Pipeline, func() error, error) {
		return svcs.pipeline, func() error { return nil }, nil
	}
	newSearcher = func(string) driving.Searcher { return svcs.searcher }
	newAsker = func(string) driving.Asker { return svcs.asker }
	newRegistry = func() (driving.Registry, func() error, error) {
		return svcs.registry, func() error { return nil }, nil
	}

	tmpDir, _ := os.MkdirTemp("", "chunkforge-cli-test")
	if store, err := configfile.NewConfigStore(tmpDir); err == nil {
		configStore = store
	}

	cleanup := func() {
		newPipeline = prevPipeline
		newSearcher = prevSearcher
		newAsker = prevAsker
		newRegistry = prevRegistry
		configStore = prevConfig
		_ = os.RemoveAll(tmpDir)

		// Reset flag state touched by executed commands.
		processForce = false
		processSkipCollection = false
		processChunkSize = 0
		processChunkOverlap = -1
		processOutput = ""
		searchLimit = 0
		searchOutput = ""
		askOutput = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
	return svcs, cleanup
}

// execute runs the root command with args, capturing output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleReport() *domain.RunReport {
	return &domain.RunReport{
		Scanned:   3,
		Processed: 1,
		Skipped:   1,
		Failed:    1,
		Documents: []domain.DocumentResult{
			{Name: "alpha", Status: domain.StatusProcessed, Pages: 4, Chunks: 9},
			{Name: "beta", Status: domain.StatusSkipped},
			{Name: "gamma", Status: domain.StatusFailed, Stage: domain.StageExtracting, Err: "damaged file"},
		},
		Duration: 125 * time.Millisecond,
	}
}
