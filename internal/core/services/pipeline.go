package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.Pipeline = (*Orchestrator)(nil)

// Orchestrator coordinates the incremental processing pipeline over a
// batch of source files. Documents are processed independently: one
// document's failure never aborts the batch.
type Orchestrator struct {
	scanner    driven.Scanner
	extractors []driven.Extractor
	chunker    driven.Chunker
	publisher  *Publisher
	registry   *Registry
}

// NewOrchestrator creates a pipeline orchestrator.
func NewOrchestrator(
	scanner driven.Scanner,
	extractors []driven.Extractor,
	chunker driven.Chunker,
	publisher *Publisher,
	registry *Registry,
) *Orchestrator {
	return &Orchestrator{
		scanner:    scanner,
		extractors: extractors,
		chunker:    chunker,
		publisher:  publisher,
		registry:   registry,
	}
}

// Run executes one batch: scan, filter unchanged documents, extract,
// chunk, publish, record. Configuration and scan failures abort before
// any document is touched; everything after is isolated per document.
func (o *Orchestrator) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	start := time.Now()

	if err := domain.ValidateChunkParams(opts.ChunkSize, opts.ChunkOverlap); err != nil {
		return nil, err
	}

	logger.Section("Pipeline Run")
	logger.Info("Scanning %s", opts.InputDir)

	files, err := o.scanner.Scan(ctx, opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", opts.InputDir, err)
	}

	report := &domain.RunReport{Scanned: len(files)}
	logger.Info("Found %d candidate files", len(files))

	// Document names drop the extension, so two sources with the same
	// stem would silently overwrite each other's artifacts. Fail the
	// later one instead.
	claimed := make(map[string]string, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := domain.NameFromPath(file.Path)
		if prev, ok := claimed[name]; ok {
			err := fmt.Errorf("%s maps to the same document name %q as %s", file.Path, name, prev)
			logger.Warn("Skipping %s: %v", file.Path, err)
			report.Add(domain.DocumentResult{
				Name:   name,
				Path:   file.Path,
				Stage:  domain.StageScanning,
				Status: domain.StatusFailed,
				Err:    err.Error(),
			})
			continue
		}
		claimed[name] = file.Path

		report.Add(o.processFile(ctx, file, opts))
	}

	report.Duration = time.Since(start)
	logger.Info("Run finished: %d processed, %d skipped, %d failed in %s",
		report.Processed, report.Skipped, report.Failed, report.Duration)
	return report, nil
}

// processFile executes one document's sub-run:
// Scanning -> {Skipping | Extracting -> Chunking -> Synchronizing -> Recording} -> Done.
func (o *Orchestrator) processFile(ctx context.Context, file domain.SourceFile, opts driving.RunOptions) domain.DocumentResult {
	name := domain.NameFromPath(file.Path)
	result := domain.DocumentResult{
		Name:  name,
		Path:  file.Path,
		Stage: domain.StageScanning,
	}

	notify := func(stage domain.Stage, err error) {
		result.Stage = stage
		if opts.Progress != nil {
			opts.Progress(domain.Progress{Name: name, Stage: stage, Err: err})
		}
	}
	fail := func(stage domain.Stage, err error) domain.DocumentResult {
		logger.Warn("Document %s failed at %s: %v", name, stage, err)
		notify(stage, err)
		result.Status = domain.StatusFailed
		result.Err = err.Error()
		return result
	}

	notify(domain.StageScanning, nil)

	fp, err := domain.ComputeFingerprint(file.Path)
	if err != nil {
		return fail(domain.StageScanning, err)
	}
	doc := &domain.Document{
		Name:        name,
		Path:        file.Path,
		Source:      filepath.Base(file.Path),
		Fingerprint: fp,
	}

	if !o.registry.ShouldProcess(ctx, doc, opts.Force) {
		logger.Info("Skipping %s - already processed", doc.Source)
		notify(domain.StageDone, nil)
		result.Status = domain.StatusSkipped
		return result
	}

	notify(domain.StageExtracting, nil)
	extractor := o.extractorFor(file.Path)
	if extractor == nil {
		return fail(domain.StageExtracting, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(file.Path)))
	}
	text, err := extractor.Extract(ctx, file.Path)
	if err != nil {
		return fail(domain.StageExtracting, err)
	}
	result.Pages = text.Pages

	notify(domain.StageChunking, nil)
	chunks, err := o.chunker.Chunk(doc.Name, text.Body, opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return fail(domain.StageChunking, err)
	}
	result.Chunks = len(chunks)

	notify(domain.StageSynchronizing, nil)
	if err := o.publisher.Publish(ctx, doc, text, chunks, opts.SkipSinks); err != nil {
		return fail(domain.StageSynchronizing, err)
	}

	notify(domain.StageRecording, nil)
	if err := o.registry.Record(ctx, doc, text.Pages, len(chunks)); err != nil {
		return fail(domain.StageRecording, err)
	}

	logger.Info("Processed %s: %d pages, %d chunks", doc.Source, text.Pages, len(chunks))
	notify(domain.StageDone, nil)
	result.Status = domain.StatusProcessed
	return result
}

// extractorFor selects the extractor handling the file's extension.
func (o *Orchestrator) extractorFor(path string) driven.Extractor {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range o.extractors {
		for _, supported := range e.Extensions() {
			if supported == ext {
				return e
			}
		}
	}
	return nil
}
