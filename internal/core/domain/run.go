package domain

import "time"

// Stage identifies a step in a document's sub-run.
type Stage string

// Sub-run stages, in execution order.
const (
	StageScanning      Stage = "scanning"
	StageExtracting    Stage = "extracting"
	StageChunking      Stage = "chunking"
	StageSynchronizing Stage = "synchronizing"
	StageRecording     Stage = "recording"
	StageDone          Stage = "done"
)

// DocStatus is the terminal status of a document's sub-run.
type DocStatus string

// Terminal document statuses.
const (
	StatusProcessed DocStatus = "processed"
	StatusSkipped   DocStatus = "skipped"
	StatusFailed    DocStatus = "failed"
)

// DocumentResult records the outcome of one document's sub-run.
type DocumentResult struct {
	// Name is the document identity.
	Name string

	// Path is the source file location.
	Path string

	// Status is the terminal status.
	Status DocStatus

	// Stage is the last stage reached. For failures it names the stage
	// that produced the error.
	Stage Stage

	// Pages and Chunks describe the produced output for processed documents.
	Pages  int
	Chunks int

	// Err is the failure reason, empty unless Status is StatusFailed.
	Err string
}

// RunReport aggregates one pipeline invocation. It is ephemeral: callers
// render it and discard it, nothing persists beyond the registry updates.
type RunReport struct {
	// Scanned is the number of candidate files found.
	Scanned int

	// Skipped counts documents whose fingerprint was unchanged.
	Skipped int

	// Processed counts documents published in this run.
	Processed int

	// Failed counts documents whose sub-run ended in StatusFailed.
	Failed int

	// Documents holds the per-document results in scan order.
	Documents []DocumentResult

	// Duration is the wall-clock time of the batch.
	Duration time.Duration
}

// Add folds a document result into the aggregate counters.
func (r *RunReport) Add(res DocumentResult) {
	r.Documents = append(r.Documents, res)
	switch res.Status {
	case StatusProcessed:
		r.Processed++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

// Progress is a structured status update emitted while a run executes.
// It replaces shared print state: callers consume it through a callback
// and render it however they like.
type Progress struct {
	// Name is the document currently in flight.
	Name string

	// Stage is the stage just entered.
	Stage Stage

	// Err is set when the document's sub-run failed.
	Err error
}

// ProgressFunc receives progress updates during a run. Implementations
// must be safe to call from the goroutine executing the run.
type ProgressFunc func(Progress)

// SearchResult is one scored chunk from a keyword search.
type SearchResult struct {
	// Chunk is the matching chunk.
	Chunk Chunk

	// Score is the term-frequency score, higher is better.
	Score float64
}
