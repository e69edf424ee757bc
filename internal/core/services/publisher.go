package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// Publisher fans a document's chunk set out to every configured sink.
// Sinks are pluggable: adding an output format means registering another
// driven.ChunkSink here, chunking logic is never touched.
type Publisher struct {
	sinks []driven.ChunkSink
}

// NewPublisher creates a publisher over the given sinks.
// Sinks run in the order provided.
func NewPublisher(sinks ...driven.ChunkSink) *Publisher {
	return &Publisher{sinks: sinks}
}

// Add appends a sink.
func (p *Publisher) Add(sink driven.ChunkSink) {
	p.sinks = append(p.sinks, sink)
}

// SinkNames returns the registered sink names in order.
func (p *Publisher) SinkNames() []string {
	names := make([]string, len(p.sinks))
	for i, s := range p.sinks {
		names[i] = s.Name()
	}
	return names
}

// Publish writes the document's chunk set to every sink not listed in
// skip. Each sink applies its update atomically per document; on the
// first sink failure Publish stops and returns an error wrapping
// domain.ErrSynchronization, leaving the document unrecorded so the next
// run reprocesses it and re-aligns all sinks.
func (p *Publisher) Publish(
	ctx context.Context,
	doc *domain.Document,
	text *domain.ExtractedText,
	chunks []domain.Chunk,
	skip []string,
) error {
	if doc == nil || text == nil {
		return fmt.Errorf("%w: nil document or text", domain.ErrInvalidInput)
	}

	for _, sink := range p.sinks {
		if slices.Contains(skip, sink.Name()) {
			logger.Debug("Sink %s skipped for %s", sink.Name(), doc.Name)
			continue
		}
		if err := sink.Publish(ctx, doc, text, chunks); err != nil {
			return fmt.Errorf("%w: sink %s for %s: %w", domain.ErrSynchronization, sink.Name(), doc.Name, err)
		}
		logger.Debug("Sink %s published %d chunks for %s", sink.Name(), len(chunks), doc.Name)
	}
	return nil
}
