package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// Ensure Registry implements the interface.
var _ driving.Registry = (*Registry)(nil)

// Registry decides whether documents need processing and records the
// outcome. It wraps a persisted store so decisions survive restarts.
type Registry struct {
	store driven.ProcessedStore
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store driven.ProcessedStore) *Registry {
	return &Registry{store: store}
}

// ShouldProcess returns true when force is set, the document is unseen,
// or its fingerprint differs from the last recorded one. Store failures
// count as unseen: the system favours reprocessing over silently skipping.
func (r *Registry) ShouldProcess(ctx context.Context, doc *domain.Document, force bool) bool {
	if force {
		return true
	}

	record, err := r.store.Get(ctx, doc.Name)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Registry lookup for %s failed (%v), reprocessing", doc.Name, err)
		}
		return true
	}

	if record.Fingerprint.Equal(doc.Fingerprint) {
		logger.Debug("Fingerprint unchanged for %s, skipping", doc.Name)
		return false
	}

	logger.Debug("Fingerprint changed for %s", doc.Name)
	return true
}

// Record persists the document's fingerprint and output shape after a
// successful publication.
func (r *Registry) Record(ctx context.Context, doc *domain.Document, pages, chunks int) error {
	record := domain.ProcessRecord{
		Name:        doc.Name,
		Path:        doc.Path,
		Fingerprint: doc.Fingerprint,
		Pages:       pages,
		Chunks:      chunks,
		ProcessedAt: time.Now().UTC(),
	}
	if err := r.store.Save(ctx, record); err != nil {
		return fmt.Errorf("recording %s: %w", doc.Name, err)
	}
	return nil
}

// Records lists everything the registry knows, ordered by name.
func (r *Registry) Records(ctx context.Context) ([]domain.ProcessRecord, error) {
	return r.store.List(ctx)
}

// Forget drops a document's record so the next run reprocesses it.
func (r *Registry) Forget(ctx context.Context, name string) error {
	return r.store.Delete(ctx, name)
}
