package driven

import (
	"context"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

// ProcessedStore persists which documents have been processed and with
// what fingerprint. State must survive process restarts.
//
// Implementations treat a corrupt or missing record as absent (returning
// domain.ErrNotFound), never as a fatal error: the system favours
// reprocessing over silently skipping.
type ProcessedStore interface {
	// Get retrieves the record for a document name.
	// Returns domain.ErrNotFound when the document is unseen.
	Get(ctx context.Context, name string) (*domain.ProcessRecord, error)

	// Save stores or replaces a record.
	Save(ctx context.Context, record domain.ProcessRecord) error

	// List returns all records, ordered by name.
	List(ctx context.Context) ([]domain.ProcessRecord, error)

	// Delete removes a record. Deleting an unseen name is not an error.
	Delete(ctx context.Context, name string) error
}
