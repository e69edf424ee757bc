package driven

import (
	"context"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

// Scanner enumerates candidate source files in an input directory.
type Scanner interface {
	// Scan walks dir and returns files with a recognised extension,
	// in deterministic (path-sorted) order.
	Scan(ctx context.Context, dir string) ([]domain.SourceFile, error)
}
