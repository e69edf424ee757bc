package driving

import (
	"context"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

// Asker answers questions using published chunks as context.
type Asker interface {
	// Ask retrieves the most relevant chunks for the question and
	// generates an answer grounded in them.
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}
