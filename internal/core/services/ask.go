package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.Asker = (*AskService)(nil)

// DefaultContextChunks is how many chunks are supplied to the model.
const DefaultContextChunks = 3

const answerPromptTemplate = `Use the following context to answer the question. If the context does not contain the answer, say you do not know.

Context:
%s

Question: %s

Answer:`

// AskService answers questions by retrieving relevant chunks and
// prompting an LLM with them as context.
type AskService struct {
	searcher driving.Searcher
	llm      driven.LLMService
	chunks   int
}

// NewAskService creates an ask service. contextChunks caps how many
// retrieved chunks are included in the prompt; zero means the default.
func NewAskService(searcher driving.Searcher, llm driven.LLMService, contextChunks int) *AskService {
	if contextChunks <= 0 {
		contextChunks = DefaultContextChunks
	}
	return &AskService{searcher: searcher, llm: llm, chunks: contextChunks}
}

// Ask retrieves the best-matching chunks for the question and generates
// an answer grounded in them. A question with no matching chunks
// returns ErrNotFound rather than an unguided hallucination.
func (s *AskService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	results, err := s.searcher.Search(ctx, question, s.chunks)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no chunks match the question", domain.ErrNotFound)
	}
	logger.Debug("Using %d chunks as context", len(results))

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s, chunk %d]\n%s", r.Chunk.DocName, r.Chunk.Index, r.Chunk.Text)
	}

	prompt := fmt.Sprintf(answerPromptTemplate, b.String(), question)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.2})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: results,
		Model:   s.llm.ModelName(),
	}, nil
}
