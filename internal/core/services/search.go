package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/core/ports/driving"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// DefaultSearchLimit caps results when the caller passes no limit.
const DefaultSearchLimit = 5

var termPattern = regexp.MustCompile(`\w+`)

// SearchService provides keyword search over published chunks using
// simple term-frequency scoring. It reads whatever the per-document
// store currently holds, so results always reflect the last run.
type SearchService struct {
	source driven.ChunkSource
}

// NewSearchService creates a search service over the given chunk source.
func NewSearchService(source driven.ChunkSource) *SearchService {
	return &SearchService{source: source}
}

// Search scores every chunk by whole-word query term frequency and
// returns the top limit results, best first. An empty query returns no
// results.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	terms := termPattern.FindAllString(strings.ToLower(query), -1)
	if len(terms) == 0 {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	chunks, err := s.source.LoadChunks(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Scoring %d chunks against %d terms", len(chunks), len(terms))

	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}

	var results []domain.SearchResult
	for _, chunk := range chunks {
		text := strings.ToLower(chunk.Text)
		score := 0
		for _, p := range patterns {
			score += len(p.FindAllStringIndex(text, -1))
		}
		if score > 0 {
			results = append(results, domain.SearchResult{Chunk: chunk, Score: float64(score)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	logger.Debug("Returning %d results", len(results))
	return results, nil
}
