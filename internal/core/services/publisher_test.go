package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkforge/chunkforge/internal/core/domain"
)

func publishArgs() (*domain.Document, *domain.ExtractedText, []domain.Chunk) {
	doc := testDoc("alpha")
	text := &domain.ExtractedText{Body: "alpha body", Title: "Alpha"}
	chunks := []domain.Chunk{
		{DocName: "alpha", Index: 0, Start: 0, End: 5, Text: "alpha"},
		{DocName: "alpha", Index: 1, Start: 4, End: 10, Text: "a body"},
	}
	return doc, text, chunks
}

func TestPublish_FansOutToAllSinks(t *testing.T) {
	first := &recordingSink{name: "docstore"}
	second := &recordingSink{name: "jsonl"}
	p := NewPublisher(first, second)

	doc, text, chunks := publishArgs()
	require.NoError(t, p.Publish(context.Background(), doc, text, chunks, nil))

	require.Len(t, first.published, 1)
	require.Len(t, second.published, 1)
	assert.Equal(t, chunks, first.published[0].chunks)
}

func TestPublish_SkipsNamedSinks(t *testing.T) {
	first := &recordingSink{name: "docstore"}
	second := &recordingSink{name: "collection"}
	p := NewPublisher(first, second)

	doc, text, chunks := publishArgs()
	require.NoError(t, p.Publish(context.Background(), doc, text, chunks, []string{"collection"}))

	assert.Len(t, first.published, 1)
	assert.Empty(t, second.published)
}

func TestPublish_StopsOnFirstFailure(t *testing.T) {
	first := &recordingSink{name: "docstore", err: errors.New("disk full")}
	second := &recordingSink{name: "jsonl"}
	p := NewPublisher(first, second)

	doc, text, chunks := publishArgs()
	err := p.Publish(context.Background(), doc, text, chunks, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSynchronization)
	assert.Contains(t, err.Error(), "docstore")
	assert.Contains(t, err.Error(), "alpha")
	assert.Empty(t, second.published)
}

func TestPublish_NilDocument(t *testing.T) {
	p := NewPublisher(&recordingSink{name: "docstore"})

	err := p.Publish(context.Background(), nil, &domain.ExtractedText{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSinkNames(t *testing.T) {
	p := NewPublisher(&recordingSink{name: "docstore"}, &recordingSink{name: "jsonl"})
	p.Add(&recordingSink{name: "collection"})

	assert.Equal(t, []string{"docstore", "jsonl", "collection"}, p.SinkNames())
}
