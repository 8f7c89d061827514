package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/daywise-ai/daywise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder returns a fixed vector and counts provider calls.
type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestDKBStore_GetOrCreate_Idempotent(t *testing.T) {
	s := NewDKBStore(&countingEmbedder{}, Options{})

	a := s.GetOrCreate("Binary Search Trees", []string{"insertion", "deletion"})
	b := s.GetOrCreate("  binary search trees ", nil)

	assert.Same(t, a, b)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"insertion", "deletion"}, a.Subtasks)
}

func TestDKBStore_Expand_EmptyIsNoOp(t *testing.T) {
	s := NewDKBStore(&countingEmbedder{}, Options{})
	dkb := s.GetOrCreate("Graphs", nil)

	ctx := context.Background()
	_, err := s.Embedding(ctx, dkb)
	require.NoError(t, err)
	require.False(t, dkb.EmbeddingDirty)

	added := s.Expand(dkb, nil)

	assert.Equal(t, 0, added)
	assert.Empty(t, dkb.Concepts)
	assert.False(t, dkb.EmbeddingDirty)
}

func TestDKBStore_Expand_DedupsCaseInsensitively(t *testing.T) {
	s := NewDKBStore(&countingEmbedder{}, Options{})
	dkb := s.GetOrCreate("Graphs", nil)

	added := s.Expand(dkb, []string{"BFS", "bfs", "adjacency list", "BFS"})

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"BFS", "adjacency list"}, dkb.Concepts)
	assert.True(t, dkb.EmbeddingDirty)
}

func TestDKBStore_Expand_HonorsConceptCap(t *testing.T) {
	s := NewDKBStore(&countingEmbedder{}, Options{ConceptCap: 3})
	dkb := s.GetOrCreate("Graphs", nil)

	concepts := make([]string, 10)
	for i := range concepts {
		concepts[i] = fmt.Sprintf("concept %d", i)
	}
	added := s.Expand(dkb, concepts)

	assert.Equal(t, 3, added)
	assert.Len(t, dkb.Concepts, 3)
}

func TestDKBStore_Embedding_RecomputesOnlyWhenDirty(t *testing.T) {
	embedder := &countingEmbedder{}
	s := NewDKBStore(embedder, Options{})
	dkb := s.GetOrCreate("Sorting", []string{"quicksort"})
	ctx := context.Background()

	_, err := s.Embedding(ctx, dkb)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)
	assert.False(t, dkb.EmbeddingDirty)

	// Clean: no further provider calls.
	_, err = s.Embedding(ctx, dkb)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)

	// Dirty after expand: exactly one more call.
	s.Expand(dkb, []string{"pivot"})
	assert.True(t, dkb.EmbeddingDirty)

	_, err = s.Embedding(ctx, dkb)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls)

	_, err = s.Embedding(ctx, dkb)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls)
}

func TestDKBStore_Embedding_SharedCacheAcrossDKBs(t *testing.T) {
	embedder := &countingEmbedder{}
	s := NewDKBStore(embedder, Options{})
	ctx := context.Background()

	a := s.GetOrCreate("Recursion", nil)
	_, err := s.Embedding(ctx, a)
	require.NoError(t, err)

	// Same rendered text after reset: served from the shared cache.
	s.Reset("Recursion")
	b := s.GetOrCreate("Recursion", nil)
	_, err = s.Embedding(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls)
}

func TestDKBStore_Embedding_ProviderFailure(t *testing.T) {
	embedder := &countingEmbedder{err: errors.New("connection refused")}
	s := NewDKBStore(embedder, Options{})
	dkb := s.GetOrCreate("Sorting", nil)

	_, err := s.Embedding(context.Background(), dkb)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUnavailable, domainErr.Code)
	assert.True(t, dkb.EmbeddingDirty)
}

func TestDKBStore_Embedding_NoEmbedder(t *testing.T) {
	s := NewDKBStore(nil, Options{})
	dkb := s.GetOrCreate("Sorting", nil)

	_, err := s.Embedding(context.Background(), dkb)

	assert.Error(t, err)
}

func TestDKBStore_Reset_DeletesAndRecreatesEmpty(t *testing.T) {
	s := NewDKBStore(&countingEmbedder{}, Options{})
	dkb := s.GetOrCreate("Binary Search Trees", []string{"insertion"})
	s.Expand(dkb, []string{"rotation", "balance factor"})
	s.SetLastAnswer("Binary Search Trees", "an answer")

	s.Reset("Binary Search Trees")

	assert.Equal(t, 0, s.Len())
	_, ok := s.LastAnswer("Binary Search Trees")
	assert.False(t, ok)

	fresh := s.GetOrCreate("Binary Search Trees", []string{"insertion"})
	assert.Empty(t, fresh.Concepts)
}

func TestDKBStore_EvictsOldestAtCapacity(t *testing.T) {
	s := NewDKBStore(&countingEmbedder{}, Options{Capacity: 2})

	s.GetOrCreate("day one", nil)
	s.GetOrCreate("day two", nil)
	s.GetOrCreate("day three", nil)

	assert.Equal(t, 2, s.Len())

	// Oldest evicted; recreating it yields a fresh record.
	recreated := s.GetOrCreate("day one", nil)
	assert.Empty(t, recreated.Concepts)
}

func TestDKBStore_EmbedText_CachesByText(t *testing.T) {
	embedder := &countingEmbedder{}
	s := NewDKBStore(embedder, Options{})
	ctx := context.Background()

	_, err := s.EmbedText(ctx, "how do rotations work?")
	require.NoError(t, err)
	_, err = s.EmbedText(ctx, "how do rotations work?")
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls)
}

func TestDKBStore_EmbedCacheEviction(t *testing.T) {
	embedder := &countingEmbedder{}
	s := NewDKBStore(embedder, Options{CacheCapacity: 2})
	ctx := context.Background()

	_, _ = s.EmbedText(ctx, "one")
	_, _ = s.EmbedText(ctx, "two")
	_, _ = s.EmbedText(ctx, "three")
	require.Equal(t, 3, embedder.calls)

	// "one" was evicted oldest-first; re-embedding it hits the provider.
	_, _ = s.EmbedText(ctx, "one")
	assert.Equal(t, 4, embedder.calls)

	// "three" is still cached.
	_, _ = s.EmbedText(ctx, "three")
	assert.Equal(t, 4, embedder.calls)
}

func TestDKBStore_SetLastAnswer_RequiresLiveDKB(t *testing.T) {
	s := NewDKBStore(&countingEmbedder{}, Options{})

	s.SetLastAnswer("never created", "answer")

	_, ok := s.LastAnswer("never created")
	assert.False(t, ok)
}
