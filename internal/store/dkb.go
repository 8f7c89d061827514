// Package store holds the process-local mutable state of the mentor engine:
// the per-day knowledge bases, the shared text→embedding cache, and the
// last accepted answer per topic. All state is deliberately in-memory and
// reset at day boundaries; persistence is an external concern.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/daywise-ai/daywise/internal/domain"
)

// Embedder defines the interface for generating embeddings
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Options controls store capacities. Zero values fall back to defaults.
type Options struct {
	Capacity      int // max concurrent DKBs
	CacheCapacity int // max shared embedding cache entries
	ConceptCap    int // max concepts per DKB
}

const (
	defaultCapacity      = 16
	defaultCacheCapacity = 256
)

// DKBStore owns every DayKnowledgeBase for the process. It is safe for
// concurrent use; the mutex also covers the dirty-flag-check-then-recompute
// sequence in Embedding, which is not atomic on its own.
type DKBStore struct {
	mu       sync.Mutex
	embedder Embedder
	opts     Options

	entries map[string]*domain.DayKnowledgeBase
	order   []string // topic keys in insertion order, oldest first

	cache      map[string][]float32 // shared text -> embedding cache
	cacheOrder []string

	lastAnswers map[string]string // topic key -> last accepted answer

	now func() time.Time
}

// NewDKBStore creates a new DKBStore instance
func NewDKBStore(embedder Embedder, opts Options) *DKBStore {
	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}
	if opts.CacheCapacity <= 0 {
		opts.CacheCapacity = defaultCacheCapacity
	}
	if opts.ConceptCap <= 0 {
		opts.ConceptCap = domain.DefaultConceptCap
	}
	return &DKBStore{
		embedder:    embedder,
		opts:        opts,
		entries:     make(map[string]*domain.DayKnowledgeBase),
		cache:       make(map[string][]float32),
		lastAnswers: make(map[string]string),
		now:         time.Now,
	}
}

// GetOrCreate returns the DKB for the normalized topic, creating it lazily
// on first access. Repeated calls for the same topic return the same record;
// subtasks are fixed by the first call.
func (s *DKBStore) GetOrCreate(topic string, subtasks []string) *domain.DayKnowledgeBase {
	key := domain.NormalizeTopic(topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	if dkb, ok := s.entries[key]; ok {
		return dkb
	}

	for len(s.entries) >= s.opts.Capacity && len(s.order) > 0 {
		s.evictOldestLocked()
	}

	dkb := domain.NewDayKnowledgeBase(topic, subtasks, s.now().UTC())
	s.entries[key] = dkb
	s.order = append(s.order, key)
	return dkb
}

// Expand appends concepts to the DKB, deduplicating case-insensitively and
// honoring the concept cap. Empty input is a no-op that leaves the dirty
// flag untouched. Returns the number of concepts added.
func (s *DKBStore) Expand(dkb *domain.DayKnowledgeBase, concepts []string) int {
	if dkb == nil || len(concepts) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dkb.AddConcepts(concepts, s.opts.ConceptCap)
}

// Embedding returns the DKB's embedding, recomputing through the embedder
// only when the cached vector is dirty or absent. The shared text cache is
// consulted first so identical text across DKBs embeds once.
//
// The lock is held across the provider call: correctness of the
// check-then-recompute sequence beats latency here, and the store only ever
// sees a handful of warm DKBs.
func (s *DKBStore) Embedding(ctx context.Context, dkb *domain.DayKnowledgeBase) ([]float32, error) {
	if dkb == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !dkb.EmbeddingDirty && dkb.Embedding != nil {
		return dkb.Embedding, nil
	}

	text := dkb.EmbeddingText()
	if cached, ok := s.cache[text]; ok {
		dkb.Embedding = cached
		dkb.EmbeddingDirty = false
		return cached, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "embedding provider unavailable", err)
	}

	s.putCacheLocked(text, embedding)
	dkb.Embedding = embedding
	dkb.EmbeddingDirty = false
	return embedding, nil
}

// EmbedText embeds arbitrary text through the shared cache. Used for
// question embeddings so repeated questions don't re-hit the provider.
func (s *DKBStore) EmbedText(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[text]; ok {
		return cached, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "embedding provider unavailable", err)
	}

	s.putCacheLocked(text, embedding)
	return embedding, nil
}

// Reset hard-deletes the DKB for the topic along with its last answer.
// Called at day boundaries so concepts never leak across days, even when
// the topic string is reused.
func (s *DKBStore) Reset(topic string) {
	key := domain.NormalizeTopic(topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteLocked(key)
}

// SetLastAnswer records the last accepted answer for a topic. Bounded by
// the DKB capacity: answers for evicted topics are dropped with them.
func (s *DKBStore) SetLastAnswer(topic, answer string) {
	key := domain.NormalizeTopic(topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return
	}
	s.lastAnswers[key] = answer
}

// LastAnswer returns the last accepted answer for a topic, if any.
func (s *DKBStore) LastAnswer(topic string) (string, bool) {
	key := domain.NormalizeTopic(topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	answer, ok := s.lastAnswers[key]
	return answer, ok
}

// Len returns the number of live DKBs.
func (s *DKBStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func (s *DKBStore) evictOldestLocked() {
	key := s.order[0]
	s.order = s.order[1:]
	delete(s.entries, key)
	delete(s.lastAnswers, key)
}

func (s *DKBStore) deleteLocked(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	delete(s.lastAnswers, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *DKBStore) putCacheLocked(text string, embedding []float32) {
	if _, ok := s.cache[text]; ok {
		return
	}
	for len(s.cache) >= s.opts.CacheCapacity && len(s.cacheOrder) > 0 {
		oldest := s.cacheOrder[0]
		s.cacheOrder = s.cacheOrder[1:]
		delete(s.cache, oldest)
	}
	s.cache[text] = embedding
	s.cacheOrder = append(s.cacheOrder, text)
}
