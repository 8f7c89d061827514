package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultConceptCap bounds the number of concepts a DKB may accumulate.
// Overflow is dropped silently; the cap exists to keep the rendered
// context block bounded.
const DefaultConceptCap = 50

// DayKnowledgeBase is the per-day, per-topic record of sanctioned knowledge.
// Topic and subtasks are fixed at creation; concepts grow append-only as
// answers are accepted. The cached embedding covers the full rendered text
// of the record and is invalidated whenever concepts change.
type DayKnowledgeBase struct {
	Topic          string
	Subtasks       []string
	Concepts       []string
	Embedding      []float32
	EmbeddingDirty bool
	CreatedAt      time.Time
}

// NewDayKnowledgeBase creates a new DayKnowledgeBase instance
func NewDayKnowledgeBase(topic string, subtasks []string, createdAt time.Time) *DayKnowledgeBase {
	return &DayKnowledgeBase{
		Topic:          topic,
		Subtasks:       append([]string(nil), subtasks...),
		Concepts:       nil,
		Embedding:      nil,
		EmbeddingDirty: true,
		CreatedAt:      createdAt,
	}
}

// NormalizeTopic produces the store key for a topic string.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// AddConcepts appends new concepts, deduplicating case-insensitively against
// both existing entries and the batch itself, up to cap. Returns the number
// of concepts actually added. A positive return means the cached embedding
// no longer matches the record and is marked dirty.
func (d *DayKnowledgeBase) AddConcepts(concepts []string, cap int) int {
	if cap <= 0 {
		cap = DefaultConceptCap
	}

	seen := make(map[string]struct{}, len(d.Concepts))
	for _, c := range d.Concepts {
		seen[strings.ToLower(c)] = struct{}{}
	}

	added := 0
	for _, c := range concepts {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if len(d.Concepts) >= cap {
			break
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		d.Concepts = append(d.Concepts, c)
		added++
	}

	if added > 0 {
		d.EmbeddingDirty = true
	}
	return added
}

// EmbeddingText renders the record into the text the cached embedding covers.
func (d *DayKnowledgeBase) EmbeddingText() string {
	var parts []string

	if d.Topic != "" {
		parts = append(parts, d.Topic)
	}
	if len(d.Subtasks) > 0 {
		parts = append(parts, strings.Join(d.Subtasks, ", "))
	}
	if len(d.Concepts) > 0 {
		parts = append(parts, strings.Join(d.Concepts, ", "))
	}

	return strings.Join(parts, "\n\n")
}

// ValidateDayKnowledgeBase validates a DayKnowledgeBase instance
func ValidateDayKnowledgeBase(d *DayKnowledgeBase) error {
	if d == nil {
		return fmt.Errorf("day knowledge base cannot be nil")
	}

	if strings.TrimSpace(d.Topic) == "" {
		return fmt.Errorf("day knowledge base Topic is required")
	}

	if !d.EmbeddingDirty && d.Embedding == nil {
		return fmt.Errorf("day knowledge base marked clean without a cached embedding")
	}

	return nil
}
