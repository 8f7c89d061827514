package service

import (
	"log"
	"strings"

	"github.com/daywise-ai/daywise/internal/domain"
)

const contextHeader = "=== Today's Learning Context ==="

// ContextBuilder renders a DKB into the bounded text block the model is
// instructed to answer from. Size is naturally bounded by the concept cap;
// a soft budget overflow is logged but never truncated, since a silently
// shortened context would break the "answer only from the context above"
// contract.
type ContextBuilder struct {
	softBudget int // bytes; 0 disables the overflow warning
}

// NewContextBuilder creates a new ContextBuilder instance
func NewContextBuilder(softBudget int) *ContextBuilder {
	return &ContextBuilder{softBudget: softBudget}
}

// Build renders the DKB. Returns "" when the topic is missing or blank;
// callers treat that as "no context available".
func (b *ContextBuilder) Build(dkb *domain.DayKnowledgeBase) string {
	if dkb == nil || strings.TrimSpace(dkb.Topic) == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(contextHeader)
	sb.WriteString("\nTopic: ")
	sb.WriteString(dkb.Topic)

	if len(dkb.Subtasks) > 0 {
		sb.WriteString("\nSubtasks:")
		for _, st := range dkb.Subtasks {
			sb.WriteString("\n- ")
			sb.WriteString(st)
		}
	}

	if len(dkb.Concepts) > 0 {
		sb.WriteString("\nConcepts learned so far:")
		for _, c := range dkb.Concepts {
			sb.WriteString("\n- ")
			sb.WriteString(c)
		}
	}

	out := sb.String()
	if b.softBudget > 0 && len(out) > b.softBudget {
		log.Printf("context for topic %q exceeds soft budget (%d > %d bytes)", dkb.Topic, len(out), b.softBudget)
	}
	return out
}

// WordCount counts whitespace-separated words in a context block. Used by
// the minimum-size gate.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
