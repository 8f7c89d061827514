package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/daywise-ai/daywise/internal/domain"
	"github.com/daywise-ai/daywise/internal/store"
)

// ScopeConfig controls gate thresholds. The defaults are empirically tuned
// against the ada-002 embedding model and belong in config, not code.
type ScopeConfig struct {
	Threshold         float64       // minimum cosine similarity to admit
	MinContextWords   int           // context floor below which no answer is attempted
	OverlapMinWordLen int           // shortest question word considered by the overlap gate
	EmbedTimeout      time.Duration // bound on the semantic gate's embedding calls
}

// DefaultScopeConfig returns the default gate configuration.
func DefaultScopeConfig() ScopeConfig {
	return ScopeConfig{
		Threshold:         0.22,
		MinContextWords:   8,
		OverlapMinWordLen: 3,
		EmbedTimeout:      15 * time.Second,
	}
}

// ScopeGate decides whether a question may be answered within the day's
// sanctioned scope. Stages run in a strict order and any stage may
// short-circuit to a refusal, skipping everything after it:
//
//	rephrase -> denylist pre-filter -> semantic gate -> context floor -> overlap gate
//
// A refusal is an expected outcome, not an error, so Decide never fails:
// embedding infrastructure failure degrades the semantic gate to
// "admit iff topic non-empty" rather than surfacing.
type ScopeGate struct {
	store   *store.DKBStore
	builder *ContextBuilder
	cfg     ScopeConfig
}

// NewScopeGate creates a new ScopeGate instance
func NewScopeGate(dkbStore *store.DKBStore, builder *ContextBuilder, cfg ScopeConfig) *ScopeGate {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultScopeConfig().Threshold
	}
	if cfg.MinContextWords <= 0 {
		cfg.MinContextWords = DefaultScopeConfig().MinContextWords
	}
	if cfg.OverlapMinWordLen <= 0 {
		cfg.OverlapMinWordLen = DefaultScopeConfig().OverlapMinWordLen
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = DefaultScopeConfig().EmbedTimeout
	}
	return &ScopeGate{
		store:   dkbStore,
		builder: builder,
		cfg:     cfg,
	}
}

// Decide runs the full gate sequence for one question.
//
// The semantic gate compares the rephrased question while the overlap gate
// checks the original one. The asymmetry is deliberate: rephrasing anchors
// vague questions for the embedding comparison, but the lexical overlap
// check must not be satisfied by words the rewrite itself injected. The one
// exception: when the rewrite fired, the original was wholly deictic and
// carries no topical words at all, so the overlap gate checks the rephrased
// form instead of refusing on missing signal.
func (g *ScopeGate) Decide(ctx context.Context, question, topic string, subtasks []string) domain.ScopeDecision {
	rephrased, rewritten := RephraseQuestion(question, topic, subtasks)

	// Pre-filter before anything touches the embedding provider.
	if ContainsHarmfulTerm(question) {
		return domain.RefuseDecision(domain.ScopeRefuseHarmful)
	}

	dkb := g.store.GetOrCreate(topic, subtasks)

	if admitted, decided := g.semanticGate(ctx, rephrased, topic, dkb); decided && !admitted {
		return domain.RefuseDecision(domain.ScopeRefuseOutOfScope)
	}

	contextText := g.builder.Build(dkb)
	if contextText == "" || WordCount(contextText) < g.cfg.MinContextWords {
		return domain.RefuseDecision(domain.ScopeRefuseNoContext)
	}

	// Lexical overlap catches embedding false positives before a model call.
	overlapSource := question
	if rewritten {
		overlapSource = rephrased
	}
	if !g.overlaps(overlapSource, contextText) {
		return domain.RefuseDecision(domain.ScopeRefuseOutOfScope)
	}

	return domain.AdmitDecision(rephrased, contextText)
}

// semanticGate returns (admitted, decided). decided is always true; it is
// split out so the degraded path reads explicitly.
func (g *ScopeGate) semanticGate(ctx context.Context, rephrased, topic string, dkb *domain.DayKnowledgeBase) (bool, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.EmbedTimeout)
	defer cancel()

	questionVec, qErr := g.store.EmbedText(ctx, rephrased)
	var dkbVec []float32
	var dErr error
	if qErr == nil {
		dkbVec, dErr = g.store.Embedding(ctx, dkb)
	}

	if qErr != nil || dErr != nil {
		// Fail open on infrastructure failure only: with no similarity
		// signal, a non-empty topic is the best available scope evidence.
		err := qErr
		if err == nil {
			err = dErr
		}
		log.Printf("semantic gate degraded for topic %q: %v", topic, err)
		return strings.TrimSpace(topic) != "", true
	}

	sim := domain.CosineSimilarity(questionVec, dkbVec)
	return sim >= g.cfg.Threshold, true
}

// overlaps reports whether any sufficiently long word of the original
// question substring-matches a context word, in either direction.
func (g *ScopeGate) overlaps(question, contextText string) bool {
	contextWords := strings.Fields(strings.ToLower(contextText))

	for _, qw := range strings.Fields(strings.ToLower(question)) {
		qw = strings.Trim(qw, ".,!?;:\"'()[]")
		if len(qw) < g.cfg.OverlapMinWordLen {
			continue
		}
		for _, cw := range contextWords {
			cw = strings.Trim(cw, ".,!?;:\"'()[]-=")
			if len(cw) < g.cfg.OverlapMinWordLen {
				continue
			}
			if strings.Contains(cw, qw) || strings.Contains(qw, cw) {
				return true
			}
		}
	}
	return false
}
