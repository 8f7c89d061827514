package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/daywise-ai/daywise/internal/domain"
	"github.com/daywise-ai/daywise/internal/store"
	"github.com/daywise-ai/daywise/internal/telemetry"
)

// MentorConfig controls the answer path of the orchestrator.
type MentorConfig struct {
	ModelTimeout time.Duration
	MaxTokens    int
	Temperature  float32
}

// DefaultMentorConfig returns the default orchestrator configuration.
func DefaultMentorConfig() MentorConfig {
	return MentorConfig{
		ModelTimeout: 30 * time.Second,
		MaxTokens:    600,
		Temperature:  0.4,
	}
}

// AskInput is the mentor question request.
type AskInput struct {
	Question string
	Topic    string
	Subtasks []string
}

// AskOutput is the mentor response. Exactly one of the refusal fields or
// Response is populated; the handler serializes it as-is.
type AskOutput struct {
	Refused       bool   `json:"refused"`
	Reason        string `json:"reason,omitempty"`
	Message       string `json:"message,omitempty"`
	Response      string `json:"response,omitempty"`
	ConceptsAdded int    `json:"concepts_added,omitempty"`
}

const mentorSystemPrompt = `You are a patient daily-learning mentor.
Answer only from the context above. If the context does not cover the question, say what the learner should work through first instead of answering from outside it.
Keep answers concise and concrete.`

// MentorService is the per-request orchestrator: it rephrases and gates the
// question, builds the context, makes a single model attempt, and expands
// the day's knowledge base from the accepted answer. Every request produces
// a well-formed response; once the gates admit a question, a model failure
// falls back to a deterministic mock answer rather than surfacing.
type MentorService struct {
	gate      *ScopeGate
	completer Completer
	extractor *ConceptExtractor
	store     *store.DKBStore
	cfg       MentorConfig
}

// NewMentorService creates a new MentorService instance. A nil completer
// means every admitted question gets the mock answer.
func NewMentorService(gate *ScopeGate, completer Completer, extractor *ConceptExtractor, dkbStore *store.DKBStore, cfg MentorConfig) *MentorService {
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = DefaultMentorConfig().ModelTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMentorConfig().MaxTokens
	}
	return &MentorService{
		gate:      gate,
		completer: completer,
		extractor: extractor,
		store:     dkbStore,
		cfg:       cfg,
	}
}

// Ask processes one mentor question end to end.
func (s *MentorService) Ask(ctx context.Context, input AskInput) (*AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if strings.TrimSpace(input.Topic) == "" {
		return nil, domain.ErrEmptyTopic
	}

	ctx, span := telemetry.StartSpan(ctx, "mentor.ask", telemetry.SpanAttributes{
		Topic:     input.Topic,
		Operation: "ask",
	})
	defer span.End()

	decision := s.gate.Decide(ctx, input.Question, input.Topic, input.Subtasks)
	if !decision.Admitted() {
		telemetry.AddBreadcrumb(ctx, "scope_gate", "question refused: "+decision.Reason)
		return &AskOutput{
			Refused: true,
			Reason:  decision.Reason,
			Message: decision.Message,
		}, nil
	}

	answer := s.answer(ctx, decision)

	// Expansion runs against whatever answer we return, mock included:
	// the learner saw it, so its concepts are sanctioned.
	concepts := s.extractor.Extract(ctx, answer, input.Topic)
	dkb := s.store.GetOrCreate(input.Topic, input.Subtasks)
	added := s.store.Expand(dkb, concepts)
	s.store.SetLastAnswer(input.Topic, answer)

	return &AskOutput{
		Response:      answer,
		ConceptsAdded: added,
	}, nil
}

// answer makes the single model attempt. The raw question is never sent
// alone: the prompt always carries the context block with the
// answer-only-from-context instruction.
func (s *MentorService) answer(ctx context.Context, decision domain.ScopeDecision) string {
	if s.completer == nil {
		return mockAnswer(decision)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()

	userPrompt := decision.Context + "\n\nQuestion: " + decision.Question

	answer, err := s.completer.Complete(callCtx, mentorSystemPrompt, userPrompt, s.cfg.MaxTokens, s.cfg.Temperature)
	if err != nil {
		log.Printf("mentor model call failed, serving mock answer: %v", err)
		telemetry.AddBreadcrumb(ctx, "mentor", "model unavailable, served mock answer")
		return mockAnswer(decision)
	}
	if strings.TrimSpace(answer) == "" {
		return mockAnswer(decision)
	}
	return answer
}

// mockAnswer is the deterministic fallback served when the model is
// unavailable after the gates have admitted the question.
func mockAnswer(decision domain.ScopeDecision) string {
	topic := topicFromContext(decision.Context)
	if topic == "" {
		topic = "today's topic"
	}
	return fmt.Sprintf(
		"Let's reason through this from what you've covered on %s so far. "+
			"Start by restating the question in your own words, then walk the listed subtasks one at a time and note where the question touches each. "+
			"Once you can point at the subtask it belongs to, the answer usually follows from the concepts you've already collected.",
		topic,
	)
}

// topicFromContext pulls the topic line back out of a rendered context block.
func topicFromContext(contextText string) string {
	for _, line := range strings.Split(contextText, "\n") {
		if rest, ok := strings.CutPrefix(line, "Topic: "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
