package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/daywise-ai/daywise/internal/domain"
)

// DefaultMinReflectionChars is the floor below which a reflection is too
// thin to evaluate.
const DefaultMinReflectionChars = 50

const evaluationSystemPrompt = `You evaluate a learner's written reflection on today's topic. Evaluate only; do not teach, correct, or add material.
Reply with a single JSON object, nothing else:
{"understanding_level": "low|basic|good|strong", "confidence": "low|medium|high", "gaps_detected": ["..."], "recommended_action": "repeat|continue|simplify|advance"}`

// EvaluationService scores a learner reflection into a coarse verdict. The
// model call is strictly bounded and validated field by field; a malformed
// verdict never leaves this service.
type EvaluationService struct {
	completer Completer
	timeout   time.Duration
	minChars  int
}

// NewEvaluationService creates a new EvaluationService instance. A nil
// completer means every evaluation returns the default verdict.
func NewEvaluationService(completer Completer, timeout time.Duration, minChars int) *EvaluationService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if minChars <= 0 {
		minChars = DefaultMinReflectionChars
	}
	return &EvaluationService{
		completer: completer,
		timeout:   timeout,
		minChars:  minChars,
	}
}

// MinChars returns the reflection length floor.
func (s *EvaluationService) MinChars() int {
	return s.minChars
}

// Evaluate scores the reflection. Reflections below the length floor are a
// validation failure; everything past that point degrades to the default
// verdict rather than erroring, so a caller holding a verdict can always
// act on it.
func (s *EvaluationService) Evaluate(ctx context.Context, topic string, subtasks []string, reflection string) (domain.EvaluationVerdict, error) {
	if len(strings.TrimSpace(reflection)) < s.minChars {
		return domain.DefaultVerdict(), domain.ErrReflectionTooShort
	}

	if s.completer == nil {
		return domain.DefaultVerdict(), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Topic: %s\nSubtasks: %s\n\nReflection:\n%s", topic, strings.Join(subtasks, ", "), reflection)

	raw, err := s.completer.Complete(callCtx, evaluationSystemPrompt, userPrompt, 300, 0)
	if err != nil {
		log.Printf("evaluation model call failed, returning default verdict: %v", err)
		return domain.DefaultVerdict(), nil
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		log.Printf("evaluation output unparsable, returning default verdict: %v", err)
		return domain.DefaultVerdict(), nil
	}

	if verdict.Sanitize() {
		log.Printf("evaluation verdict had out-of-enum fields, substituted defaults")
	}
	return verdict, nil
}

// parseVerdict extracts and decodes the JSON object in the model output.
func parseVerdict(raw string) (domain.EvaluationVerdict, error) {
	jsonPart := extractJSONObject(raw)
	if jsonPart == "" {
		return domain.EvaluationVerdict{}, fmt.Errorf("no JSON object in model output")
	}

	var verdict domain.EvaluationVerdict
	if err := json.Unmarshal([]byte(jsonPart), &verdict); err != nil {
		return domain.EvaluationVerdict{}, fmt.Errorf("failed to parse verdict: %w", err)
	}
	return verdict, nil
}

// extractJSONObject returns the first top-level JSON object in the text, or "".
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(text, "}")
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
