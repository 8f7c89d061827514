package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultExtractMax bounds how many concepts one answer may contribute.
	DefaultExtractMax = 8

	conceptMinLen = 2
	conceptMaxLen = 50
)

// technicalAbbreviations are always treated as concept candidates by the
// heuristic fallback, even though they don't match the shape-based rules.
var technicalAbbreviations = map[string]struct{}{
	"api": {}, "cli": {}, "cpu": {}, "css": {}, "dns": {}, "gpu": {},
	"html": {}, "http": {}, "https": {}, "jwt": {}, "json": {}, "orm": {},
	"ram": {}, "regex": {}, "rest": {}, "sdk": {}, "sql": {}, "ssh": {},
	"tcp": {}, "tls": {}, "udp": {}, "uri": {}, "url": {}, "xml": {}, "yaml": {},
}

var (
	camelCaseToken  = regexp.MustCompile(`\b[a-z]+(?:[A-Z][a-z0-9]+)+\b|\b(?:[A-Z][a-z0-9]+){2,}\b`)
	acronymToken    = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	hyphenatedToken = regexp.MustCompile(`\b[a-zA-Z]{2,}(?:-[a-zA-Z]{2,})+\b`)
	quotedTerm      = regexp.MustCompile("\"([^\"]{2,50})\"|'([^']{2,50})'|`([^`]{2,50})`")
	wordToken       = regexp.MustCompile(`[a-zA-Z][a-zA-Z-]*`)
)

// ConceptExtractor derives short concept phrases from a mentor answer so the
// day's knowledge base can grow. The model path is primary; a deterministic
// heuristic takes over when the model is unavailable or returns something
// unparsable. Both paths are pure with respect to the answer text; the
// caller decides whether to commit the result.
type ConceptExtractor struct {
	completer Completer
	max       int
	timeout   time.Duration
}

// NewConceptExtractor creates a new ConceptExtractor instance. A nil
// completer means the heuristic path is always used.
func NewConceptExtractor(completer Completer, max int, timeout time.Duration) *ConceptExtractor {
	if max <= 0 {
		max = DefaultExtractMax
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ConceptExtractor{
		completer: completer,
		max:       max,
		timeout:   timeout,
	}
}

const conceptSystemPrompt = `You identify the technical concepts a tutoring answer explains or introduces.
Reply with a JSON array of short phrases (2-5 words each), nothing else.
Only include concepts that belong to the stated topic.`

// Extract returns up to max concept phrases found in the answer. Never
// returns an error: model failure degrades to the heuristic.
func (e *ConceptExtractor) Extract(ctx context.Context, answer, topic string) []string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}

	if e.completer != nil {
		if concepts, err := e.extractViaModel(ctx, answer, topic); err == nil {
			return concepts
		} else {
			log.Printf("concept extraction fell back to heuristic: %v", err)
		}
	}

	return e.extractHeuristic(answer)
}

func (e *ConceptExtractor) extractViaModel(ctx context.Context, answer, topic string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Topic: %s\n\nAnswer:\n%s\n\nList up to %d concepts explained or introduced in this answer.", topic, answer, e.max)

	raw, err := e.completer.Complete(ctx, conceptSystemPrompt, userPrompt, 200, 0)
	if err != nil {
		return nil, err
	}

	jsonPart := extractJSONArray(raw)
	if jsonPart == "" {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var phrases []string
	if err := json.Unmarshal([]byte(jsonPart), &phrases); err != nil {
		return nil, fmt.Errorf("failed to parse concept list: %w", err)
	}

	return e.normalize(phrases), nil
}

// extractHeuristic scans for concept-shaped tokens: CamelCase identifiers,
// acronyms, hyphenated compounds, known technical abbreviations, and quoted
// terms, in order of appearance.
func (e *ConceptExtractor) extractHeuristic(answer string) []string {
	var candidates []string

	for _, m := range quotedTerm.FindAllStringSubmatch(answer, -1) {
		for _, group := range m[1:] {
			if group != "" {
				candidates = append(candidates, group)
			}
		}
	}
	candidates = append(candidates, camelCaseToken.FindAllString(answer, -1)...)
	candidates = append(candidates, acronymToken.FindAllString(answer, -1)...)
	candidates = append(candidates, hyphenatedToken.FindAllString(answer, -1)...)

	for _, w := range wordToken.FindAllString(answer, -1) {
		if _, ok := technicalAbbreviations[strings.ToLower(w)]; ok {
			candidates = append(candidates, w)
		}
	}

	return e.normalize(candidates)
}

// normalize lower-cases, bounds, and deduplicates candidate phrases,
// truncating to the extractor's cap.
func (e *ConceptExtractor) normalize(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	var out []string

	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if len(p) < conceptMinLen || len(p) > conceptMaxLen {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if len(out) >= e.max {
			break
		}
	}

	return out
}

// extractJSONArray returns the first top-level JSON array in the text, or "".
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(text, "]")
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
