package service

import (
	"regexp"
	"strings"
)

// deicticPatterns match generic question phrasings that point at "this" or
// "it" without naming the topic. The list is fixed; anything it doesn't
// match passes through untouched.
var deicticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*how\s+does\s+(this|it|that)\s+work\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*what\s+is\s+(this|it|that)(\s+about)?\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*what\s+does\s+(this|it|that)\s+mean\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*(can\s+you\s+)?explain(\s+(this|it|that))?(\s+again)?\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*tell\s+me\s+more\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*why\s+is\s+(this|it|that)\s+(important|useful|needed)\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*(give\s+me\s+)?an?\s+example\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*i\s+(don'?t|do\s+not)\s+(get|understand)\s+(it|this|that)\s*\??\s*$`),
}

// RephraseQuestion rewrites a deictic question to reference the day's topic
// (and first subtask when present) explicitly, so the semantic gate compares
// against something meaningful. Questions that already name their subject
// pass through unchanged. The rewrite only anchors the question; it never
// changes what is being asked. The second return value reports whether a
// rewrite happened.
func RephraseQuestion(question, topic string, subtasks []string) (string, bool) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" || strings.TrimSpace(topic) == "" {
		return question, false
	}

	matched := false
	for _, p := range deicticPatterns {
		if p.MatchString(trimmed) {
			matched = true
			break
		}
	}
	if !matched {
		return question, false
	}

	anchor := topic
	if len(subtasks) > 0 && strings.TrimSpace(subtasks[0]) != "" {
		anchor = topic + ", starting with " + subtasks[0]
	}

	base := strings.TrimRight(trimmed, "?!. ")
	return base + ", in the context of " + anchor + "?", true
}
