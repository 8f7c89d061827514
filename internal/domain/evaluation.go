package domain

// UnderstandingLevel represents the coarse understanding score of a reflection
type UnderstandingLevel string

const (
	UnderstandingLow    UnderstandingLevel = "low"
	UnderstandingBasic  UnderstandingLevel = "basic"
	UnderstandingGood   UnderstandingLevel = "good"
	UnderstandingStrong UnderstandingLevel = "strong"
)

// Confidence represents how confident the evaluator is in its verdict
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// RecommendedAction represents the curriculum action suggested by a verdict
type RecommendedAction string

const (
	ActionRepeat   RecommendedAction = "repeat"
	ActionContinue RecommendedAction = "continue"
	ActionSimplify RecommendedAction = "simplify"
	ActionAdvance  RecommendedAction = "advance"
)

// EvaluationVerdict is the structured outcome of scoring a learner
// reflection. A verdict in circulation is always valid: malformed model
// output is corrected field-by-field before it leaves the evaluation engine.
type EvaluationVerdict struct {
	UnderstandingLevel UnderstandingLevel `json:"understanding_level"`
	Confidence         Confidence         `json:"confidence"`
	GapsDetected       []string           `json:"gaps_detected"`
	RecommendedAction  RecommendedAction  `json:"recommended_action"`
}

// DefaultVerdict is the conservative fallback used whenever model output
// cannot be validated.
func DefaultVerdict() EvaluationVerdict {
	return EvaluationVerdict{
		UnderstandingLevel: UnderstandingBasic,
		Confidence:         ConfidenceMedium,
		GapsDetected:       []string{},
		RecommendedAction:  ActionContinue,
	}
}

// Sanitize replaces every out-of-enum field with its conservative default
// and reports whether any substitution was made.
func (v *EvaluationVerdict) Sanitize() bool {
	corrected := false

	if !isValidUnderstandingLevel(v.UnderstandingLevel) {
		v.UnderstandingLevel = UnderstandingBasic
		corrected = true
	}
	if !isValidConfidence(v.Confidence) {
		v.Confidence = ConfidenceMedium
		corrected = true
	}
	if !isValidRecommendedAction(v.RecommendedAction) {
		v.RecommendedAction = ActionContinue
		corrected = true
	}
	if v.GapsDetected == nil {
		v.GapsDetected = []string{}
	}

	return corrected
}

// TriggersRegeneration reports whether the verdict's recommended action
// should regenerate the remaining syllabus days.
func (v EvaluationVerdict) TriggersRegeneration() bool {
	return v.RecommendedAction == ActionRepeat || v.RecommendedAction == ActionSimplify
}

// isValidUnderstandingLevel checks if an UnderstandingLevel is valid
func isValidUnderstandingLevel(l UnderstandingLevel) bool {
	switch l {
	case UnderstandingLow, UnderstandingBasic, UnderstandingGood, UnderstandingStrong:
		return true
	}
	return false
}

// isValidConfidence checks if a Confidence is valid
func isValidConfidence(c Confidence) bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// isValidRecommendedAction checks if a RecommendedAction is valid
func isValidRecommendedAction(a RecommendedAction) bool {
	switch a {
	case ActionRepeat, ActionContinue, ActionSimplify, ActionAdvance:
		return true
	}
	return false
}
