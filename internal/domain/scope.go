package domain

// ScopeOutcome represents the result of running a question through the
// scope decision gate.
type ScopeOutcome string

const (
	ScopeAdmit            ScopeOutcome = "admit"
	ScopeRefuseHarmful    ScopeOutcome = "refuse_harmful"
	ScopeRefuseOutOfScope ScopeOutcome = "refuse_out_of_scope"
	ScopeRefuseNoContext  ScopeOutcome = "refuse_no_context"
)

// Refusal reason strings surfaced on the wire. Harmful refusals are
// deliberately reported as out_of_scope so the response never reveals
// which denylist term matched.
const (
	RefusalReasonOutOfScope = "out_of_scope"
	RefusalReasonNoContext  = "no_context"
)

// Fixed refusal messages. These never vary with the input.
const (
	MessageOutOfScope = "That question is outside today's learning scope. Try asking about the current topic or one of its subtasks."
	MessageNoContext  = "There isn't enough learned material for today yet to answer that. Work through the current subtasks first."
)

// ScopeDecision is the outcome of the gate: either an admission carrying the
// rewritten question and the context to answer from, or a refusal carrying a
// fixed message. Refusals are expected outcomes, not errors.
type ScopeDecision struct {
	Outcome  ScopeOutcome
	Question string // rephrased question, set on admit
	Context  string // rendered DKB context, set on admit
	Reason   string // wire reason, set on refusal
	Message  string // fixed user-facing message, set on refusal
}

// Admitted reports whether the decision allows a model call.
func (d ScopeDecision) Admitted() bool {
	return d.Outcome == ScopeAdmit
}

// AdmitDecision builds an admission carrying the rephrased question and context.
func AdmitDecision(question, context string) ScopeDecision {
	return ScopeDecision{
		Outcome:  ScopeAdmit,
		Question: question,
		Context:  context,
	}
}

// RefuseDecision builds a refusal for the given outcome with its fixed
// message. Harmful and out-of-scope refusals share a wire reason.
func RefuseDecision(outcome ScopeOutcome) ScopeDecision {
	d := ScopeDecision{Outcome: outcome}
	switch outcome {
	case ScopeRefuseNoContext:
		d.Reason = RefusalReasonNoContext
		d.Message = MessageNoContext
	default:
		d.Reason = RefusalReasonOutOfScope
		d.Message = MessageOutOfScope
	}
	return d
}
