package service

import "strings"

// harmfulTerms is the deterministic denylist scanned before any model or
// embedding call. Intentionally coarse: a false positive costs one refused
// question, a false negative costs an answer we must never give. The match
// is a plain lowercase substring scan.
var harmfulTerms = []string{
	"build a bomb",
	"make a bomb",
	"explosive device",
	"make a weapon",
	"build a weapon",
	"untraceable gun",
	"3d printed gun",
	"synthesize drugs",
	"cook meth",
	"make poison",
	"lethal dose",
	"hack into",
	"break into someone",
	"steal credentials",
	"steal a password",
	"bypass authentication",
	"write malware",
	"write ransomware",
	"create a virus",
	"keylogger",
	"phishing page",
	"ddos",
	"launder money",
	"counterfeit",
	"hurt someone",
	"kill someone",
	"self-harm",
	"suicide method",
}

// ContainsHarmfulTerm reports whether the question trips the denylist.
// Callers must not reveal which term matched.
func ContainsHarmfulTerm(question string) bool {
	lowered := strings.ToLower(question)
	for _, term := range harmfulTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
