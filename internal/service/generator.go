package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// DayPlan is one generated day's content before it is placed into the
// syllabus (numbering, dates, and status belong to the curriculum machine).
type DayPlan struct {
	Topic    string   `json:"topic"`
	Subtasks []string `json:"subtasks"`
}

// DayGenerator produces day plans for initial syllabus generation and for
// regeneration after a struggling evaluation.
type DayGenerator interface {
	PlanDays(ctx context.Context, goal, completedTopic string, count int) ([]DayPlan, error)
}

const generatorSystemPrompt = `You plan a day-by-day learning curriculum.
Reply with a JSON array of exactly the requested number of days, nothing else:
[{"topic": "...", "subtasks": ["...", "..."]}]
Each day has one focused topic and 2-4 concrete subtasks.`

// ModelDayGenerator asks the model for day plans and falls back to a
// deterministic plan when the model is unavailable or unparsable, so
// generation and regeneration are total operations.
type ModelDayGenerator struct {
	completer Completer
	timeout   time.Duration
}

// NewModelDayGenerator creates a new ModelDayGenerator instance
func NewModelDayGenerator(completer Completer, timeout time.Duration) *ModelDayGenerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ModelDayGenerator{completer: completer, timeout: timeout}
}

// PlanDays generates count day plans. When completedTopic is set the plans
// revisit and deepen it; otherwise they build toward the goal from scratch.
func (g *ModelDayGenerator) PlanDays(ctx context.Context, goal, completedTopic string, count int) ([]DayPlan, error) {
	if count <= 0 {
		return nil, nil
	}

	if g.completer != nil {
		plans, err := g.planViaModel(ctx, goal, completedTopic, count)
		if err == nil {
			return plans, nil
		}
		log.Printf("day generation fell back to deterministic plan: %v", err)
	}

	return FallbackPlan(goal, completedTopic, count), nil
}

func (g *ModelDayGenerator) planViaModel(ctx context.Context, goal, completedTopic string, count int) ([]DayPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var userPrompt string
	if completedTopic != "" {
		userPrompt = fmt.Sprintf(
			"Goal: %s\nThe learner struggled with %q. Plan the next %d days to revisit it from simpler ground and rebuild toward the goal.",
			goal, completedTopic, count)
	} else {
		userPrompt = fmt.Sprintf("Goal: %s\nPlan %d days.", goal, count)
	}

	raw, err := g.completer.Complete(ctx, generatorSystemPrompt, userPrompt, 1200, 0.5)
	if err != nil {
		return nil, err
	}

	jsonPart := extractJSONArray(raw)
	if jsonPart == "" {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var plans []DayPlan
	if err := json.Unmarshal([]byte(jsonPart), &plans); err != nil {
		return nil, fmt.Errorf("failed to parse day plans: %w", err)
	}
	if len(plans) != count {
		return nil, fmt.Errorf("model returned %d days, wanted %d", len(plans), count)
	}
	for i, p := range plans {
		if strings.TrimSpace(p.Topic) == "" {
			return nil, fmt.Errorf("day %d has an empty topic", i+1)
		}
	}

	return plans, nil
}

// FallbackPlan builds a deterministic plan used when the model cannot.
// Regeneration plans revisit the completed topic; fresh plans step through
// the goal.
func FallbackPlan(goal, completedTopic string, count int) []DayPlan {
	base := completedTopic
	mode := "review and deepen"
	if base == "" {
		base = goal
		mode = "foundations and practice"
	}

	plans := make([]DayPlan, count)
	for i := range plans {
		plans[i] = DayPlan{
			Topic: fmt.Sprintf("%s: %s, part %d", base, mode, i+1),
			Subtasks: []string{
				"review the key concepts",
				"work through guided examples",
				"attempt an exercise without notes",
			},
		}
	}
	return plans
}
