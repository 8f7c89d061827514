package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelDayGenerator_UsesModelPlans(t *testing.T) {
	completer := &stubCompleter{reply: `[{"topic": "Tree basics", "subtasks": ["nodes", "traversal"]}, {"topic": "Balancing", "subtasks": ["rotations"]}]`}
	gen := NewModelDayGenerator(completer, time.Second)

	plans, err := gen.PlanDays(context.Background(), "learn AVL trees", "", 2)

	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Tree basics", plans[0].Topic)
	assert.Equal(t, []string{"rotations"}, plans[1].Subtasks)
	assert.Contains(t, completer.lastUser, "learn AVL trees")
}

func TestModelDayGenerator_RegenerationPromptNamesStruggledTopic(t *testing.T) {
	completer := &stubCompleter{reply: `[{"topic": "Rotations revisited", "subtasks": ["single rotations"]}]`}
	gen := NewModelDayGenerator(completer, time.Second)

	_, err := gen.PlanDays(context.Background(), "learn AVL trees", "Rotations", 1)

	require.NoError(t, err)
	assert.Contains(t, completer.lastUser, `"Rotations"`)
}

func TestModelDayGenerator_WrongCountFallsBack(t *testing.T) {
	completer := &stubCompleter{reply: `[{"topic": "Only one day", "subtasks": []}]`}
	gen := NewModelDayGenerator(completer, time.Second)

	plans, err := gen.PlanDays(context.Background(), "learn AVL trees", "", 3)

	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Contains(t, plans[0].Topic, "foundations and practice")
}

func TestModelDayGenerator_NilCompleterFallsBack(t *testing.T) {
	gen := NewModelDayGenerator(nil, time.Second)

	plans, err := gen.PlanDays(context.Background(), "learn AVL trees", "Rotations", 2)

	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Contains(t, plans[0].Topic, "review and deepen")
}

func TestModelDayGenerator_ZeroCount(t *testing.T) {
	gen := NewModelDayGenerator(&stubCompleter{}, time.Second)

	plans, err := gen.PlanDays(context.Background(), "learn AVL trees", "", 0)

	require.NoError(t, err)
	assert.Nil(t, plans)
}

func TestFallbackPlan_Deterministic(t *testing.T) {
	fresh := FallbackPlan("learn AVL trees", "", 2)
	require.Len(t, fresh, 2)
	assert.Equal(t, "learn AVL trees: foundations and practice, part 1", fresh[0].Topic)
	assert.Equal(t, "learn AVL trees: foundations and practice, part 2", fresh[1].Topic)
	assert.NotEmpty(t, fresh[0].Subtasks)

	regen := FallbackPlan("learn AVL trees", "Rotations", 1)
	require.Len(t, regen, 1)
	assert.Equal(t, "Rotations: review and deepen, part 1", regen[0].Topic)
}
