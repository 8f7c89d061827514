package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTopic(t *testing.T) {
	assert.Equal(t, "avl trees", NormalizeTopic("  AVL Trees "))
	assert.Equal(t, "", NormalizeTopic("   "))
}

func TestAddConcepts_DedupCaseInsensitive(t *testing.T) {
	dkb := NewDayKnowledgeBase("AVL Trees", nil, time.Now())

	added := dkb.AddConcepts([]string{"Rotation", "rotation", " ROTATION ", "balance factor"}, DefaultConceptCap)

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"Rotation", "balance factor"}, dkb.Concepts)
}

func TestAddConcepts_CapDropsOverflow(t *testing.T) {
	dkb := NewDayKnowledgeBase("AVL Trees", nil, time.Now())

	added := dkb.AddConcepts([]string{"one", "two", "three", "four"}, 3)

	assert.Equal(t, 3, added)
	assert.Len(t, dkb.Concepts, 3)

	// Full record silently drops everything further.
	assert.Zero(t, dkb.AddConcepts([]string{"five"}, 3))
}

func TestAddConcepts_DirtyFlag(t *testing.T) {
	dkb := NewDayKnowledgeBase("AVL Trees", nil, time.Now())
	dkb.EmbeddingDirty = false
	dkb.Embedding = []float32{1}

	assert.Zero(t, dkb.AddConcepts(nil, DefaultConceptCap))
	assert.False(t, dkb.EmbeddingDirty, "no-op expansion must not invalidate the embedding")

	assert.Equal(t, 1, dkb.AddConcepts([]string{"rotation"}, DefaultConceptCap))
	assert.True(t, dkb.EmbeddingDirty)
}

func TestEmbeddingText(t *testing.T) {
	dkb := NewDayKnowledgeBase("AVL Trees", []string{"rotations", "balance factors"}, time.Now())
	dkb.AddConcepts([]string{"left rotation"}, DefaultConceptCap)

	assert.Equal(t, "AVL Trees\n\nrotations, balance factors\n\nleft rotation", dkb.EmbeddingText())
}

func TestValidateDayKnowledgeBase(t *testing.T) {
	require.Error(t, ValidateDayKnowledgeBase(nil))

	dkb := NewDayKnowledgeBase("  ", nil, time.Now())
	assert.Error(t, ValidateDayKnowledgeBase(dkb))

	dkb = NewDayKnowledgeBase("AVL Trees", nil, time.Now())
	assert.NoError(t, ValidateDayKnowledgeBase(dkb))

	dkb.EmbeddingDirty = false
	assert.Error(t, ValidateDayKnowledgeBase(dkb), "clean flag without a cached vector is inconsistent")
}
