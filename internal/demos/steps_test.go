package demos

import (
	"testing"

	"redis_walkthrough/internal/walkthrough"
	"redis_walkthrough/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepByName(t *testing.T, wt walkthrough.Walkthrough, name string) walkthrough.Step {
	t.Helper()
	for _, s := range wt.Steps {
		if s.Name == name {
			return s
		}
	}
	require.Failf(t, "step not found", "%q", name)
	return walkthrough.Step{}
}

func TestCleanupStepsTolerateMissingIndex(t *testing.T) {
	search, err := Search(nil)
	require.NoError(t, err)
	drop := stepByName(t, search, "drop index")
	assert.True(t, drop.Tolerates(walkthrough.KindNotFound))
	assert.False(t, drop.Tolerates(walkthrough.KindConnection))
	assert.Equal(t, "drop index", search.Steps[0].Name)

	vector, err := VectorSearch(nil, fixedEmbedder{dim: 3}, nil, 3)
	require.NoError(t, err)
	assert.True(t, stepByName(t, vector, "drop index").Tolerates(walkthrough.KindNotFound))
	assert.False(t, stepByName(t, vector, "create index").Tolerates(walkthrough.KindNotFound))
}

func TestStreamLoopsTolerateInterrupt(t *testing.T) {
	cfg := model.StreamConfig{Key: "user_activity_stream", Group: "activity_group", Consumer: "consumer_1"}

	producer := StreamProducer(nil, cfg, NewEventSource(nil))
	assert.True(t, stepByName(t, producer, "produce").Tolerates(walkthrough.KindCanceled))

	consumer := StreamConsumer(nil, cfg)
	assert.True(t, stepByName(t, consumer, "create group").Tolerates(walkthrough.KindAlreadyExists))
	assert.True(t, stepByName(t, consumer, "consume").Tolerates(walkthrough.KindCanceled))
	assert.False(t, stepByName(t, consumer, "consume").Tolerates(walkthrough.KindConnection))
}

func TestWalkthroughStepsAreNamed(t *testing.T) {
	jsonWT, err := JSON(nil)
	require.NoError(t, err)
	searchWT, err := Search(nil)
	require.NoError(t, err)

	all := []walkthrough.Walkthrough{
		DataStructures(nil),
		jsonWT,
		searchWT,
		Eviction(nil, model.EvictionConfig{KeyCount: 10, ValueBytes: 10}),
	}
	for _, wt := range all {
		require.NotEmpty(t, wt.Steps, wt.Title)
		for i, s := range wt.Steps {
			assert.NotEmpty(t, s.Name, "%s step %d", wt.Title, i)
			assert.NotEmpty(t, s.Narration, "%s step %s", wt.Title, s.Name)
		}
	}
}

func TestEvictionFlushesBeforeInserting(t *testing.T) {
	wt := Eviction(nil, model.EvictionConfig{KeyCount: 3000, ValueBytes: 327680})
	require.Len(t, wt.Steps, 3)
	assert.Nil(t, wt.Steps[0].Action)
	assert.Equal(t, "flush", wt.Steps[1].Name)
	assert.Equal(t, "insert", wt.Steps[2].Name)
}
