package demos

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"redis_walkthrough/internal/walkthrough"
	"redis_walkthrough/src/model"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping Redis tests")
	}

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	opts.Protocol = 2

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func runOnce(t *testing.T, wt walkthrough.Walkthrough) string {
	t.Helper()
	var out bytes.Buffer
	err := walkthrough.NewRunner(&out, walkthrough.NoWait).Run(context.Background(), wt)
	require.NoError(t, err, out.String())
	return out.String()
}

func TestDataStructuresIsRepeatable(t *testing.T) {
	rdb := newTestClient(t)
	wt := DataStructures(rdb)

	first := runOnce(t, wt)
	second := runOnce(t, wt)
	assert.Equal(t, first, second)

	assert.Contains(t, first, "greeting: Hello, Redis!")
	assert.Contains(t, first, "'redis' is a tag: true")
	assert.Contains(t, first, "Unique visitors: 5")
}

func TestJSONWalkthrough(t *testing.T) {
	rdb := newTestClient(t)
	wt, err := JSON(rdb)
	require.NoError(t, err)

	out := runOnce(t, wt)
	assert.Contains(t, out, "Visits field after increment: [35]")
	assert.Contains(t, out, `"city": "San Francisco"`)

	again := runOnce(t, wt)
	assert.Contains(t, again, "Visits field after increment: [35]")
}

func TestSearchWalkthroughDropsAndRecreatesIndex(t *testing.T) {
	rdb := newTestClient(t)
	wt, err := Search(rdb)
	require.NoError(t, err)

	runOnce(t, wt)
	out := runOnce(t, wt)
	assert.Contains(t, out, "Existing index dropped.")
	assert.Contains(t, out, "doc:1: Red Apple - Price: 1.75")

	final := out[strings.LastIndex(out, "confirm doc:4 is gone"):]
	assert.Contains(t, final, "Total results found: 3")
	assert.NotContains(t, final, "doc:4:")
}

type fixedEmbedder struct {
	dim int
}

func (e fixedEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, e.dim)
		for j, r := range text {
			v[j%e.dim] += float64(r)
		}
		out[i] = v
	}
	return out, nil
}

func TestVectorSearchWalkthrough(t *testing.T) {
	rdb := newTestClient(t)
	asker := walkthrough.AskFunc(func(ctx context.Context, question string) (string, error) {
		return "", nil
	})
	wt, err := VectorSearch(rdb, fixedEmbedder{dim: 8}, asker, 8)
	require.NoError(t, err)

	out := runOnce(t, wt)
	assert.Contains(t, out, "Searching for top 5 similar items to 'wireless headphones'")
	assert.Contains(t, out, "Result 5:")
}

func TestVectorSearchRejectsDimensionMismatch(t *testing.T) {
	rdb := newTestClient(t)
	asker := walkthrough.AskFunc(func(ctx context.Context, question string) (string, error) {
		return "", nil
	})
	wt, err := VectorSearch(rdb, fixedEmbedder{dim: 4}, asker, 8)
	require.NoError(t, err)

	var out bytes.Buffer
	err = walkthrough.NewRunner(&out, walkthrough.NoWait).Run(context.Background(), wt)
	var stepErr *walkthrough.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "insert samples", stepErr.Step)
}

// cancelAfter mimics an operator interrupt after d
func cancelAfter(d time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(d, cancel)
	return ctx, cancel
}

func TestStreamsProducerAndConsumer(t *testing.T) {
	rdb := newTestClient(t)
	cfg := model.StreamConfig{
		Key:              "test:events:" + uuid.NewString(),
		Group:            "test_group",
		Consumer:         "test_consumer",
		ProducerInterval: 50 * time.Millisecond,
		ConsumerBlock:    100 * time.Millisecond,
		ConsumerCount:    5,
	}
	t.Cleanup(func() { rdb.Del(context.Background(), cfg.Key) })

	ctx, cancel := cancelAfter(300*time.Millisecond)
	defer cancel()
	var produced bytes.Buffer
	err := walkthrough.NewRunner(&produced, walkthrough.NoWait).Run(ctx, StreamProducer(rdb, cfg, NewEventSource(nil)))
	require.NoError(t, err)
	assert.Contains(t, produced.String(), "Stopped producing events")

	n, err := rdb.XLen(context.Background(), cfg.Key).Result()
	require.NoError(t, err)
	require.Positive(t, n)

	ctx, cancel = cancelAfter(500*time.Millisecond)
	defer cancel()
	var consumed bytes.Buffer
	err = walkthrough.NewRunner(&consumed, walkthrough.NoWait).Run(ctx, StreamConsumer(rdb, cfg))
	require.NoError(t, err)
	assert.Contains(t, consumed.String(), "Consumer group created.")
	assert.Contains(t, consumed.String(), "Consumer stopped by user")

	pending, err := rdb.XPending(context.Background(), cfg.Key, cfg.Group).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)

	ctx, cancel = cancelAfter(300*time.Millisecond)
	defer cancel()
	var rerun bytes.Buffer
	err = walkthrough.NewRunner(&rerun, walkthrough.NoWait).Run(ctx, StreamConsumer(rdb, cfg))
	require.NoError(t, err)
	assert.Contains(t, rerun.String(), "Consumer group already exists")
	assert.Contains(t, rerun.String(), "No new messages. Waiting...")
}
