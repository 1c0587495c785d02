package demos

import (
	"context"
	"fmt"
	"io"
	"strings"

	"redis_walkthrough/internal/walkthrough"
	"redis_walkthrough/src/model"

	"github.com/redis/go-redis/v9"
)

const evictionProgressEvery = 100

// GenerateValue returns a string of exactly size bytes built from a
// repeating ten-letter pattern.
func GenerateValue(size int) string {
	const chunk = "abcdefghij"
	if size <= 0 {
		return ""
	}
	return strings.Repeat(chunk, size/len(chunk)) + chunk[:size%len(chunk)]
}

// Eviction fills the database past its memory limit so the operator can
// watch the store evict keys. The eviction itself is the store's
// allkeys-lru policy; this only writes.
func Eviction(rdb redis.Cmdable, cfg model.EvictionConfig) walkthrough.Walkthrough {
	steps := []walkthrough.Step{
		{
			Name: "policy notice",
			Narration: "Please NOTE: before you start this lab, make sure the database's\n" +
				"'Data eviction policy' (in the 'Durability' section) is set to 'allkeys-lru'.",
		},
		{
			Name:      "flush",
			Narration: "Connected to the Redis database.\nNext, let's flush the database before we run this lab.",
			Prompt:    "flush the database",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.FlushDB(ctx).Err()
			},
			Done: "Redis database flushed.",
		},
		{
			Name: "insert",
			Narration: "Now let's insert keys into the database. Once you press Enter, switch to the\n" +
				"database monitoring view and watch 'Used memory' and 'Evicted objects/sec'.",
			Prompt: "start inserting keys",
			Action: func(ctx context.Context, w io.Writer) error {
				return fillKeys(ctx, w, rdb, cfg)
			},
			Done: "Insertion complete.\n" +
				"Once the database is full, Redis starts evicting the least recently used keys to make\n" +
				"space for new inserts. That shows up as the 'Evicted objects/sec' metric rising.",
		},
	}

	return walkthrough.Walkthrough{
		Title:   "Test Eviction Policy Lab",
		Steps:   steps,
		Closing: "This concludes our Test Eviction Policy Lab",
	}
}

func fillKeys(ctx context.Context, w io.Writer, rdb redis.Cmdable, cfg model.EvictionConfig) error {
	value := GenerateValue(cfg.ValueBytes)
	fmt.Fprintf(w, "Inserting %d keys with values of approximately %d bytes each...\n", cfg.KeyCount, cfg.ValueBytes)

	for i := 1; i <= cfg.KeyCount; i++ {
		key := fmt.Sprintf("key:%d", i)
		if err := rdb.Set(ctx, key, value, 0).Err(); err != nil {
			return fmt.Errorf("SET %s: %w", key, err)
		}
		if i%evictionProgressEvery == 0 {
			fmt.Fprintf(w, "Inserted %d keys...\n", i)
		}
	}
	return nil
}
