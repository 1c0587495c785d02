package demos

import (
	"context"
	"fmt"
	"io"

	"redis_walkthrough/internal/walkthrough"

	"github.com/redis/go-redis/v9"
)

const (
	greetingKey    = "greeting"
	userHashKey    = "user:1001"
	searchesKey    = "searches"
	tagsKey        = "post:tags"
	leaderboardKey = "game:leaderboard"
	attendanceKey  = "user:attendance"
	visitorsKey    = "unique_visitors"
)

var (
	userProfile = map[string]any{
		"name":    "Alice",
		"email":   "alice@example.com",
		"age":     "29",
		"country": "Wonderland",
	}
	recentSearches = []string{"redis tutorial", "go redis", "data structures", "redis commands"}
	postTags       = []string{"go", "redis", "database", "nosql", "redis"}
	leaderboard    = []redis.Z{
		{Member: "Alice", Score: 1500},
		{Member: "Bob", Score: 1800},
		{Member: "Clara", Score: 1200},
		{Member: "Dave", Score: 2000},
	}
	presentDays = []int64{0, 2, 6}
	visitors    = []string{"user1", "user2", "user3", "user2", "user4", "user1", "user5"}
)

// DataStructures walks through strings, hashes, lists, sets, sorted sets,
// bitmaps and HyperLogLog. Every write step deletes its key first so the
// walkthrough can be rerun.
func DataStructures(rdb redis.Cmdable) walkthrough.Walkthrough {
	var steps []walkthrough.Step
	steps = append(steps, stringSteps(rdb)...)
	steps = append(steps, hashSteps(rdb)...)
	steps = append(steps, listSteps(rdb)...)
	steps = append(steps, setSteps(rdb)...)
	steps = append(steps, sortedSetSteps(rdb)...)
	steps = append(steps, bitmapSteps(rdb)...)
	steps = append(steps, hyperLogLogSteps(rdb)...)

	return walkthrough.Walkthrough{
		Title:   "Welcome to the Redis Data Structures Demo!",
		Steps:   steps,
		Closing: "Demo complete. Thanks for learning Redis with Go!",
	}
}

func stringSteps(rdb redis.Cmdable) []walkthrough.Step {
	return []walkthrough.Step{
		{
			Name: "string set",
			Narration: "=== Redis STRING Demo ===\n" +
				"We'll SET a string key 'greeting' with the message 'Hello, Redis!'",
			Prompt: "insert the string in Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.Set(ctx, greetingKey, "Hello, Redis!", 0).Err()
			},
			Done: "String inserted into Redis",
		},
		{
			Name:      "string get",
			Narration: "Now we GET the full value of key 'greeting' from the database",
			Prompt:    "get the string from Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				val, err := rdb.Get(ctx, greetingKey).Result()
				if err != nil {
					return fmt.Errorf("GET %s: %w", greetingKey, err)
				}
				fmt.Fprintf(w, "greeting: %s\n", val)
				return nil
			},
		},
	}
}

func hashSteps(rdb redis.Cmdable) []walkthrough.Step {
	return []walkthrough.Step{
		{
			Name: "hash set",
			Narration: "=== Redis HASH Demo ===\n" +
				"We'll create a user profile with id 'user:1001' storing multiple fields:\n" +
				"name: Alice, email: alice@example.com, age: 29, country: Wonderland",
			Prompt: "insert this hash into Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				if err := rdb.Del(ctx, userHashKey).Err(); err != nil {
					return err
				}
				return rdb.HSet(ctx, userHashKey, userProfile).Err()
			},
			Done: "Hash with key user:1001 inserted into Redis",
		},
		{
			Name:      "hash getall",
			Narration: "HGETALL returns every field of 'user:1001'",
			Prompt:    "fetch the whole hash from Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				fields, err := rdb.HGetAll(ctx, userHashKey).Result()
				if err != nil {
					return fmt.Errorf("HGETALL %s: %w", userHashKey, err)
				}
				printFields(w, fields)
				return nil
			},
		},
		{
			Name:      "hash get",
			Narration: "HGET fetches a single field, the email, from the hash",
			Prompt:    "fetch only the email field",
			Action: func(ctx context.Context, w io.Writer) error {
				email, err := rdb.HGet(ctx, userHashKey, "email").Result()
				if err != nil {
					return fmt.Errorf("HGET %s email: %w", userHashKey, err)
				}
				fmt.Fprintf(w, "Email: %s\n", email)
				return nil
			},
		},
	}
}

func listSteps(rdb redis.Cmdable) []walkthrough.Step {
	return []walkthrough.Step{
		{
			Name: "list push",
			Narration: "=== Redis LIST Demo ===\n" +
				"We'll store recent search queries on a website in a list called 'searches':\n" +
				quoteList(recentSearches),
			Prompt: "insert this list into Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				if err := rdb.Del(ctx, searchesKey).Err(); err != nil {
					return err
				}
				return rdb.RPush(ctx, searchesKey, toArgs(recentSearches)...).Err()
			},
			Done: "List inserted into Redis",
		},
		{
			Name:      "list range",
			Narration: "LRANGE 0 -1 returns the full list 'searches'",
			Prompt:    "get the full list",
			Action: func(ctx context.Context, w io.Writer) error {
				items, err := rdb.LRange(ctx, searchesKey, 0, -1).Result()
				if err != nil {
					return fmt.Errorf("LRANGE %s: %w", searchesKey, err)
				}
				fmt.Fprintln(w, quoteList(items))
				return nil
			},
		},
		{
			Name:      "list index",
			Narration: "Next we fetch the element at index 1 of 'searches'",
			Action: func(ctx context.Context, w io.Writer) error {
				item, err := rdb.LIndex(ctx, searchesKey, 1).Result()
				if err != nil {
					return fmt.Errorf("LINDEX %s 1: %w", searchesKey, err)
				}
				fmt.Fprintf(w, "List element with index 1: '%s'\n", item)
				return nil
			},
		},
	}
}

func setSteps(rdb redis.Cmdable) []walkthrough.Step {
	return []walkthrough.Step{
		{
			Name: "set add",
			Narration: "=== Redis SET Demo ===\n" +
				"Let's store unique tags under 'post:tags':\n" +
				quoteList(postTags) + "\n" +
				"Notice the duplicate tag 'redis'. A set keeps each member once, so the second add is a no-op.",
			Prompt: "add 'post:tags' to Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				if err := rdb.Del(ctx, tagsKey).Err(); err != nil {
					return err
				}
				for _, tag := range postTags {
					added, err := rdb.SAdd(ctx, tagsKey, tag).Result()
					if err != nil {
						return fmt.Errorf("SADD %s %s: %w", tagsKey, tag, err)
					}
					fmt.Fprintf(w, "SADD %-10s -> %d\n", tag, added)
				}
				return nil
			},
			Done: "Set added to Redis.",
		},
		{
			Name:      "set members",
			Narration: "SMEMBERS shows the set 'post:tags' (members are unordered; shown sorted)",
			Prompt:    "fetch the set 'post:tags'",
			Action: func(ctx context.Context, w io.Writer) error {
				members, err := rdb.SMembers(ctx, tagsKey).Result()
				if err != nil {
					return fmt.Errorf("SMEMBERS %s: %w", tagsKey, err)
				}
				fmt.Fprintln(w, quoteList(sortedCopy(members)))
				return nil
			},
		},
		{
			Name:      "set ismember",
			Narration: "Now let's check whether 'redis' is a tag using SISMEMBER",
			Action: func(ctx context.Context, w io.Writer) error {
				ok, err := rdb.SIsMember(ctx, tagsKey, "redis").Result()
				if err != nil {
					return fmt.Errorf("SISMEMBER %s redis: %w", tagsKey, err)
				}
				fmt.Fprintf(w, "'redis' is a tag: %t\n", ok)
				return nil
			},
		},
	}
}

func sortedSetSteps(rdb redis.Cmdable) []walkthrough.Step {
	return []walkthrough.Step{
		{
			Name: "zset add",
			Narration: "=== Redis SORTED SET Demo ===\n" +
				"A leaderboard under 'game:leaderboard' with player scores:\n" +
				"Alice=1500, Bob=1800, Clara=1200, Dave=2000",
			Prompt: "add 'game:leaderboard' to Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				if err := rdb.Del(ctx, leaderboardKey).Err(); err != nil {
					return err
				}
				return rdb.ZAdd(ctx, leaderboardKey, leaderboard...).Err()
			},
			Done: "'game:leaderboard' added to Redis",
		},
		{
			Name:      "zset revrange",
			Narration: "Now let's view the full leaderboard, highest to lowest",
			Prompt:    "view the leaderboard",
			Action: func(ctx context.Context, w io.Writer) error {
				board, err := rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, -1).Result()
				if err != nil {
					return fmt.Errorf("ZREVRANGE %s: %w", leaderboardKey, err)
				}
				for rank, z := range board {
					fmt.Fprintf(w, "%d. %v - %s\n", rank+1, z.Member, formatScore(z.Score))
				}
				return nil
			},
		},
		{
			Name:      "zset score",
			Narration: "ZSCORE reads a single player's score from the leaderboard",
			Prompt:    "get the score for 'Clara'",
			Action: func(ctx context.Context, w io.Writer) error {
				score, err := rdb.ZScore(ctx, leaderboardKey, "Clara").Result()
				if err != nil {
					return fmt.Errorf("ZSCORE %s Clara: %w", leaderboardKey, err)
				}
				fmt.Fprintf(w, "Clara's score: %s\n", formatScore(score))
				return nil
			},
		},
	}
}

func bitmapSteps(rdb redis.Cmdable) []walkthrough.Step {
	return []walkthrough.Step{
		{
			Name: "bitmap set",
			Narration: "=== Redis BITMAP Demo ===\n" +
				"We'll track 7 days of attendance for one user under 'user:attendance'.\n" +
				"Days 0, 2 and 6 are marked present with SETBIT.",
			Prompt: "set the attendance bits",
			Action: func(ctx context.Context, w io.Writer) error {
				if err := rdb.Del(ctx, attendanceKey).Err(); err != nil {
					return err
				}
				for _, day := range presentDays {
					if err := rdb.SetBit(ctx, attendanceKey, day, 1).Err(); err != nil {
						return fmt.Errorf("SETBIT %s %d: %w", attendanceKey, day, err)
					}
				}
				return nil
			},
			Done: "Attendance recorded.",
		},
		{
			Name:      "bitmap get",
			Narration: "GETBIT reads the bits for days 0 to 6, then checks day 3 on its own",
			Prompt:    "read the attendance bitmap",
			Action: func(ctx context.Context, w io.Writer) error {
				bits := make([]int64, 7)
				for day := range bits {
					bit, err := rdb.GetBit(ctx, attendanceKey, int64(day)).Result()
					if err != nil {
						return fmt.Errorf("GETBIT %s %d: %w", attendanceKey, day, err)
					}
					bits[day] = bit
				}
				fmt.Fprintf(w, "Attendance bits: %v\n", bits)

				day3, err := rdb.GetBit(ctx, attendanceKey, 3).Result()
				if err != nil {
					return fmt.Errorf("GETBIT %s 3: %w", attendanceKey, err)
				}
				fmt.Fprintf(w, "Day 3 present? %s\n", yesNo(day3 == 1))

				total, err := rdb.BitCount(ctx, attendanceKey, nil).Result()
				if err != nil {
					return fmt.Errorf("BITCOUNT %s: %w", attendanceKey, err)
				}
				fmt.Fprintf(w, "Days present (BITCOUNT): %d\n", total)
				return nil
			},
		},
	}
}

func hyperLogLogSteps(rdb redis.Cmdable) []walkthrough.Step {
	return []walkthrough.Step{
		{
			Name: "hyperloglog add",
			Narration: "=== Redis HYPERLOGLOG Demo ===\n" +
				"Let's approximate the unique visitors of a website. Visits arrive as:\n" +
				quoteList(visitors),
			Prompt: "record the visits",
			Action: func(ctx context.Context, w io.Writer) error {
				if err := rdb.Del(ctx, visitorsKey).Err(); err != nil {
					return err
				}
				for _, v := range visitors {
					if err := rdb.PFAdd(ctx, visitorsKey, v).Err(); err != nil {
						return fmt.Errorf("PFADD %s %s: %w", visitorsKey, v, err)
					}
				}
				return nil
			},
			Done: "Visits recorded.",
		},
		{
			Name:      "hyperloglog count",
			Narration: "PFCOUNT returns the approximate number of unique visitors",
			Prompt:    "count unique visitors",
			Action: func(ctx context.Context, w io.Writer) error {
				count, err := rdb.PFCount(ctx, visitorsKey).Result()
				if err != nil {
					return fmt.Errorf("PFCOUNT %s: %w", visitorsKey, err)
				}
				fmt.Fprintf(w, "Unique visitors: %d\n", count)
				return nil
			},
		},
	}
}
