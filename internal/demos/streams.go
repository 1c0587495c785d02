package demos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"redis_walkthrough/internal/walkthrough"
	"redis_walkthrough/src/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var (
	streamUsers   = []string{"alice", "bob", "carol"}
	streamActions = []string{"login", "logout", "purchase", "update_profile"}
)

const streamTimeLayout = "2006-01-02 15:04:05"

// ActivityEvent is one simulated user action appended to the stream
type ActivityEvent struct {
	ID        string
	User      string
	Action    string
	Timestamp time.Time
}

// Values returns the stream entry fields
func (e ActivityEvent) Values() map[string]any {
	return map[string]any{
		"event_id":  e.ID,
		"user":      e.User,
		"action":    e.Action,
		"timestamp": strconv.FormatFloat(float64(e.Timestamp.UnixMicro())/1e6, 'f', 6, 64),
	}
}

// EventSource produces simulated activity events
type EventSource struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEventSource seeds a source from rng. A nil rng uses a time seed.
func NewEventSource(rng *rand.Rand) *EventSource {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &EventSource{rng: rng, now: time.Now}
}

// Next returns a random user/action pair stamped with the current time
func (s *EventSource) Next() ActivityEvent {
	return ActivityEvent{
		ID:        uuid.NewString(),
		User:      streamUsers[s.rng.IntN(len(streamUsers))],
		Action:    streamActions[s.rng.IntN(len(streamActions))],
		Timestamp: s.now(),
	}
}

// StreamProducer appends one simulated event per interval until the
// operator interrupts.
func StreamProducer(rdb redis.Cmdable, cfg model.StreamConfig, source *EventSource) walkthrough.Walkthrough {
	steps := []walkthrough.Step{
		{
			Name: "intro",
			Narration: "Welcome to the Redis Stream PRODUCER demo!\n" +
				strings.Repeat("-", 55) + "\n" +
				"This program continuously simulates user activity events\n" +
				fmt.Sprintf("and pushes them into the Redis stream '%s'.\n", cfg.Key) +
				"You can watch them arrive with the stream-consumer program.",
		},
		{
			Name:      "produce",
			Narration: fmt.Sprintf("Producing to stream '%s'... Press Ctrl+C to stop.", cfg.Key),
			Prompt:    "start producing",
			Action: func(ctx context.Context, w io.Writer) error {
				return produce(ctx, w, rdb, cfg, source)
			},
			Tolerate: []walkthrough.ErrorKind{walkthrough.KindCanceled},
			Ignored:  "Stopped producing events",
		},
	}

	return walkthrough.Walkthrough{
		Title: "Redis Streams Producer",
		Steps: steps,
	}
}

func produce(ctx context.Context, w io.Writer, rdb redis.Cmdable, cfg model.StreamConfig, source *EventSource) error {
	limiter := rate.NewLimiter(rate.Every(cfg.ProducerInterval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}

		event := source.Next()
		id, err := rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: cfg.Key,
			Values: event.Values(),
		}).Result()
		if err != nil {
			return fmt.Errorf("XADD %s: %w", cfg.Key, err)
		}
		fmt.Fprintf(w, "Produced %s: user=%s action=%s\n", id, event.User, event.Action)
	}
}

// StreamConsumer reads the stream through a consumer group, prints each
// event as a table row and acknowledges it.
func StreamConsumer(rdb redis.Cmdable, cfg model.StreamConfig) walkthrough.Walkthrough {
	steps := []walkthrough.Step{
		{
			Name: "create group",
			Narration: fmt.Sprintf("Preparing consumer group '%s' on stream '%s' (created with the stream if needed).",
				cfg.Group, cfg.Key),
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.XGroupCreateMkStream(ctx, cfg.Key, cfg.Group, "0").Err()
			},
			Done:     "Consumer group created.",
			Tolerate: []walkthrough.ErrorKind{walkthrough.KindAlreadyExists},
			Ignored:  "Consumer group already exists",
		},
		{
			Name: "intro",
			Narration: "Welcome to the Redis Stream CONSUMER demo!\n" +
				strings.Repeat("-", 60) + "\n" +
				fmt.Sprintf("This program reads user activity events from the stream '%s'\n", cfg.Key) +
				fmt.Sprintf("using consumer group '%s'. Acknowledged events are not delivered again.", cfg.Group),
		},
		{
			Name:      "consume",
			Narration: "Starting to consume... Press Ctrl+C to stop.",
			Prompt:    "start consuming",
			Action: func(ctx context.Context, w io.Writer) error {
				return consume(ctx, w, rdb, cfg)
			},
			Tolerate: []walkthrough.ErrorKind{walkthrough.KindCanceled},
			Ignored:  "Consumer stopped by user",
		},
	}

	return walkthrough.Walkthrough{
		Title: "Redis Streams Consumer",
		Steps: steps,
	}
}

func consume(ctx context.Context, w io.Writer, rdb redis.Cmdable, cfg model.StreamConfig) error {
	fmt.Fprintln(w, EventHeader())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		streams, err := rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    cfg.Group,
			Consumer: cfg.Consumer,
			Streams:  []string{cfg.Key, ">"},
			Count:    cfg.ConsumerCount,
			Block:    cfg.ConsumerBlock,
		}).Result()
		if errors.Is(err, redis.Nil) {
			fmt.Fprintln(w, "No new messages. Waiting...")
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("XREADGROUP %s: %w", cfg.Key, err)
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				fmt.Fprintln(w, FormatEvent(msg, time.Local))
				// A printed entry is always acked; reads only ask for new entries.
				if err := rdb.XAck(context.WithoutCancel(ctx), cfg.Key, cfg.Group, msg.ID).Err(); err != nil {
					return fmt.Errorf("XACK %s %s: %w", cfg.Key, msg.ID, err)
				}
			}
		}
	}
}

// EventHeader is the table header printed above consumed events
func EventHeader() string {
	return fmt.Sprintf("%-20s %-10s %-15s %-20s %s\n%s", "ID", "User", "Action", "Timestamp", "Event ID", strings.Repeat("-", 102))
}

// FormatEvent renders a stream entry as a table row. Users and actions are
// capitalized, underscores in actions become spaces, and the unix timestamp
// is shown in loc. An unparsable timestamp is shown as stored. The producer's
// event id closes the row.
func FormatEvent(msg redis.XMessage, loc *time.Location) string {
	user := capitalize(stringValue(msg.Values, "user"))
	action := capitalize(strings.ReplaceAll(stringValue(msg.Values, "action"), "_", " "))
	ts := formatTimestamp(stringValue(msg.Values, "timestamp"), loc)
	return fmt.Sprintf("%-20s %-10s %-15s %-20s %s", msg.ID, user, action, ts, stringValue(msg.Values, "event_id"))
}

func stringValue(values map[string]any, key string) string {
	if v, ok := values[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func formatTimestamp(raw string, loc *time.Location) string {
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return time.UnixMicro(int64(secs * 1e6)).In(loc).Format(streamTimeLayout)
}
