package demos

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValue(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{size: 0, want: ""},
		{size: -3, want: ""},
		{size: 4, want: "abcd"},
		{size: 10, want: "abcdefghij"},
		{size: 13, want: "abcdefghijabc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateValue(tt.size), "size %d", tt.size)
	}
	assert.Len(t, GenerateValue(327680), 327680)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Alice", capitalize("alice"))
	assert.Equal(t, "Update profile", capitalize("UPDATE profile"))
	assert.Equal(t, "Élan", capitalize("élan"))
}

func TestQuoteList(t *testing.T) {
	assert.Equal(t, "['a', 'b']", quoteList([]string{"a", "b"}))
	assert.Equal(t, "[]", quoteList(nil))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "1500", formatScore(1500))
	assert.Equal(t, "1.75", formatScore(1.75))
}

func TestPrintFieldsSortsByName(t *testing.T) {
	var out bytes.Buffer
	printFields(&out, map[string]string{"name": "Alice", "age": "29", "email": "a@b"})
	assert.Equal(t, "age: 29\nemail: a@b\nname: Alice\n", out.String())
}

func TestPrintRowsSortsFields(t *testing.T) {
	var out bytes.Buffer
	printRows(&out, &redis.FTAggregateResult{Rows: []redis.AggregateRow{
		{Fields: map[string]any{"count": "2", "category": "fruit"}},
	}})
	assert.Equal(t, "category=fruit count=2\n", out.String())
}

func TestFormatEvent(t *testing.T) {
	msg := redis.XMessage{
		ID: "1700000000000-0",
		Values: map[string]any{
			"user":      "alice",
			"action":    "update_profile",
			"timestamp": "1700000000.250000",
			"event_id":  "3f0c6c1e-8a41-4d7b-9a55-1b2f3c4d5e6f",
		},
	}

	row := FormatEvent(msg, time.UTC)
	assert.Equal(t, "1700000000000-0      Alice      Update profile  2023-11-14 22:13:20  3f0c6c1e-8a41-4d7b-9a55-1b2f3c4d5e6f", row)
}

func TestFormatEventKeepsUnparsableTimestamp(t *testing.T) {
	msg := redis.XMessage{
		ID:     "1-0",
		Values: map[string]any{"user": "bob", "action": "login", "timestamp": "yesterday"},
	}
	assert.Contains(t, FormatEvent(msg, time.UTC), "yesterday")
}

func TestEventHeaderMatchesRowColumns(t *testing.T) {
	header := strings.SplitN(EventHeader(), "\n", 2)[0]
	assert.Equal(t, "ID                   User       Action          Timestamp            Event ID", header)
}

func TestActivityEventValues(t *testing.T) {
	ts := time.Unix(1700000000, 500000000)
	values := ActivityEvent{ID: "id-1", User: "carol", Action: "login", Timestamp: ts}.Values()

	assert.Equal(t, "1700000000.500000", values["timestamp"])
	assert.Equal(t, "carol", values["user"])
	assert.Equal(t, "login", values["action"])
	assert.Equal(t, "id-1", values["event_id"])
}

func TestEventSourceDrawsFromKnownUsersAndActions(t *testing.T) {
	source := NewEventSource(nil)
	seen := map[string]bool{}
	for range 50 {
		event := source.Next()
		require.Contains(t, streamUsers, event.User)
		require.Contains(t, streamActions, event.Action)
		require.False(t, seen[event.ID], "event ids must be unique")
		seen[event.ID] = true
	}
}

func TestCheckDimension(t *testing.T) {
	require.NoError(t, checkDimension([][]float64{{1, 2, 3}, {4, 5, 6}}, 3))

	err := checkDimension([][]float64{{1, 2, 3}, {4, 5}}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding 1 has 2 dimensions but the index expects 3")
}
