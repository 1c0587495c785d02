package demos

import (
	"context"
	"fmt"
	"io"

	"redis_walkthrough/internal/fixtures"
	"redis_walkthrough/internal/walkthrough"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const jsonUserKey = "user:1002"

// JSON walks through storing, querying and updating a nested JSON document
func JSON(rdb redis.Cmdable) (walkthrough.Walkthrough, error) {
	doc, err := fixtures.UserDoc()
	if err != nil {
		return walkthrough.Walkthrough{}, err
	}
	payload, err := sonic.Marshal(doc)
	if err != nil {
		return walkthrough.Walkthrough{}, fmt.Errorf("failed to marshal user document: %w", err)
	}

	steps := []walkthrough.Step{
		{
			Name:      "json set",
			Narration: "=== 1. Storing nested JSON as key 'user:1002' ===",
			Prompt:    "store the JSON",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.JSONSet(ctx, jsonUserKey, "$", payload).Err()
			},
			Done: "JSON document stored.",
		},
		{
			Name:      "json get city",
			Narration: "=== 2. Fetching the user's city (nested field user.address.city) ===",
			Prompt:    "fetch the city",
			Action: func(ctx context.Context, w io.Writer) error {
				raw, err := rdb.JSONGet(ctx, jsonUserKey, "$.user.address.city").Result()
				if err != nil {
					return fmt.Errorf("JSON.GET %s: %w", jsonUserKey, err)
				}
				fmt.Fprintln(w, "City result:", raw)

				var cities []string
				if err := sonic.UnmarshalString(raw, &cities); err != nil {
					return fmt.Errorf("failed to decode city: %w", err)
				}
				if len(cities) > 0 {
					fmt.Fprintln(w, "City value (first item):", cities[0])
				}
				return nil
			},
		},
		{
			Name:      "json numincrby",
			Narration: "=== 3. Incrementing the visits count (user.stats.visits += 1) ===",
			Prompt:    "increment visits",
			Action: func(ctx context.Context, w io.Writer) error {
				visits, err := rdb.JSONNumIncrBy(ctx, jsonUserKey, "$.user.stats.visits", 1).Result()
				if err != nil {
					return fmt.Errorf("JSON.NUMINCRBY %s: %w", jsonUserKey, err)
				}
				fmt.Fprintln(w, "Visits field after increment:", visits)
				return nil
			},
		},
		{
			Name:      "json filter",
			Narration: "=== 4. Fetching email contacts (filter inside the contacts array) ===",
			Prompt:    "fetch email contacts",
			Action: func(ctx context.Context, w io.Writer) error {
				contacts, err := rdb.JSONGet(ctx, jsonUserKey, `$.user.contacts[?(@.type=="email")]`).Result()
				if err != nil {
					return fmt.Errorf("JSON.GET %s contacts: %w", jsonUserKey, err)
				}
				fmt.Fprintln(w, "Email contacts result:", contacts)
				return nil
			},
		},
		{
			Name:      "json set city",
			Narration: "=== 5. Updating the user's city to 'San Francisco' ===",
			Prompt:    "update the city",
			Action: func(ctx context.Context, w io.Writer) error {
				city, err := sonic.Marshal("San Francisco")
				if err != nil {
					return err
				}
				return rdb.JSONSet(ctx, jsonUserKey, "$.user.address.city", city).Err()
			},
			Done: "City updated.",
		},
		{
			Name:      "json get all",
			Narration: "=== 6. Fetching the entire updated user JSON ===",
			Prompt:    "fetch the complete JSON",
			Action: func(ctx context.Context, w io.Writer) error {
				raw, err := rdb.JSONGet(ctx, jsonUserKey, "$").Result()
				if err != nil {
					return fmt.Errorf("JSON.GET %s: %w", jsonUserKey, err)
				}

				var docs []fixtures.UserDocument
				if err := sonic.UnmarshalString(raw, &docs); err != nil {
					return fmt.Errorf("failed to decode user document: %w", err)
				}
				pretty, err := sonic.ConfigStd.MarshalIndent(docs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "Updated user JSON:")
				fmt.Fprintln(w, string(pretty))
				return nil
			},
		},
	}

	return walkthrough.Walkthrough{
		Title:   "Redis JSON Demo",
		Steps:   steps,
		Closing: "JSON Demo Completed",
	}, nil
}
