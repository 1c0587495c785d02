package demos

import (
	"context"
	"fmt"
	"io"

	"redis_walkthrough/internal/fixtures"
	"redis_walkthrough/internal/walkthrough"

	"github.com/redis/go-redis/v9"
)

const (
	searchIndex  = "idx:demo"
	searchPrefix = "doc:"
)

// San Francisco, the centre of the geo filter step
const (
	sfLongitude = -122.431297
	sfLatitude  = 37.773972
)

func searchSchema() []*redis.FieldSchema {
	return []*redis.FieldSchema{
		{FieldName: "title", FieldType: redis.SearchFieldTypeText, Weight: 5.0},
		{FieldName: "body", FieldType: redis.SearchFieldTypeText},
		{FieldName: "price", FieldType: redis.SearchFieldTypeNumeric},
		{FieldName: "category", FieldType: redis.SearchFieldTypeTag},
		{FieldName: "location", FieldType: redis.SearchFieldTypeGeo},
	}
}

// Search walks through full-text, numeric, tag and geo queries, sorting,
// aggregation, and index maintenance on update and delete.
func Search(rdb redis.Cmdable) (walkthrough.Walkthrough, error) {
	docs, err := fixtures.SearchDocs()
	if err != nil {
		return walkthrough.Walkthrough{}, err
	}

	steps := []walkthrough.Step{
		{
			Name: "drop index",
			Narration: "Step 1: Defining an index schema with Text, Numeric, Tag and Geo fields.\n" +
				"First drop 'idx:demo' and its documents if it exists, for a clean slate.",
			Prompt: "drop the existing index",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.FTDropIndexWithArgs(ctx, searchIndex, &redis.FTDropIndexOptions{DeleteDocs: true}).Err()
			},
			Done:     "Existing index dropped.",
			Tolerate: []walkthrough.ErrorKind{walkthrough.KindNotFound},
			Ignored:  "No existing index to drop",
		},
		{
			Name:      "create index",
			Narration: "The index covers hashes with prefix 'doc:': title (TEXT, weight 5), body (TEXT), price (NUMERIC), category (TAG), location (GEO).",
			Prompt:    "create index",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.FTCreate(ctx, searchIndex, &redis.FTCreateOptions{
					OnHash: true,
					Prefix: []any{searchPrefix},
				}, searchSchema()...).Err()
			},
			Done: "Index created successfully.",
		},
		{
			Name:      "add documents",
			Narration: "Step 2: Adding sample documents to the index.",
			Action: func(ctx context.Context, w io.Writer) error {
				for _, doc := range docs {
					if err := rdb.HSet(ctx, doc.Key, doc.Fields()).Err(); err != nil {
						return fmt.Errorf("HSET %s: %w", doc.Key, err)
					}
				}
				fmt.Fprintf(w, "Added %d documents.\n", len(docs))
				return nil
			},
		},
		{
			Name:      "full-text search",
			Narration: "Step 3: Simple full-text search for the word 'red'.",
			Action: searchAction(rdb, "red", nil, func(d redis.Document) string {
				return fmt.Sprintf("DocID: %s, Title: %s, Price: %s, Category: %s",
					d.ID, d.Fields["title"], d.Fields["price"], d.Fields["category"])
			}),
		},
		{
			Name:      "numeric filter",
			Narration: "Step 4: Numeric filter for price between 1 and 2.",
			Action: searchAction(rdb, "@price:[1 2]", nil, func(d redis.Document) string {
				return fmt.Sprintf("%s: %s - $%s", d.ID, d.Fields["title"], d.Fields["price"])
			}),
		},
		{
			Name:      "tag filter",
			Narration: "Step 5: Tag filter for the category tag 'vehicle'.",
			Action: searchAction(rdb, "@category:{vehicle}", nil, func(d redis.Document) string {
				return fmt.Sprintf("%s: %s in categories %s", d.ID, d.Fields["title"], d.Fields["category"])
			}),
		},
		{
			Name:      "geo filter",
			Narration: "Step 6: Geo search within a 100km radius of San Francisco.",
			Action: searchAction(rdb, "*", &redis.FTSearchOptions{
				GeoFilter: []redis.FTSearchGeoFilter{{
					FieldName: "location",
					Longitude: sfLongitude,
					Latitude:  sfLatitude,
					Radius:    100,
					Unit:      "km",
				}},
			}, func(d redis.Document) string {
				return fmt.Sprintf("%s: %s at location %s", d.ID, d.Fields["title"], d.Fields["location"])
			}),
		},
		{
			Name:      "sort and limit",
			Narration: "Step 7: Sorting results by price ascending, limited to 3.",
			Action: searchAction(rdb, "*", &redis.FTSearchOptions{
				SortBy:      []redis.FTSearchSortBy{{FieldName: "price", Asc: true}},
				LimitOffset: 0,
				Limit:       3,
			}, func(d redis.Document) string {
				return fmt.Sprintf("%s: %s - $%s", d.ID, d.Fields["title"], d.Fields["price"])
			}),
		},
		{
			Name:      "aggregate",
			Narration: "Step 8: Aggregation: group by category and count the documents in each.",
			Action: func(ctx context.Context, w io.Writer) error {
				res, err := rdb.FTAggregateWithArgs(ctx, searchIndex, "*", &redis.FTAggregateOptions{
					GroupBy: []redis.FTAggregateGroupBy{{
						Fields: []any{"@category"},
						Reduce: []redis.FTAggregateReducer{{Reducer: redis.SearchCount, As: "count"}},
					}},
					SortBy: []redis.FTAggregateSortBy{{FieldName: "@category", Asc: true}},
				}).Result()
				if err != nil {
					return fmt.Errorf("FT.AGGREGATE %s: %w", searchIndex, err)
				}
				printRows(w, res)
				return nil
			},
		},
		{
			Name:      "update document",
			Narration: "Step 9: Update document doc:1, changing its price to 1.75.",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.HSet(ctx, "doc:1", "price", 1.75).Err()
			},
			Done: "doc:1 updated.",
		},
		{
			Name:      "confirm update",
			Narration: "Step 10: Search for 'apple' and show the updated price.",
			Action: searchAction(rdb, "apple", nil, func(d redis.Document) string {
				return fmt.Sprintf("%s: %s - Price: %s", d.ID, d.Fields["title"], d.Fields["price"])
			}),
		},
		{
			Name:      "delete document",
			Narration: "Step 11: Deleting document doc:4.",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.Del(ctx, "doc:4").Err()
			},
			Done: "doc:4 deleted from Redis.",
		},
		{
			Name:      "confirm delete",
			Narration: "Step 12: Search all documents to confirm doc:4 is gone.",
			Prompt:    "finish the demo",
			Action: searchAction(rdb, "*", nil, func(d redis.Document) string {
				return fmt.Sprintf("%s: %s", d.ID, d.Fields["title"])
			}),
		},
	}

	return walkthrough.Walkthrough{
		Title:   "RediSearch Demo",
		Steps:   steps,
		Closing: "RediSearch Demo Completed Successfully",
	}, nil
}

// searchAction runs one FT.SEARCH against the demo index and prints each hit
func searchAction(rdb redis.Cmdable, query string, opts *redis.FTSearchOptions, line func(redis.Document) string) walkthrough.Action {
	return func(ctx context.Context, w io.Writer) error {
		var cmd *redis.FTSearchCmd
		if opts == nil {
			cmd = rdb.FTSearch(ctx, searchIndex, query)
		} else {
			cmd = rdb.FTSearchWithArgs(ctx, searchIndex, query, opts)
		}
		res, err := cmd.Result()
		if err != nil {
			return fmt.Errorf("FT.SEARCH %s %q: %w", searchIndex, query, err)
		}
		printDocs(w, res, line)
		return nil
	}
}
