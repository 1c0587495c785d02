package demos

import (
	"context"
	"fmt"
	"io"
	"strconv"

	emb "redis_walkthrough/internal/embedding"
	"redis_walkthrough/internal/fixtures"
	"redis_walkthrough/internal/walkthrough"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/redis/go-redis/v9"
)

const (
	vectorIndex  = "idx:vector_search"
	vectorPrefix = "vec:"
	vectorTopK   = 5

	defaultVectorQuery = "wireless headphones"
)

// VectorSearch embeds sample texts, stores them as FLOAT32 blobs in hashes
// and runs a KNN query for an operator-supplied phrase.
//
// Precondition: the embedder must produce vectors of exactly dim
// dimensions, the DIM the index is created with. A mismatch fails the step
// instead of being adjusted.
func VectorSearch(rdb redis.Cmdable, embedder embedding.Embedder, asker walkthrough.Asker, dim int) (walkthrough.Walkthrough, error) {
	samples, err := fixtures.VectorSamples()
	if err != nil {
		return walkthrough.Walkthrough{}, err
	}

	steps := []walkthrough.Step{
		{
			Name:      "connect",
			Narration: "Step 1: Connect to Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.Ping(ctx).Err()
			},
			Done: "Connected to Redis",
		},
		{
			Name:      "drop index",
			Narration: "Step 2: Create a vector search index. Any previous 'idx:vector_search' is dropped first.",
			Action: func(ctx context.Context, w io.Writer) error {
				return rdb.FTDropIndex(ctx, vectorIndex).Err()
			},
			Done:     "Existing index dropped.",
			Tolerate: []walkthrough.ErrorKind{walkthrough.KindNotFound},
			Ignored:  "No existing index to drop",
		},
		{
			Name:      "create index",
			Narration: fmt.Sprintf("The index covers hashes with prefix '%s': id (TEXT), content (TEXT), embedding (VECTOR FLAT FLOAT32, DIM %d, COSINE).", vectorPrefix, dim),
			Prompt:    "create the vector index",
			Action: func(ctx context.Context, w io.Writer) error {
				if err := rdb.FTCreate(ctx, vectorIndex, &redis.FTCreateOptions{
					OnHash: true,
					Prefix: []any{vectorPrefix},
				}, vectorSchema(dim)...).Err(); err != nil {
					return err
				}
				fmt.Fprintf(w, "Index '%s' created with vector dimension %d.\n", vectorIndex, dim)
				return nil
			},
		},
		{
			Name:      "insert samples",
			Narration: "Step 3: Insert sample data with vector embeddings into Redis",
			Action: func(ctx context.Context, w io.Writer) error {
				fmt.Fprintf(w, "Embedding and inserting %d documents into Redis...\n", len(samples))

				texts := make([]string, len(samples))
				for i, s := range samples {
					texts[i] = s.Content
				}
				vectors, err := embedder.EmbedStrings(ctx, texts)
				if err != nil {
					return err
				}
				if err := checkDimension(vectors, dim); err != nil {
					return err
				}

				for i, s := range samples {
					key := vectorPrefix + s.ID
					if err := rdb.HSet(ctx, key, map[string]any{
						"id":        s.ID,
						"content":   s.Content,
						"embedding": emb.Float32Bytes(vectors[i]),
					}).Err(); err != nil {
						return fmt.Errorf("HSET %s: %w", key, err)
					}
				}
				return nil
			},
			Done: "Sample data inserted successfully.",
		},
		{
			Name:      "knn search",
			Narration: "Step 4: Perform a vector similarity search",
			Prompt:    "enter a query",
			Action: func(ctx context.Context, w io.Writer) error {
				query, err := asker.Ask(ctx, fmt.Sprintf("Enter a query string to search for similar items (e.g., '%s'): ", defaultVectorQuery))
				if err != nil {
					return err
				}
				if query == "" {
					query = defaultVectorQuery
				}
				return knnSearch(ctx, w, rdb, embedder, query, dim)
			},
		},
	}

	return walkthrough.Walkthrough{
		Title:   "Redis Vector Search Lab",
		Steps:   steps,
		Closing: "Vector Search Lab Completed",
	}, nil
}

func vectorSchema(dim int) []*redis.FieldSchema {
	return []*redis.FieldSchema{
		{FieldName: "id", FieldType: redis.SearchFieldTypeText},
		{FieldName: "content", FieldType: redis.SearchFieldTypeText},
		{
			FieldName: "embedding",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            dim,
					DistanceMetric: "COSINE",
				},
			},
		},
	}
}

func knnSearch(ctx context.Context, w io.Writer, rdb redis.Cmdable, embedder embedding.Embedder, query string, dim int) error {
	vectors, err := embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return err
	}
	if err := checkDimension(vectors, dim); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSearching for top %d similar items to '%s' ...\n", vectorTopK, query)
	res, err := rdb.FTSearchWithArgs(ctx, vectorIndex,
		fmt.Sprintf("*=>[KNN %d @embedding $vec_param AS vector_score]", vectorTopK),
		&redis.FTSearchOptions{
			Params:         map[string]any{"vec_param": emb.Float32Bytes(vectors[0])},
			SortBy:         []redis.FTSearchSortBy{{FieldName: "vector_score", Asc: true}},
			Return:         []redis.FTSearchReturn{{FieldName: "content"}, {FieldName: "vector_score"}},
			DialectVersion: 2,
		}).Result()
	if err != nil {
		return fmt.Errorf("FT.SEARCH %s: %w", vectorIndex, err)
	}

	if res.Total == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	fmt.Fprintf(w, "Found %d results.\n", len(res.Docs))
	for i, doc := range res.Docs {
		score, err := strconv.ParseFloat(doc.Fields["vector_score"], 64)
		if err != nil {
			return fmt.Errorf("unexpected vector_score %q for %s: %w", doc.Fields["vector_score"], doc.ID, err)
		}
		fmt.Fprintf(w, "Result %d: content='%s', cosine distance=%.5f\n", i+1, doc.Fields["content"], score)
	}
	return nil
}

// checkDimension enforces that every vector matches the index DIM
func checkDimension(vectors [][]float64, dim int) error {
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("embedding %d has %d dimensions but the index expects %d; set VECTOR_DIM to match EMBEDDING_MODEL", i, len(v), dim)
		}
	}
	return nil
}
