package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"redis_walkthrough/src/model"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/ollama/ollama/api"
)

// Ollama embeds text with a model served by a local Ollama instance
type Ollama struct {
	client *api.Client
	model  string
}

var _ embedding.Embedder = (*Ollama)(nil)

// NewOllama creates an embedder for cfg.Host. A nil httpClient uses
// http.DefaultClient.
func NewOllama(cfg model.EmbeddingConfig, httpClient *http.Client) (*Ollama, error) {
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OLLAMA_HOST: %w", err)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("EMBEDDING_MODEL is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Ollama{
		client: api.NewClient(base, httpClient),
		model:  cfg.Model,
	}, nil
}

// EmbedStrings returns one L2-normalized vector per text, in input order
func (o *Ollama) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	options := embedding.GetCommonOptions(&embedding.Options{Model: &o.model}, opts...)
	modelName := o.model
	if options.Model != nil && *options.Model != "" {
		modelName = *options.Model
	}

	resp, err := o.client.Embed(ctx, &api.EmbedRequest{
		Model: modelName,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d texts with %s: %w", len(texts), modelName, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings from %s, got %d", len(texts), modelName, len(resp.Embeddings))
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		v := make([]float64, len(emb))
		for j, x := range emb {
			v[j] = float64(x)
		}
		vectors[i] = Normalize(v)
	}
	return vectors, nil
}
