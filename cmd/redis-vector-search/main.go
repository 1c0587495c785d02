package main

import (
	"os"

	"redis_walkthrough/internal/app"
	"redis_walkthrough/internal/demos"
	"redis_walkthrough/internal/embedding"
	"redis_walkthrough/internal/walkthrough"
)

func main() {
	os.Exit(app.Main("vector-search", func(env app.Env) (walkthrough.Walkthrough, error) {
		cfg := env.Config.EmbeddingConfig
		embedder, err := embedding.NewOllama(cfg, nil)
		if err != nil {
			return walkthrough.Walkthrough{}, err
		}
		env.Logger.Info().
			Str("model", cfg.Model).
			Int("dim", cfg.Dimension).
			Msg("Using Ollama embedder")

		return demos.VectorSearch(env.Redis, embedder, env.Console, cfg.Dimension)
	}))
}
