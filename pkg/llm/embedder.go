package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

// EmbedderConfig represents the configuration for an embedder.
type EmbedderConfig struct {
	Model   string
	BaseURL string // Ollama server URL
}

type embeddingModel interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder turns product descriptions into vectors.
type Embedder struct {
	Config EmbedderConfig
	embed  embeddingModel
}

func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest" // Default Ollama model
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}

	emb, err := ollama.New(ollama.WithModel(config.Model), ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &Embedder{
		Config: config,
		embed:  emb,
	}, nil
}

// Embed returns one vector per input text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := e.embed.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}
