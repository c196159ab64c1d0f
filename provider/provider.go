package provider

import (
	"context"
	"errors"

	"github.com/factsift/factsift/config"
	openai_provider "github.com/factsift/factsift/provider/openai"
)

// Provider is the interface embedding implementations must satisfy. The
// model is stateless per call: identical input text yields identical vectors.
type Provider interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates an embedding client from configuration.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, errors.New("embedding api key not set (OPENAI_API_KEY)")
		}
		return openai_provider.NewClient(cfg.APIKey, cfg.Model, cfg.Endpoint, cfg.Timeout), nil
	default:
		return nil, errors.New("unsupported embedding provider")
	}
}
