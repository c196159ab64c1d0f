// Package relevance scores how closely candidate texts match a topic.
// Two strategies exist: semantic (embedding cosine similarity) and lexical
// (in-memory keyword index). Both produce scores comparable against the
// engine's similarity threshold.
package relevance

import (
	"context"
	"log"
	"math"

	"github.com/factsift/factsift/config"
	"github.com/factsift/factsift/provider"
	"github.com/redis/go-redis/v9"
)

// Scorer rates candidate texts against a topic. Scores are conventionally
// in [0,1]; the topic representation is computed once per call and reused
// across all candidates.
type Scorer interface {
	// ScoreAll returns one score per text, in input order.
	ScoreAll(ctx context.Context, topic string, texts []string) ([]float64, error)
}

// NewScorer builds the configured scorer. When the openai provider is
// selected but no API key is available it falls back to the lexical scorer
// so the service stays usable without credentials.
func NewScorer(cfg config.EmbeddingConfig, rdb *redis.Client, logger *log.Logger) Scorer {
	if cfg.Provider == "openai" && cfg.APIKey != "" {
		p, err := provider.NewProvider(cfg)
		if err == nil {
			return NewSemantic(p, cfg.Model, rdb)
		}
		logger.Printf("embedding provider unavailable, using lexical scorer: %v", err)
	}
	return NewLexical()
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ai := float64(a[i])
		bi := float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
