package relevance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/factsift/factsift/provider"
	"github.com/redis/go-redis/v9"
)

const (
	embeddingCachePrefix = "emb:"
	embeddingCacheTTL    = 24 * time.Hour
)

// Semantic scores relevance by cosine similarity of embeddings. An optional
// Redis client caches vectors keyed by model and text digest, so repeated
// verifications of the same topic skip the embedding API.
type Semantic struct {
	provider provider.Provider
	model    string
	rdb      *redis.Client
}

// NewSemantic builds a semantic scorer. rdb may be nil to disable caching.
func NewSemantic(p provider.Provider, model string, rdb *redis.Client) *Semantic {
	return &Semantic{provider: p, model: model, rdb: rdb}
}

// ScoreAll embeds the topic and all candidate texts, then scores each
// candidate by cosine similarity to the topic vector. The topic is embedded
// once and the candidates go out in a single batch call.
func (s *Semantic) ScoreAll(ctx context.Context, topic string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([]string, 0, len(texts)+1)
	all = append(all, topic)
	all = append(all, texts...)

	vecs, err := s.embedCached(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	topicVec := vecs[0]
	scores := make([]float64, len(texts))
	for i, vec := range vecs[1:] {
		scores[i] = cosine(topicVec, vec)
	}
	return scores, nil
}

// embedCached resolves vectors from the cache where possible and embeds the
// remainder in one provider call. Cache failures are treated as misses.
func (s *Semantic) embedCached(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	var missing []int

	if s.rdb != nil {
		for i, text := range texts {
			if vec, ok := s.cacheGet(ctx, text); ok {
				vecs[i] = vec
			} else {
				missing = append(missing, i)
			}
		}
	} else {
		for i := range texts {
			missing = append(missing, i)
		}
	}

	if len(missing) == 0 {
		return vecs, nil
	}

	batch := make([]string, len(missing))
	for j, i := range missing {
		batch[j] = texts[i]
	}
	fresh, err := s.provider.CreateEmbedding(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missing) {
		return nil, errors.New("provider returned wrong number of embeddings")
	}

	for j, i := range missing {
		vecs[i] = fresh[j]
		if s.rdb != nil {
			s.cacheSet(ctx, texts[i], fresh[j])
		}
	}
	return vecs, nil
}

func (s *Semantic) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.model + "\x00" + text))
	return embeddingCachePrefix + hex.EncodeToString(sum[:])
}

func (s *Semantic) cacheGet(ctx context.Context, text string) ([]float32, bool) {
	val, err := s.rdb.Get(ctx, s.cacheKey(text)).Result()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal([]byte(val), &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (s *Semantic) cacheSet(ctx context.Context, text string, vec []float32) {
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	// Best effort; a failed write just means a re-embed next time.
	_ = s.rdb.Set(ctx, s.cacheKey(text), data, embeddingCacheTTL).Err()
}
