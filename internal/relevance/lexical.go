package relevance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve"
)

// Lexical scores relevance with an in-memory keyword index. It is the
// fallback when no embedding provider is configured: any candidate matching
// the topic terms lands in [0.5,1] (so it clears the default similarity
// threshold, like the original keyword matching), scaled by match strength;
// non-matches score 0.
type Lexical struct{}

// NewLexical builds a lexical scorer.
func NewLexical() *Lexical {
	return &Lexical{}
}

type lexicalDoc struct {
	Text string `json:"text"`
}

// ScoreAll indexes the candidate texts into a throwaway mem-only index and
// queries it with the topic.
func (l *Lexical) ScoreAll(ctx context.Context, topic string, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores, nil
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	defer index.Close()

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := index.Index(strconv.Itoa(i), lexicalDoc{Text: text}); err != nil {
			return nil, fmt.Errorf("indexing candidate %d: %w", i, err)
		}
	}

	query := bleve.NewMatchQuery(topic)
	req := bleve.NewSearchRequestOptions(query, len(texts), 0, false)
	res, err := index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	if res.MaxScore <= 0 {
		return scores, nil
	}
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(scores) {
			continue
		}
		scores[i] = 0.5 + 0.5*(hit.Score/res.MaxScore)
	}
	return scores, nil
}
