package credibility

import (
	"github.com/factsift/factsift/internal/search/newsapi"
	"github.com/factsift/factsift/internal/social/twitter"
)

// Operation status tags. No engine operation raises; failures come back as
// records carrying StatusError.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Relevance tags for qualifying articles.
const (
	RelevanceHigh   = "High"
	RelevanceMedium = "Medium"
)

// Assessment labels shared by both scoring strategies.
const (
	AssessmentHighlyVerified    = "highly verified"
	AssessmentPartiallyVerified = "partially verified"
	AssessmentUnverified        = "unverified"
)

// ScoredArticle is a candidate article annotated with its similarity to the
// topic, its source weight and a relevance tag. Only candidates at or above
// the similarity threshold become ScoredArticles.
type ScoredArticle struct {
	newsapi.Article
	SimilarityScore   float64 `json:"similarity_score"`
	SourceCredibility float64 `json:"source_credibility"`
	Relevance         string  `json:"relevance"`
}

// VerificationResult is the outcome of verifying a topic against news and
// social sources.
type VerificationResult struct {
	Status               string                `json:"status"`
	Message              string                `json:"message,omitempty"`
	FoundMatches         bool                  `json:"found_matches"`
	RelatedArticles      []ScoredArticle       `json:"related_articles"`
	TotalMatches         int                   `json:"total_matches"`
	RelevantMatches      int                   `json:"relevant_matches"`
	AvgSourceCredibility float64               `json:"avg_source_credibility"`
	SocialSignals        twitter.SocialSignals `json:"social_signals"`
	SocialScore          float64               `json:"social_score"`
	CombinedScore        float64               `json:"combined_score"`
	Assessment           string                `json:"assessment"`
}

// Assessment is the outcome of the coverage-count scoring strategy. It
// carries the underlying VerificationResult it was derived from.
type Assessment struct {
	Status              string             `json:"status"`
	Message             string             `json:"message,omitempty"`
	CredibilityScore    float64            `json:"credibility_score"`
	VerificationResults VerificationResult `json:"verification_results"`
	Assessment          string             `json:"assessment,omitempty"`
}
