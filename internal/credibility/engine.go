// Package credibility combines news search, semantic relevance, source
// weights and social engagement into trust scores for a topic. Two scoring
// strategies coexist deliberately: VerifyTopic blends source credibility
// with social engagement, AnalyzeCredibility scores coverage counts.
package credibility

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/factsift/factsift/config"
	"github.com/factsift/factsift/internal/helpers"
	"github.com/factsift/factsift/internal/relevance"
	"github.com/factsift/factsift/internal/search/newsapi"
	"github.com/factsift/factsift/internal/sentiment"
	"github.com/factsift/factsift/internal/social/twitter"
	"github.com/factsift/factsift/internal/sources"
	"github.com/factsift/factsift/internal/telemetry"
)

// Scoring parameters.
const (
	// DefaultSimilarityThreshold qualifies a candidate as a relevant match.
	DefaultSimilarityThreshold = 0.5
	// highRelevanceCutoff separates High from Medium relevance.
	highRelevanceCutoff = 0.7

	// Combined score blend weights.
	sourceWeight = 0.7
	socialWeight = 0.3

	// Social score: engagement of the top-ranked tweets, saturating at the cap.
	socialTopTweets     = 10
	socialEngagementCap = 500.0

	// Assessment cutoffs, shared by both strategies.
	highlyVerifiedCutoff    = 0.7
	partiallyVerifiedCutoff = 0.4

	// Coverage-count strategy parameters.
	relevantMatchWeight = 0.2
	relevantMatchCap    = 0.7
	totalMatchWeight    = 0.01
	totalMatchCap       = 0.3

	relatedArticlesLimit = 5
)

// Human-readable messages for the coverage-count strategy.
const (
	msgWideCoverage    = "Topic widely covered across reliable sources"
	msgSomeCoverage    = "Topic found in some reliable sources"
	msgLimitedCoverage = "Limited or no coverage in reliable sources"
)

// errCouldNotVerify hides adapter error detail from callers; the adapter's
// own message stays in its logs.
const errCouldNotVerify = "Could not verify against news sources"

// SearchProvider fetches candidate articles for a query.
type SearchProvider interface {
	Search(ctx context.Context, query string, opts newsapi.SearchOptions) newsapi.SearchResponse
}

// SocialProvider fetches ranked social posts mentioning a topic.
type SocialProvider interface {
	SocialSignals(ctx context.Context, topic string, maxResults int) twitter.SocialSignals
}

// SentimentScorer maps free text to a bounded polarity result.
type SentimentScorer interface {
	Polarity(text string) sentiment.Sentiment
}

// CredibilityTable resolves a domain to a weight in [0,1].
type CredibilityTable interface {
	Lookup(domain string) float64
}

// Engine orchestrates the scoring pipeline. All collaborators are injected;
// the engine holds no package-level state and is safe for concurrent use.
type Engine struct {
	search    SearchProvider
	social    SocialProvider
	scorer    relevance.Scorer
	sentiment SentimentScorer
	table     CredibilityTable
	cfg       config.VerificationConfig
	logger    *log.Logger
	metrics   *telemetry.Telemetry
}

// Deps gathers the engine's injected collaborators. Logger and Metrics are
// optional; everything else is required.
type Deps struct {
	Search    SearchProvider
	Social    SocialProvider
	Scorer    relevance.Scorer
	Sentiment SentimentScorer
	Table     CredibilityTable
	Config    config.VerificationConfig
	Logger    *log.Logger
	Metrics   *telemetry.Telemetry
}

// NewEngine builds an Engine from its dependencies.
func NewEngine(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[ENGINE] ", log.LstdFlags)
	}
	cfg := deps.Config
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.SearchCount == 0 {
		cfg.SearchCount = 20
	}
	if cfg.SocialMaxResults == 0 {
		cfg.SocialMaxResults = 20
	}
	return &Engine{
		search:    deps.Search,
		social:    deps.Social,
		scorer:    deps.Scorer,
		sentiment: deps.Sentiment,
		table:     deps.Table,
		cfg:       cfg,
		logger:    logger,
		metrics:   deps.Metrics,
	}
}

// VerifyOptions tune a single VerifyTopic call. Zero values fall back to
// the engine's configured defaults.
type VerifyOptions struct {
	// SimilarityThreshold is the minimum similarity for a candidate to
	// count as a relevant match.
	SimilarityThreshold float64
	// DaysBack restricts the news search to articles published within the
	// last N days. Zero means no date filter.
	DaysBack int
}

// VerifyTopic verifies a topic against news and social sources and blends
// source credibility with social engagement into a combined score. It never
// returns a Go error or panics: every failure is a StatusError record.
func (e *Engine) VerifyTopic(ctx context.Context, topic string, opts VerifyOptions) (result VerificationResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("recovered during verification of %q: %v", topic, r)
			result = VerificationResult{
				Status:  StatusError,
				Message: fmt.Sprintf("Error during verification: %v", r),
			}
			e.metrics.RecordVerification("verify_topic", "error")
		}
	}()

	threshold := opts.SimilarityThreshold
	if threshold == 0 {
		threshold = e.cfg.SimilarityThreshold
	}

	searchOpts := newsapi.SearchOptions{Count: e.cfg.SearchCount}
	if opts.DaysBack > 0 {
		searchOpts.From = time.Now().AddDate(0, 0, -opts.DaysBack)
	}

	searchStart := time.Now()
	resp := e.search.Search(ctx, topic, searchOpts)
	e.metrics.ObserveCollaborator("newsapi", time.Since(searchStart))

	if resp.Status != newsapi.StatusSuccess {
		e.logger.Printf("search failed for %q: %s", topic, resp.Message)
		e.metrics.RecordVerification("verify_topic", "error")
		return VerificationResult{Status: StatusError, Message: errCouldNotVerify}
	}

	texts := make([]string, len(resp.Articles))
	for i, a := range resp.Articles {
		texts[i] = candidateText(a)
	}

	scoreStart := time.Now()
	similarities, err := e.scorer.ScoreAll(ctx, topic, texts)
	e.metrics.ObserveCollaborator("relevance", time.Since(scoreStart))
	if err != nil {
		e.logger.Printf("relevance scoring failed for %q: %v", topic, err)
		e.metrics.RecordVerification("verify_topic", "error")
		return VerificationResult{
			Status:  StatusError,
			Message: fmt.Sprintf("Error during verification: %v", err),
		}
	}

	credibilities := make([]float64, 0, len(resp.Articles))
	var relevant []ScoredArticle
	for i, a := range resp.Articles {
		domain := helpers.ExtractDomain(a.URL)
		cred := e.table.Lookup(domain)
		// Every candidate contributes to the source average, qualifying or not.
		credibilities = append(credibilities, cred)

		if similarities[i] < threshold {
			continue
		}
		article := a
		if e.sentiment != nil {
			article.Sentiment = e.sentiment.Polarity(texts[i])
		}
		rel := RelevanceMedium
		if similarities[i] > highRelevanceCutoff {
			rel = RelevanceHigh
		}
		relevant = append(relevant, ScoredArticle{
			Article:           article,
			SimilarityScore:   similarities[i],
			SourceCredibility: cred,
			Relevance:         rel,
		})
	}

	avgCredibility := sources.DefaultCredibility
	if len(credibilities) > 0 {
		var sum float64
		for _, c := range credibilities {
			sum += c
		}
		avgCredibility = sum / float64(len(credibilities))
	}

	socialStart := time.Now()
	signals := e.social.SocialSignals(ctx, topic, e.cfg.SocialMaxResults)
	e.metrics.ObserveCollaborator("twitter", time.Since(socialStart))

	socialScore := SocialScore(signals)
	combined := CombinedScore(avgCredibility, socialScore)

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].SimilarityScore > relevant[j].SimilarityScore
	})
	related := relevant
	if len(related) > relatedArticlesLimit {
		related = related[:relatedArticlesLimit]
	}

	e.metrics.RecordVerification("verify_topic", "success")
	return VerificationResult{
		Status:               StatusSuccess,
		FoundMatches:         len(relevant) > 0,
		RelatedArticles:      related,
		TotalMatches:         len(resp.Articles),
		RelevantMatches:      len(relevant),
		AvgSourceCredibility: avgCredibility,
		SocialSignals:        signals,
		SocialScore:          socialScore,
		CombinedScore:        combined,
		Assessment:           AssessmentFor(combined),
	}
}

// AnalyzeCredibility scores a topic by how widely it is covered: a base
// score from relevant matches plus a bonus from total coverage. This is a
// deliberately different formula from VerifyTopic's combined score. The
// text argument is part of the public contract for article-level analysis;
// the coverage strategy scores the topic alone.
func (e *Engine) AnalyzeCredibility(ctx context.Context, text, topic string) Assessment {
	verification := e.VerifyTopic(ctx, topic, VerifyOptions{})
	if verification.Status != StatusSuccess {
		e.metrics.RecordVerification("analyze_credibility", "error")
		return Assessment{Status: StatusError, Message: verification.Message}
	}

	score := CoverageScore(verification.RelevantMatches, verification.TotalMatches)

	var label, message string
	switch {
	case score >= highlyVerifiedCutoff:
		label, message = AssessmentHighlyVerified, msgWideCoverage
	case score >= partiallyVerifiedCutoff:
		label, message = AssessmentPartiallyVerified, msgSomeCoverage
	default:
		label, message = AssessmentUnverified, msgLimitedCoverage
	}

	e.metrics.RecordVerification("analyze_credibility", "success")
	return Assessment{
		Status:              StatusSuccess,
		CredibilityScore:    score,
		VerificationResults: verification,
		Assessment:          label,
		Message:             message,
	}
}

// candidateText is the text compared against a topic: "{title}. {description}".
func candidateText(a newsapi.Article) string {
	return a.Title + ". " + a.Description
}

// SocialScore converts ranked social signals into [0,1]: total engagement
// of the first ten tweets over the saturation cap. Failed fetches score 0.
func SocialScore(signals twitter.SocialSignals) float64 {
	if signals.Status != twitter.StatusSuccess {
		return 0
	}
	tweets := signals.Tweets
	if len(tweets) > socialTopTweets {
		tweets = tweets[:socialTopTweets]
	}
	var engagement int
	for _, t := range tweets {
		engagement += t.Engagement()
	}
	return math.Min(float64(engagement)/socialEngagementCap, 1.0)
}

// CombinedScore blends source credibility and social engagement, rounded
// to two decimals.
func CombinedScore(avgCredibility, socialScore float64) float64 {
	return round2(sourceWeight*avgCredibility + socialWeight*socialScore)
}

// CoverageScore implements the coverage-count strategy: relevant matches
// are worth 0.2 each up to 0.7, total matches 0.01 each up to 0.3.
func CoverageScore(relevantMatches, totalMatches int) float64 {
	base := math.Min(float64(relevantMatches)*relevantMatchWeight, relevantMatchCap)
	bonus := math.Min(float64(totalMatches)*totalMatchWeight, totalMatchCap)
	return math.Min(base+bonus, 1.0)
}

// AssessmentFor maps a combined score to its label.
func AssessmentFor(combined float64) string {
	switch {
	case combined >= highlyVerifiedCutoff:
		return AssessmentHighlyVerified
	case combined >= partiallyVerifiedCutoff:
		return AssessmentPartiallyVerified
	default:
		return AssessmentUnverified
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
