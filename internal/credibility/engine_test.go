package credibility

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/factsift/factsift/config"
	"github.com/factsift/factsift/internal/search/newsapi"
	"github.com/factsift/factsift/internal/sentiment"
	"github.com/factsift/factsift/internal/social/twitter"
	"github.com/factsift/factsift/internal/sources"
)

type fakeSearch struct {
	resp newsapi.SearchResponse
	opts newsapi.SearchOptions
}

func (f *fakeSearch) Search(ctx context.Context, query string, opts newsapi.SearchOptions) newsapi.SearchResponse {
	f.opts = opts
	return f.resp
}

type fakeSocial struct {
	signals twitter.SocialSignals
}

func (f *fakeSocial) SocialSignals(ctx context.Context, topic string, maxResults int) twitter.SocialSignals {
	return f.signals
}

type fakeScorer struct {
	scores []float64
	err    error
	panics bool
}

func (f *fakeScorer) ScoreAll(ctx context.Context, topic string, texts []string) ([]float64, error) {
	if f.panics {
		panic("scorer exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func articlesFixture(n int) []newsapi.Article {
	out := make([]newsapi.Article, n)
	for i := range out {
		out[i] = newsapi.Article{
			Title:       fmt.Sprintf("Article %d", i),
			Description: fmt.Sprintf("Description %d", i),
			Source:      "Test Wire",
			URL:         fmt.Sprintf("https://www.reuters.com/story-%d", i),
			PublishedAt: "2026-08-30T10:00:00Z",
		}
	}
	return out
}

func newTestEngine(search SearchProvider, social SocialProvider, scorer *fakeScorer) *Engine {
	return NewEngine(Deps{
		Search:    search,
		Social:    social,
		Scorer:    scorer,
		Sentiment: sentiment.NewAnalyzer(),
		Table:     sources.NewTable(nil),
		Config:    config.VerificationConfig{},
	})
}

func TestVerifyTopicThresholdFiltering(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{
		Status:       newsapi.StatusSuccess,
		TotalResults: 3,
		Articles:     articlesFixture(3),
	}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusError, Message: "no creds"}}
	scorer := &fakeScorer{scores: []float64{0.9, 0.6, 0.3}}

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "test topic", VerifyOptions{})

	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.TotalMatches != 3 {
		t.Fatalf("TotalMatches got %d, want 3", result.TotalMatches)
	}
	if result.RelevantMatches != 2 {
		t.Fatalf("RelevantMatches got %d, want 2", result.RelevantMatches)
	}
	if !result.FoundMatches {
		t.Fatalf("expected FoundMatches")
	}

	if len(result.RelatedArticles) != 2 {
		t.Fatalf("expected 2 related articles, got %d", len(result.RelatedArticles))
	}
	if result.RelatedArticles[0].Relevance != RelevanceHigh {
		t.Fatalf("similarity 0.9 should be High, got %q", result.RelatedArticles[0].Relevance)
	}
	if result.RelatedArticles[1].Relevance != RelevanceMedium {
		t.Fatalf("similarity 0.6 should be Medium, got %q", result.RelatedArticles[1].Relevance)
	}
	if result.RelatedArticles[0].Sentiment.Label == "" {
		t.Fatalf("expected per-article sentiment to be populated")
	}

	// All three reuters.com candidates count toward the average, not just the two relevant ones.
	want := sources.NewTable(nil).Lookup("reuters.com")
	if math.Abs(result.AvgSourceCredibility-want) > 1e-9 {
		t.Fatalf("AvgSourceCredibility got %v, want %v", result.AvgSourceCredibility, want)
	}
}

func TestVerifyTopicRelatedSortedAndTruncated(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{
		Status:   newsapi.StatusSuccess,
		Articles: articlesFixture(7),
	}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusError}}
	scorer := &fakeScorer{scores: []float64{0.55, 0.95, 0.8, 0.6, 0.9, 0.7, 0.85}}

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "topic", VerifyOptions{})

	if result.RelevantMatches != 7 {
		t.Fatalf("RelevantMatches got %d, want 7", result.RelevantMatches)
	}
	if len(result.RelatedArticles) != 5 {
		t.Fatalf("related articles should truncate to 5, got %d", len(result.RelatedArticles))
	}
	wantOrder := []float64{0.95, 0.9, 0.85, 0.8, 0.7}
	for i, want := range wantOrder {
		if got := result.RelatedArticles[i].SimilarityScore; got != want {
			t.Fatalf("rank %d got similarity %v, want %v", i, got, want)
		}
	}
}

func TestVerifyTopicSearchError(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{
		Status:  newsapi.StatusError,
		Message: "newsapi error: 500 Internal Server Error",
	}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusSuccess}}
	scorer := &fakeScorer{panics: true} // must never be reached

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "topic", VerifyOptions{})

	if result.Status != StatusError {
		t.Fatalf("expected error status, got %+v", result)
	}
	if result.Message != "Could not verify against news sources" {
		t.Fatalf("adapter detail must be discarded, got %q", result.Message)
	}
	if result.TotalMatches != 0 || len(result.RelatedArticles) != 0 {
		t.Fatalf("no scoring should happen after a search error: %+v", result)
	}
}

func TestVerifyTopicNoCandidatesDefaultsCredibility(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{Status: newsapi.StatusSuccess}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusError}}
	scorer := &fakeScorer{}

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "topic", VerifyOptions{})

	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.AvgSourceCredibility != 0.5 {
		t.Fatalf("empty candidate set should default avg credibility to 0.5, got %v", result.AvgSourceCredibility)
	}
	if result.FoundMatches || result.TotalMatches != 0 {
		t.Fatalf("unexpected matches: %+v", result)
	}
}

func TestVerifyTopicCustomThreshold(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{
		Status:   newsapi.StatusSuccess,
		Articles: articlesFixture(3),
	}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusError}}
	scorer := &fakeScorer{scores: []float64{0.9, 0.6, 0.3}}

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "topic", VerifyOptions{SimilarityThreshold: 0.8})

	if result.RelevantMatches != 1 {
		t.Fatalf("threshold 0.8 should keep 1 match, got %d", result.RelevantMatches)
	}
	if result.TotalMatches != 3 {
		t.Fatalf("TotalMatches got %d, want 3", result.TotalMatches)
	}
}

func TestVerifyTopicDaysBackForwarded(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{Status: newsapi.StatusSuccess}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusError}}
	scorer := &fakeScorer{}
	engine := newTestEngine(search, social, scorer)

	engine.VerifyTopic(context.Background(), "topic", VerifyOptions{DaysBack: 7})
	if search.opts.From.IsZero() {
		t.Fatalf("DaysBack should set the search From filter")
	}

	engine.VerifyTopic(context.Background(), "topic", VerifyOptions{})
	if !search.opts.From.IsZero() {
		t.Fatalf("no DaysBack should leave the From filter unset")
	}
}

func TestVerifyTopicPanicRecovered(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{
		Status:   newsapi.StatusSuccess,
		Articles: articlesFixture(1),
	}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusSuccess}}
	scorer := &fakeScorer{panics: true}

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "topic", VerifyOptions{})

	if result.Status != StatusError {
		t.Fatalf("panic should convert to an error record, got %+v", result)
	}
	if result.Message != "Error during verification: scorer exploded" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestVerifyTopicScorerError(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{
		Status:   newsapi.StatusSuccess,
		Articles: articlesFixture(1),
	}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusSuccess}}
	scorer := &fakeScorer{err: errors.New("embedding API down")}

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "topic", VerifyOptions{})

	if result.Status != StatusError {
		t.Fatalf("expected error record, got %+v", result)
	}
	if result.Message != "Error during verification: embedding API down" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestSocialScore(t *testing.T) {
	t.Parallel()
	makeSignals := func(engagements ...int) twitter.SocialSignals {
		s := twitter.SocialSignals{Status: twitter.StatusSuccess}
		for _, e := range engagements {
			s.Tweets = append(s.Tweets, twitter.Tweet{Likes: e})
		}
		return s
	}

	tests := []struct {
		name    string
		signals twitter.SocialSignals
		want    float64
	}{
		{name: "failed fetch scores zero", signals: twitter.SocialSignals{Status: twitter.StatusError}, want: 0},
		{name: "no tweets", signals: makeSignals(), want: 0},
		{name: "below cap", signals: makeSignals(100, 150), want: 0.5},
		{name: "at cap", signals: makeSignals(500), want: 1},
		{name: "above cap", signals: makeSignals(400, 400), want: 1},
		{
			name:    "only first ten tweets count",
			signals: makeSignals(10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10000),
			want:    0.2,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := SocialScore(tt.signals); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("SocialScore got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSocialScoreMonotonic(t *testing.T) {
	t.Parallel()
	prev := -1.0
	for engagement := 0; engagement <= 600; engagement += 50 {
		signals := twitter.SocialSignals{
			Status: twitter.StatusSuccess,
			Tweets: []twitter.Tweet{{Likes: engagement}},
		}
		got := SocialScore(signals)
		if got < prev {
			t.Fatalf("score decreased at engagement %d: %v < %v", engagement, got, prev)
		}
		if got > 1 {
			t.Fatalf("score above cap at engagement %d: %v", engagement, got)
		}
		prev = got
	}
}

func TestCombinedScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		avg, social, want float64
	}{
		{0.8, 0.5, 0.71},
		{0.5, 0, 0.35},
		{1, 1, 1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := CombinedScore(tt.avg, tt.social); got != tt.want {
			t.Fatalf("CombinedScore(%v, %v) got %v, want %v", tt.avg, tt.social, got, tt.want)
		}
	}
}

func TestAssessmentFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		combined float64
		want     string
	}{
		{0.71, AssessmentHighlyVerified},
		{0.7, AssessmentHighlyVerified},
		{0.69, AssessmentPartiallyVerified},
		{0.4, AssessmentPartiallyVerified},
		{0.39, AssessmentUnverified},
		{0, AssessmentUnverified},
	}
	for _, tt := range tests {
		if got := AssessmentFor(tt.combined); got != tt.want {
			t.Fatalf("AssessmentFor(%v) got %q, want %q", tt.combined, got, tt.want)
		}
	}
}

func TestVerifyTopicBlendsSocialScore(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{Status: newsapi.StatusSuccess}}
	social := &fakeSocial{signals: twitter.SocialSignals{
		Status: twitter.StatusSuccess,
		Tweets: []twitter.Tweet{{Likes: 200, Retweets: 50}},
	}}
	scorer := &fakeScorer{}

	result := newTestEngine(search, social, scorer).VerifyTopic(context.Background(), "topic", VerifyOptions{})

	if result.SocialScore != 0.5 {
		t.Fatalf("SocialScore got %v, want 0.5", result.SocialScore)
	}
	// avg defaults to 0.5 with no candidates: 0.7*0.5 + 0.3*0.5 = 0.5
	if result.CombinedScore != 0.5 {
		t.Fatalf("CombinedScore got %v, want 0.5", result.CombinedScore)
	}
	if result.Assessment != AssessmentPartiallyVerified {
		t.Fatalf("Assessment got %q", result.Assessment)
	}
}

func TestCoverageScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		relevant, total int
		want            float64
	}{
		{3, 10, 0.7},  // base 0.6 + bonus 0.1
		{0, 0, 0},
		{4, 0, 0.7},   // base capped at 0.7
		{10, 100, 1},  // both capped: 0.7 + 0.3
		{1, 5, 0.25},  // base 0.2 + bonus 0.05
		{2, 35, 0.7},  // bonus capped at 0.3
	}
	for _, tt := range tests {
		got := CoverageScore(tt.relevant, tt.total)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("CoverageScore(%d, %d) got %v, want %v", tt.relevant, tt.total, got, tt.want)
		}
	}
}

func TestAnalyzeCredibility(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{
		Status:   newsapi.StatusSuccess,
		Articles: articlesFixture(10),
	}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusError}}
	// 3 of 10 candidates clear the threshold.
	scorer := &fakeScorer{scores: []float64{0.9, 0.8, 0.6, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}}

	got := newTestEngine(search, social, scorer).AnalyzeCredibility(context.Background(), "article text", "topic")

	if got.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", got)
	}
	if math.Abs(got.CredibilityScore-0.7) > 1e-9 {
		t.Fatalf("CredibilityScore got %v, want 0.7", got.CredibilityScore)
	}
	if got.Assessment != AssessmentHighlyVerified {
		t.Fatalf("Assessment got %q, want %q", got.Assessment, AssessmentHighlyVerified)
	}
	if got.Message != "Topic widely covered across reliable sources" {
		t.Fatalf("Message got %q", got.Message)
	}
	if got.VerificationResults.RelevantMatches != 3 {
		t.Fatalf("embedded verification should carry 3 relevant matches, got %d", got.VerificationResults.RelevantMatches)
	}
}

func TestAnalyzeCredibilityVerificationError(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{resp: newsapi.SearchResponse{Status: newsapi.StatusError, Message: "down"}}
	social := &fakeSocial{signals: twitter.SocialSignals{Status: twitter.StatusError}}
	scorer := &fakeScorer{}

	got := newTestEngine(search, social, scorer).AnalyzeCredibility(context.Background(), "text", "topic")

	if got.Status != StatusError {
		t.Fatalf("expected error record, got %+v", got)
	}
	if got.Message != "Could not verify against news sources" {
		t.Fatalf("Message got %q", got.Message)
	}
	if got.CredibilityScore != 0 {
		t.Fatalf("no score should be computed on error, got %v", got.CredibilityScore)
	}
}
