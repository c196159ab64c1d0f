package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSocialSignalsRankedByEngagement(t *testing.T) {
	t.Parallel()
	var gotAuth string
	var gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMax = r.URL.Query().Get("max_results")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [
			{"text":"quiet","author_id":"1","created_at":"2026-08-30T10:00:00Z","public_metrics":{"like_count":1,"retweet_count":1,"reply_count":0}},
			{"text":"viral","author_id":"2","created_at":"2026-08-30T11:00:00Z","public_metrics":{"like_count":400,"retweet_count":100,"reply_count":20}},
			{"text":"medium","author_id":"3","created_at":"2026-08-30T12:00:00Z","public_metrics":{"like_count":30,"retweet_count":10,"reply_count":2}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("token", srv.URL, 5*time.Second)
	got := c.SocialSignals(context.Background(), "some topic", 250)

	if got.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", got)
	}
	if gotAuth != "Bearer token" {
		t.Fatalf("authorization header got %q", gotAuth)
	}
	if gotMax != "100" {
		t.Fatalf("max_results should be capped at 100, got %q", gotMax)
	}
	if len(got.Tweets) != 3 {
		t.Fatalf("expected 3 tweets, got %d", len(got.Tweets))
	}
	for i, want := range []string{"viral", "medium", "quiet"} {
		if got.Tweets[i].Text != want {
			t.Fatalf("rank %d got %q, want %q", i, got.Tweets[i].Text, want)
		}
	}
	v := got.Tweets[0]
	if v.Likes != 400 || v.Retweets != 100 || v.Replies != 20 || v.AuthorID != "2" {
		t.Fatalf("unexpected tweet fields: %+v", v)
	}
}

func TestSocialSignalsMissingToken(t *testing.T) {
	t.Parallel()
	c := NewClient("", "http://example.invalid", time.Second)
	got := c.SocialSignals(context.Background(), "topic", 20)
	if got.Status != StatusError || got.Message == "" {
		t.Fatalf("expected error record, got %+v", got)
	}
}

func TestSocialSignalsNon200(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"Too Many Requests"}`))
	}))
	defer srv.Close()

	c := NewClient("token", srv.URL, time.Second)
	got := c.SocialSignals(context.Background(), "topic", 20)
	if got.Status != StatusError {
		t.Fatalf("expected error status, got %+v", got)
	}
	if got.Message != "Too Many Requests" {
		t.Fatalf("expected provider detail passthrough, got %q", got.Message)
	}
}

func TestSocialSignalsTransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient("token", srv.URL, time.Second)
	got := c.SocialSignals(context.Background(), "topic", 20)
	if got.Status != StatusError {
		t.Fatalf("expected error status, got %+v", got)
	}
}

func TestSocialSignalsEmptyData(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"result_count":0}}`))
	}))
	defer srv.Close()

	c := NewClient("token", srv.URL, time.Second)
	got := c.SocialSignals(context.Background(), "topic", 20)
	if got.Status != StatusError {
		t.Fatalf("missing data key should be an error record, got %+v", got)
	}
}
