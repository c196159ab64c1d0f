// Package twitter fetches recent posts mentioning a topic from the
// Twitter/X v2 recent-search endpoint and ranks them by engagement. Like
// the news adapter, it never raises: every outcome is a tagged record.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Response status tags.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// maxResultsCap is the hard upper bound on requested tweets, regardless of
// what the caller asks for.
const maxResultsCap = 100

// Tweet is a single social post with its engagement metrics.
type Tweet struct {
	Text      string `json:"text"`
	Likes     int    `json:"likes"`
	Retweets  int    `json:"retweets"`
	Replies   int    `json:"replies"`
	CreatedAt string `json:"created_at"`
	AuthorID  string `json:"author_id"`
}

// Engagement is the ranking key: likes plus retweets.
func (t Tweet) Engagement() int {
	return t.Likes + t.Retweets
}

// SocialSignals is the aggregator's tagged result. On success Tweets is
// sorted descending by engagement.
type SocialSignals struct {
	Status  string  `json:"status"`
	Tweets  []Tweet `json:"tweets,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Client calls the recent-search endpoint with a bearer credential.
type Client struct {
	BearerToken string
	Endpoint    string
	HTTPClient  *http.Client
}

// NewClient builds a Twitter client. The bearer token comes from
// configuration, never from source literals.
func NewClient(bearerToken, endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BearerToken: bearerToken,
		Endpoint:    endpoint,
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

type rawResponse struct {
	Data []struct {
		Text          string `json:"text"`
		CreatedAt     string `json:"created_at"`
		AuthorID      string `json:"author_id"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Detail string `json:"detail"`
}

// SocialSignals fetches recent tweets for topic, capped at 100 results.
// Missing credential, non-200 responses and transport failures all come
// back as {status: "error"}.
func (c *Client) SocialSignals(ctx context.Context, topic string, maxResults int) SocialSignals {
	if c.BearerToken == "" {
		return SocialSignals{Status: StatusError, Message: "Twitter bearer token not found"}
	}

	if maxResults <= 0 {
		maxResults = 20
	}
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	params := url.Values{}
	params.Add("query", topic)
	params.Add("max_results", strconv.Itoa(maxResults))
	params.Add("tweet.fields", "created_at,public_metrics,text,author_id")

	reqURL := fmt.Sprintf("%s?%s", c.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return SocialSignals{Status: StatusError, Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.BearerToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return SocialSignals{Status: StatusError, Message: fmt.Sprintf("error fetching social signals: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SocialSignals{Status: StatusError, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	var raw rawResponse
	decodeErr := json.Unmarshal(body, &raw)

	if resp.StatusCode != http.StatusOK || decodeErr != nil || raw.Data == nil {
		message := raw.Detail
		if message == "" {
			message = "Failed to fetch tweets"
		}
		return SocialSignals{Status: StatusError, Message: message}
	}

	tweets := make([]Tweet, 0, len(raw.Data))
	for _, d := range raw.Data {
		tweets = append(tweets, Tweet{
			Text:      d.Text,
			Likes:     d.PublicMetrics.LikeCount,
			Retweets:  d.PublicMetrics.RetweetCount,
			Replies:   d.PublicMetrics.ReplyCount,
			CreatedAt: d.CreatedAt,
			AuthorID:  d.AuthorID,
		})
	}
	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].Engagement() > tweets[j].Engagement()
	})

	return SocialSignals{Status: StatusSuccess, Tweets: tweets}
}
