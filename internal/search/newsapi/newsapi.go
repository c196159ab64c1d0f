// Package newsapi adapts NewsAPI's /v2/everything endpoint into canonical
// article records. Failures never escape as Go errors on the search path;
// every outcome is a tagged SearchResponse.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/factsift/factsift/internal/sentiment"
)

// Response status tags.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Defaults substituted for missing provider fields.
const (
	DefaultTitle  = "No title"
	DefaultSource = "unknown"
)

// Article is a normalized candidate article. Every field is populated:
// missing provider values fall back to the documented defaults. Articles
// are immutable once constructed.
type Article struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Content     string              `json:"content"`
	Source      string              `json:"source"`
	URL         string              `json:"url"`
	PublishedAt string              `json:"published_at"`
	Sentiment   sentiment.Sentiment `json:"sentiment"`
}

// SearchResponse is the adapter's tagged result. Status is "success" or
// "error"; on error Message carries the reason and RawResponse the provider
// body when one was received.
type SearchResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"total_results"`
	Articles     []Article `json:"articles"`
	Message      string    `json:"message,omitempty"`
	RawResponse  string    `json:"raw_response,omitempty"`
}

// SearchOptions tune a single search call. Zero values mean provider
// defaults; a non-zero From becomes the from=YYYY-MM-DD filter.
type SearchOptions struct {
	Offset   int
	Count    int
	Language string
	From     time.Time
}

// Client calls NewsAPI. Sentiment, when set, annotates each returned
// article; searches still succeed without it.
type Client struct {
	APIKey     string
	Endpoint   string
	Language   string
	HTTPClient *http.Client
	Sentiment  *sentiment.Analyzer
}

// NewClient builds a NewsAPI client with the given credentials.
func NewClient(apiKey, endpoint, language string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		APIKey:     apiKey,
		Endpoint:   endpoint,
		Language:   language,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// rawResponse mirrors NewsAPI's JSON shape loosely; all article fields are
// optional on the wire.
type rawResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Search fetches candidate articles for query. It always returns a tagged
// response: transport failures, non-2xx statuses and malformed bodies all
// surface as {status: "error"}.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) SearchResponse {
	if c.APIKey == "" {
		return SearchResponse{Status: StatusError, Message: "NewsAPI key not configured"}
	}

	count := opts.Count
	if count <= 0 {
		count = 20
	}
	language := opts.Language
	if language == "" {
		language = c.Language
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("pageSize", strconv.Itoa(count))
	if opts.Offset > 0 {
		params.Add("page", strconv.Itoa(opts.Offset/count+1))
	}
	if language != "" {
		params.Add("language", language)
	}
	if !opts.From.IsZero() {
		params.Add("from", opts.From.Format("2006-01-02"))
	}
	params.Add("apiKey", c.APIKey)

	reqURL := fmt.Sprintf("%s?%s", c.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return SearchResponse{Status: StatusError, Message: fmt.Sprintf("failed to build request: %v", err)}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return SearchResponse{Status: StatusError, Message: fmt.Sprintf("failed to fetch news: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SearchResponse{Status: StatusError, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return SearchResponse{
			Status:      StatusError,
			Message:     fmt.Sprintf("newsapi error: %s", resp.Status),
			RawResponse: string(body),
		}
	}

	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return SearchResponse{
			Status:      StatusError,
			Message:     fmt.Sprintf("failed to decode response: %v", err),
			RawResponse: string(body),
		}
	}
	if raw.Status != "ok" {
		return SearchResponse{
			Status:      StatusError,
			Message:     "Failed to fetch news",
			RawResponse: string(body),
		}
	}

	articles := make([]Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		article := Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		}
		if article.Title == "" {
			article.Title = DefaultTitle
		}
		if article.Source == "" {
			article.Source = DefaultSource
		}
		if c.Sentiment != nil {
			article.Sentiment = c.Sentiment.Polarity(article.Title + ". " + article.Description)
		} else {
			article.Sentiment = sentiment.Sentiment{Label: sentiment.LabelNeutral}
		}
		articles = append(articles, article)
	}

	return SearchResponse{
		Status:       StatusSuccess,
		TotalResults: raw.TotalResults,
		Articles:     articles,
	}
}
