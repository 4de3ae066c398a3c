// Package newsapi is a thin client for the NewsAPI "everything" search
// endpoint, the pipeline's article source.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

// pageSize caps every search at one best-effort page. Pagination beyond the
// first 100 results is not implemented.
const pageSize = 100

// Client calls the NewsAPI /v2/everything endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a news search client with a bounded per-request timeout.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Search returns up to one page of English articles matching keyword,
// published inside [from, to], sorted by publication time. The returned
// articles do not yet carry a disaster type; tagging is the collector's job.
func (c *Client) Search(ctx context.Context, keyword string, from, to time.Time) ([]domain.RawArticle, error) {
	params := url.Values{
		"q":        {keyword},
		"from":     {from.UTC().Format("2006-01-02")},
		"to":       {to.UTC().Format("2006-01-02")},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("news API error: status %d: %s", resp.StatusCode, body)
	}

	var searchResp response
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if searchResp.Status != "ok" {
		return nil, fmt.Errorf("news API error: %s: %s", searchResp.Code, searchResp.Message)
	}

	return searchResp.Articles, nil
}

// NewsAPI response envelope.
type response struct {
	Status       string              `json:"status"`
	Code         string              `json:"code,omitempty"`
	Message      string              `json:"message,omitempty"`
	TotalResults int                 `json:"totalResults"`
	Articles     []domain.RawArticle `json:"articles"`
}
