// Package websearch implements the web-search collaborator against the
// DuckDuckGo HTML endpoint, which works without an API key.
package websearch

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

const Source = "DuckDuckGo"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a search client. baseURL is overridable for tests; pass
// an empty string for the real endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second}, //nolint:exhaustruct // defaults are fine
		baseURL:    baseURL,
	}
}

// TextSearch runs a text search and returns up to limit results.
func (c *Client) TextSearch(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	endpoint := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create search request")
	}
	// The HTML endpoint rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bookinator/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "execute search request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Sprintf("search returned status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse search response")
	}

	var results []models.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a")
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		href, _ := link.Attr("href")
		results = append(results, models.SearchResult{ //nolint:exhaustruct // Err stays empty on success
			Title:   title,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
			URL:     href,
			Source:  Source,
		})
		return len(results) < limit
	})

	return results, nil
}
