// Package newsapi fetches player headlines from NewsAPI. When no key is
// configured, or the upstream fails, it degrades to static placeholder
// articles so profile pages keep rendering.
package newsapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/statlinehq/statline/external/providerhttp"
	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/platform/logging"
)

const (
	defaultBaseURL = "https://newsapi.org"

	searchTTL = time.Hour
)

type ClientConfig struct {
	Transport providerhttp.Config
	BaseURL   string
	APIKey    string
	Logger    *logging.Logger
	Now       func() time.Time
}

type Client struct {
	http   *providerhttp.Client
	apiKey string
	logger *logging.Logger
	now    func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	transport := cfg.Transport
	if transport.Name == "" {
		transport.Name = "newsapi"
	}
	transport.BaseURL = firstNonEmpty(cfg.BaseURL, defaultBaseURL)
	transport.Secret = apiKey

	return &Client{
		http:   providerhttp.NewClient(transport),
		apiKey: apiKey,
		logger: logger,
		now:    now,
	}
}

// Search returns recent articles mentioning the query, newest first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]player.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		limit = 5
	}
	if c.apiKey == "" {
		return c.placeholderArticles(query, limit), nil
	}

	params := map[string]string{
		"q":        query,
		"language": "en",
		"sortBy":   "publishedAt",
		"pageSize": strconv.Itoa(limit),
		"apiKey":   c.apiKey,
	}
	var envelope struct {
		Articles []articleItem `json:"articles"`
	}
	if _, err := c.http.GetJSON(ctx, "/v2/everything", params, searchTTL, &envelope); err != nil {
		c.logger.WarnContext(ctx, "news search failed, serving placeholders", "query", query, "error", err)
		return c.placeholderArticles(query, limit), nil
	}

	out := make([]player.Article, 0, len(envelope.Articles))
	for _, item := range envelope.Articles {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		out = append(out, player.Article{
			Title:       item.Title,
			Source:      firstNonEmpty(item.Source.Name, "Unknown"),
			PublishedAt: item.PublishedAt,
			Excerpt:     item.Description,
			URL:         firstNonEmpty(item.URL, "#"),
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *Client) placeholderArticles(name string, limit int) []player.Article {
	now := c.now()
	items := []player.Article{
		{
			Title:       name + " continues impressive season performance",
			Source:      "Sports News",
			PublishedAt: now.AddDate(0, 0, -2).Format("2006-01-02"),
			Excerpt:     "Latest updates on player performance and team dynamics.",
			URL:         "#",
		},
		{
			Title:       "Team announces " + name + " contract extension",
			Source:      "ESPN",
			PublishedAt: now.AddDate(0, 0, -5).Format("2006-01-02"),
			Excerpt:     "Breaking news about player contract negotiations.",
			URL:         "#",
		},
		{
			Title:       name + " shines in recent game",
			Source:      "Bleacher Report",
			PublishedAt: now.AddDate(0, 0, -7).Format("2006-01-02"),
			Excerpt:     "Game highlights and player statistics breakdown.",
			URL:         "#",
		},
	}
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

type articleItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
