package providers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"DailyDigest/internal/config"
	"DailyDigest/internal/domain"
	"DailyDigest/internal/ports"
)

// NewsClient fetches entertainment headlines from NewsAPI.
type NewsClient struct {
	baseURL  string
	apiKey   string
	country  string
	category string
	pageSize int
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.NewsSource = (*NewsClient)(nil)

// NewNewsClient builds a client from configuration.
func NewNewsClient(cfg config.NewsAPIConfig, logger *slog.Logger) *NewsClient {
	return &NewsClient{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		country:  cfg.Country,
		category: cfg.Category,
		pageSize: cfg.PageSize,
		client:   &http.Client{Timeout: listingTimeout},
		logger:   logger,
	}
}

type newsResponse struct {
	Status       string               `json:"status"`
	TotalResults int                  `json:"totalResults"`
	Articles     []domain.NewsArticle `json:"articles"`
}

// TopHeadlines returns today's headline listing, or an empty slice on any
// provider failure.
func (c *NewsClient) TopHeadlines(ctx context.Context) []domain.NewsArticle {
	query := url.Values{}
	query.Set("country", c.country)
	query.Set("category", c.category)
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	query.Set("apiKey", c.apiKey)

	var resp newsResponse
	if err := getJSON(ctx, c.client, c.baseURL+"/top-headlines?"+query.Encode(), &resp); err != nil {
		c.logger.Warn("top headlines fetch failed, returning empty result", "error", err)
		return []domain.NewsArticle{}
	}

	c.logger.Info("fetched top headlines", "count", len(resp.Articles))
	if resp.Articles == nil {
		return []domain.NewsArticle{}
	}
	return resp.Articles
}

// Search queries the everything endpoint sorted by publish time.
func (c *NewsClient) Search(ctx context.Context, q string) []domain.NewsArticle {
	query := url.Values{}
	query.Set("q", q)
	query.Set("language", "en")
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	query.Set("apiKey", c.apiKey)

	var resp newsResponse
	if err := getJSON(ctx, c.client, c.baseURL+"/everything?"+query.Encode(), &resp); err != nil {
		c.logger.Warn("news search failed, returning empty result", "query", q, "error", err)
		return []domain.NewsArticle{}
	}

	c.logger.Info("fetched news search results", "query", q, "count", len(resp.Articles))
	if resp.Articles == nil {
		return []domain.NewsArticle{}
	}
	return resp.Articles
}
