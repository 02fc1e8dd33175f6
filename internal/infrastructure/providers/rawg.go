package providers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"DailyDigest/internal/config"
	"DailyDigest/internal/domain"
	"DailyDigest/internal/ports"
)

// RAWGClient fetches game listings from the RAWG database.
type RAWGClient struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.GameSource = (*RAWGClient)(nil)

// NewRAWGClient builds a client from configuration.
func NewRAWGClient(cfg config.RAWGConfig, logger *slog.Logger) *RAWGClient {
	return &RAWGClient{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		client:   &http.Client{Timeout: listingTimeout},
		logger:   logger,
		now:      time.Now,
	}
}

type gamesResponse struct {
	Count   int           `json:"count"`
	Results []domain.Game `json:"results"`
}

// TrendingGames lists games added in the last 30 days ordered by popularity,
// or an empty slice on any provider failure.
func (c *RAWGClient) TrendingGames(ctx context.Context) []domain.Game {
	today := c.now()
	return c.listGames(ctx, "trending games", url.Values{
		"dates":    []string{dateWindow(today.AddDate(0, 0, -30), today)},
		"ordering": []string{"-added"},
	})
}

// NewReleases lists games released in the last 7 days, newest first.
func (c *RAWGClient) NewReleases(ctx context.Context) []domain.Game {
	today := c.now()
	return c.listGames(ctx, "new releases", url.Values{
		"dates":    []string{dateWindow(today.AddDate(0, 0, -7), today)},
		"ordering": []string{"-released"},
	})
}

// UpcomingGames lists games due in the next 60 days by rating.
func (c *RAWGClient) UpcomingGames(ctx context.Context) []domain.Game {
	today := c.now()
	return c.listGames(ctx, "upcoming games", url.Values{
		"dates":    []string{dateWindow(today, today.AddDate(0, 0, 60))},
		"ordering": []string{"-rating"},
	})
}

// TopRatedGames lists games with a Metacritic score of at least 80.
func (c *RAWGClient) TopRatedGames(ctx context.Context) []domain.Game {
	return c.listGames(ctx, "top rated games", url.Values{
		"ordering":   []string{"-metacritic"},
		"metacritic": []string{"80,100"},
	})
}

func (c *RAWGClient) listGames(ctx context.Context, what string, params url.Values) []domain.Game {
	params.Set("key", c.apiKey)
	params.Set("page_size", strconv.Itoa(c.pageSize))

	var resp gamesResponse
	if err := getJSON(ctx, c.client, c.baseURL+"/games?"+params.Encode(), &resp); err != nil {
		c.logger.Warn("games fetch failed, returning empty result", "listing", what, "error", err)
		return []domain.Game{}
	}

	c.logger.Info("fetched games", "listing", what, "count", len(resp.Results))
	if resp.Results == nil {
		return []domain.Game{}
	}
	return resp.Results
}

func dateWindow(from, to time.Time) string {
	return from.Format("2006-01-02") + "," + to.Format("2006-01-02")
}
