package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"DailyDigest/internal/config"
	"DailyDigest/internal/domain"
	"DailyDigest/internal/ports"
)

// TMDBClient fetches trending movies and TV shows, enriching the top entries
// with trailer and cast details.
type TMDBClient struct {
	baseURL      string
	apiKey       string
	language     string
	client       *http.Client
	detailClient *http.Client
	logger       *slog.Logger
}

var _ ports.MovieSource = (*TMDBClient)(nil)
var _ ports.TVSource = (*TMDBClient)(nil)

// NewTMDBClient builds a client from configuration.
func NewTMDBClient(cfg config.TMDBConfig, logger *slog.Logger) *TMDBClient {
	return &TMDBClient{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		client:       &http.Client{Timeout: listingTimeout},
		detailClient: &http.Client{Timeout: detailTimeout},
		logger:       logger,
	}
}

type movieListing struct {
	Page    int            `json:"page"`
	Results []domain.Movie `json:"results"`
}

type tvListing struct {
	Page    int             `json:"page"`
	Results []domain.TVShow `json:"results"`
}

type detailsResponse struct {
	Videos struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []struct {
			Name  string `json:"name"`
			Order int    `json:"order"`
		} `json:"cast"`
	} `json:"credits"`
}

// TrendingMovies returns the day's trending movie listing with the top
// entries enriched, or an empty slice on any provider failure.
func (c *TMDBClient) TrendingMovies(ctx context.Context) []domain.Movie {
	var resp movieListing
	if err := getJSON(ctx, c.client, c.listingURL("/trending/movie/day"), &resp); err != nil {
		c.logger.Warn("trending movies fetch failed, returning empty result", "error", err)
		return []domain.Movie{}
	}

	c.logger.Info("fetched trending movies", "count", len(resp.Results))
	if resp.Results == nil {
		return []domain.Movie{}
	}

	c.enrichMovies(ctx, resp.Results)
	return resp.Results
}

// TrendingTVShows returns the day's trending TV listing with the top entries
// enriched, or an empty slice on any provider failure.
func (c *TMDBClient) TrendingTVShows(ctx context.Context) []domain.TVShow {
	var resp tvListing
	if err := getJSON(ctx, c.client, c.listingURL("/trending/tv/day"), &resp); err != nil {
		c.logger.Warn("trending tv fetch failed, returning empty result", "error", err)
		return []domain.TVShow{}
	}

	c.logger.Info("fetched trending tv shows", "count", len(resp.Results))
	if resp.Results == nil {
		return []domain.TVShow{}
	}

	c.enrichTVShows(ctx, resp.Results)
	return resp.Results
}

// UpcomingMovies returns the upcoming movie listing without enrichment.
func (c *TMDBClient) UpcomingMovies(ctx context.Context) []domain.Movie {
	var resp movieListing
	if err := getJSON(ctx, c.client, c.listingURL("/movie/upcoming"), &resp); err != nil {
		c.logger.Warn("upcoming movies fetch failed, returning empty result", "error", err)
		return []domain.Movie{}
	}

	c.logger.Info("fetched upcoming movies", "count", len(resp.Results))
	if resp.Results == nil {
		return []domain.Movie{}
	}
	return resp.Results
}

// PopularTVShows returns the popular TV listing without enrichment.
func (c *TMDBClient) PopularTVShows(ctx context.Context) []domain.TVShow {
	var resp tvListing
	if err := getJSON(ctx, c.client, c.listingURL("/tv/popular"), &resp); err != nil {
		c.logger.Warn("popular tv fetch failed, returning empty result", "error", err)
		return []domain.TVShow{}
	}

	c.logger.Info("fetched popular tv shows", "count", len(resp.Results))
	if resp.Results == nil {
		return []domain.TVShow{}
	}
	return resp.Results
}

// enrichMovies issues parallel detail lookups for the top entries. Each
// lookup is independently time-boxed; a failure leaves that item's enrichment
// fields unset and never affects siblings or the base listing.
func (c *TMDBClient) enrichMovies(ctx context.Context, movies []domain.Movie) {
	limit := enrichLimit
	if len(movies) < limit {
		limit = len(movies)
	}

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func(movie *domain.Movie) {
			defer wg.Done()

			details, err := c.fetchDetails(ctx, fmt.Sprintf("/movie/%d", movie.ID))
			if err != nil {
				c.logger.Warn("failed to enrich movie", "id", movie.ID, "error", err)
				return
			}

			movie.TrailerKey = trailerKey(details)
			movie.Cast = topCast(details)
		}(&movies[i])
	}
	wg.Wait()
}

func (c *TMDBClient) enrichTVShows(ctx context.Context, shows []domain.TVShow) {
	limit := enrichLimit
	if len(shows) < limit {
		limit = len(shows)
	}

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func(show *domain.TVShow) {
			defer wg.Done()

			details, err := c.fetchDetails(ctx, fmt.Sprintf("/tv/%d", show.ID))
			if err != nil {
				c.logger.Warn("failed to enrich tv show", "id", show.ID, "error", err)
				return
			}

			show.TrailerKey = trailerKey(details)
			show.Cast = topCast(details)
		}(&shows[i])
	}
	wg.Wait()
}

func (c *TMDBClient) fetchDetails(ctx context.Context, path string) (detailsResponse, error) {
	dctx, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("append_to_response", "videos,credits")

	var details detailsResponse
	err := getJSON(dctx, c.detailClient, c.baseURL+path+"?"+query.Encode(), &details)
	return details, err
}

func (c *TMDBClient) listingURL(path string) string {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)
	return c.baseURL + path + "?" + query.Encode()
}

// trailerKey picks the first YouTube video of type Trailer.
func trailerKey(details detailsResponse) string {
	for _, video := range details.Videos.Results {
		if video.Site == "YouTube" && video.Type == "Trailer" {
			return video.Key
		}
	}
	return ""
}

// topCast returns the first three cast names in credit order.
func topCast(details detailsResponse) []string {
	var names []string
	for _, member := range details.Credits.Cast {
		names = append(names, member.Name)
		if len(names) == 3 {
			break
		}
	}
	return names
}
