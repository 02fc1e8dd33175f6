package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"DailyDigest/internal/domain"
	"DailyDigest/internal/ports"
	"DailyDigest/internal/ranking"
)

const (
	digestTitlePrefix = "Daily Entertainment Digest - "
	noNewsFallback    = "No entertainment news available for today."
	defaultRecentN    = 10
)

// ComposerDeps wires all driven adapters into the digest pipeline.
type ComposerDeps struct {
	News              ports.NewsSource
	Movies            ports.MovieSource
	TV                ports.TVSource
	Games             ports.GameSource
	Summarizer        ports.Summarizer
	Renderer          ports.Renderer
	Repository        ports.DigestRepository
	Logger            *slog.Logger
	GenerationTimeout time.Duration
	Now               func() time.Time
}

// Composer orchestrates digest generation: draft persist, concurrent source
// fan-out, summarization, ranking, rendering, and final persist.
type Composer struct {
	news       ports.NewsSource
	movies     ports.MovieSource
	tv         ports.TVSource
	games      ports.GameSource
	summarizer ports.Summarizer
	renderer   ports.Renderer
	repository ports.DigestRepository
	logger     *slog.Logger
	timeout    time.Duration
	now        func() time.Time

	// Serializes concurrent generation requests; the store's unique date key
	// reconciles anything racing from other processes (last write wins).
	mu sync.Mutex
}

// NewComposer constructs the orchestration component.
func NewComposer(deps ComposerDeps) *Composer {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Composer{
		news:       deps.News,
		movies:     deps.Movies,
		tv:         deps.TV,
		games:      deps.Games,
		summarizer: deps.Summarizer,
		renderer:   deps.Renderer,
		repository: deps.Repository,
		logger:     logger,
		timeout:    deps.GenerationTimeout,
		now:        now,
	}
}

// Generate produces and persists today's digest. The persisted record moves
// GENERATING -> COMPLETED; if generation fails partway the error propagates
// and the record stays in GENERATING for the next run to overwrite.
func (c *Composer) Generate(ctx context.Context) (*domain.Digest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info("starting daily digest generation")

	now := c.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	digest := &domain.Digest{
		Date:      date,
		Title:     digestTitlePrefix + date.Format("2006-01-02"),
		Status:    domain.StatusGenerating,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.repository.Upsert(ctx, digest); err != nil {
		return nil, fmt.Errorf("persist draft digest: %w", err)
	}
	c.logger.Info("created digest", "id", digest.ID, "date", date.Format("2006-01-02"))

	var (
		articles []domain.NewsArticle
		movies   []domain.Movie
		shows    []domain.TVShow
		games    []domain.Game
	)

	c.logger.Info("fetching data from all sources in parallel")
	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); articles = c.news.TopHeadlines(ctx) }()
	go func() { defer wg.Done(); movies = c.movies.TrendingMovies(ctx) }()
	go func() { defer wg.Done(); shows = c.tv.TrendingTVShows(ctx) }()
	go func() { defer wg.Done(); games = c.games.TrendingGames(ctx) }()
	wg.Wait()

	if len(articles) > 0 {
		digest.Summary = c.summarizer.Summarize(ctx, articles)
	} else {
		c.logger.Warn("no articles found to summarize")
		digest.Summary = noNewsFallback
	}

	rankedGames := ranking.RankGames(games)
	rankedMovies := ranking.RankMovies(movies)
	rankedTV := ranking.RankTVShows(shows)

	// Raw ranked payloads persist so later reads can re-render a different
	// edition without repeating the network fetches.
	digest.RawGames = c.marshalPayload("games", rankedGames)
	digest.RawMovies = c.marshalPayload("movies", rankedMovies)
	digest.RawTV = c.marshalPayload("tv", rankedTV)
	digest.Sections = []domain.DigestSection{
		{SectionType: domain.SectionMovies, Title: "Trending Movies", RawData: digest.RawMovies, DisplayOrder: 1, ItemCount: len(rankedMovies)},
		{SectionType: domain.SectionTV, Title: "Trending TV Shows", RawData: digest.RawTV, DisplayOrder: 2, ItemCount: len(rankedTV)},
		{SectionType: domain.SectionGaming, Title: "Trending Games", RawData: digest.RawGames, DisplayOrder: 3, ItemCount: len(rankedGames)},
	}

	c.logger.Info("rendering html digest")
	digest.HTMLContent = c.renderer.Render(digest, rankedGames, rankedMovies, rankedTV, domain.EditionAll)

	digest.Status = domain.StatusCompleted
	digest.UpdatedAt = c.now()
	if err := c.repository.Upsert(ctx, digest); err != nil {
		return nil, fmt.Errorf("persist completed digest: %w", err)
	}

	c.logger.Info("daily digest generated", "id", digest.ID)
	return digest, nil
}

// Latest returns the most recent completed digest.
func (c *Composer) Latest(ctx context.Context) (*domain.Digest, error) {
	return c.repository.FindLatestCompleted(ctx)
}

// ByDate returns the digest for a calendar date.
func (c *Composer) ByDate(ctx context.Context, date time.Time) (*domain.Digest, error) {
	return c.repository.FindByDate(ctx, date)
}

// Recent returns up to limit digests in the given status, newest first.
func (c *Composer) Recent(ctx context.Context, status domain.DigestStatus, limit int) ([]domain.Digest, error) {
	if limit <= 0 {
		limit = defaultRecentN
	}
	return c.repository.ListRecentByStatus(ctx, status, limit)
}

// RenderEdition re-renders a stored digest with an edition filter from its
// persisted ranked payloads. If the payloads cannot be decoded the stored
// HTML is served instead.
func (c *Composer) RenderEdition(digest *domain.Digest, edition domain.Edition) string {
	games, movies, shows, err := decodePayloads(digest)
	if err != nil {
		c.logger.Error("failed to decode ranked payloads, serving stored html", "id", digest.ID, "error", err)
		return digest.HTMLContent
	}
	return c.renderer.Render(digest, games, movies, shows, edition)
}

func (c *Composer) marshalPayload(category string, v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		// The digest proceeds without this category's re-render payload.
		c.logger.Error("failed to serialize ranked payload", "category", category, "error", err)
		return ""
	}
	return string(raw)
}

func decodePayloads(digest *domain.Digest) ([]domain.Game, []domain.Movie, []domain.TVShow, error) {
	var (
		games  []domain.Game
		movies []domain.Movie
		shows  []domain.TVShow
	)

	if digest.RawGames != "" {
		if err := json.Unmarshal([]byte(digest.RawGames), &games); err != nil {
			return nil, nil, nil, fmt.Errorf("decode games payload: %w", err)
		}
	}
	if digest.RawMovies != "" {
		if err := json.Unmarshal([]byte(digest.RawMovies), &movies); err != nil {
			return nil, nil, nil, fmt.Errorf("decode movies payload: %w", err)
		}
	}
	if digest.RawTV != "" {
		if err := json.Unmarshal([]byte(digest.RawTV), &shows); err != nil {
			return nil, nil, nil, fmt.Errorf("decode tv payload: %w", err)
		}
	}

	return games, movies, shows, nil
}
