package ports

import (
	"context"
	"time"

	"DailyDigest/internal/domain"
)

// NewsSource pulls the day's headline listing. Source adapters degrade to an
// empty slice on any provider failure; they never return errors.
type NewsSource interface {
	TopHeadlines(ctx context.Context) []domain.NewsArticle
}

// MovieSource pulls the trending movie listing, enriched for the top entries.
type MovieSource interface {
	TrendingMovies(ctx context.Context) []domain.Movie
}

// TVSource pulls the trending TV listing, enriched for the top entries.
type TVSource interface {
	TrendingTVShows(ctx context.Context) []domain.TVShow
}

// GameSource pulls the trending game listing.
type GameSource interface {
	TrendingGames(ctx context.Context) []domain.Game
}

// Summarizer turns the day's articles into narrative prose. A failed backend
// call yields a human-readable fallback string, never an error.
type Summarizer interface {
	Summarize(ctx context.Context, articles []domain.NewsArticle) string
}

// Renderer produces the digest HTML for one edition. Render failures yield a
// minimal error page instead of propagating.
type Renderer interface {
	Render(digest *domain.Digest, games []domain.Game, movies []domain.Movie, shows []domain.TVShow, edition domain.Edition) string
}

// DigestRepository owns digest persistence keyed by calendar date.
type DigestRepository interface {
	Upsert(ctx context.Context, digest *domain.Digest) error
	FindByDate(ctx context.Context, date time.Time) (*domain.Digest, error)
	FindLatestCompleted(ctx context.Context) (*domain.Digest, error)
	ListRecentByStatus(ctx context.Context, status domain.DigestStatus, limit int) ([]domain.Digest, error)
}

// Scheduler controls when digest generation runs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
