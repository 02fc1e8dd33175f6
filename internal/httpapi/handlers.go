// Package httpapi exposes the digest retrieval surface over REST.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"DailyDigest/internal/domain"
)

// DigestService is the slice of the composer the handlers need.
type DigestService interface {
	Generate(ctx context.Context) (*domain.Digest, error)
	Latest(ctx context.Context) (*domain.Digest, error)
	ByDate(ctx context.Context, date time.Time) (*domain.Digest, error)
	Recent(ctx context.Context, status domain.DigestStatus, limit int) ([]domain.Digest, error)
	RenderEdition(digest *domain.Digest, edition domain.Edition) string
}

// NewsSearcher serves the news search passthrough.
type NewsSearcher interface {
	Search(ctx context.Context, query string) []domain.NewsArticle
}

// MoviePreviewer serves the movie and TV listing passthroughs.
type MoviePreviewer interface {
	UpcomingMovies(ctx context.Context) []domain.Movie
	PopularTVShows(ctx context.Context) []domain.TVShow
}

// GamePreviewer serves the game listing passthroughs.
type GamePreviewer interface {
	UpcomingGames(ctx context.Context) []domain.Game
	NewReleases(ctx context.Context) []domain.Game
	TopRatedGames(ctx context.Context) []domain.Game
}

// Handler bundles the request handlers for the digest API.
type Handler struct {
	digests DigestService
	news    NewsSearcher
	movies  MoviePreviewer
	games   GamePreviewer
	logger  *slog.Logger
}

// NewHandler wires the API surface to its collaborators.
func NewHandler(digests DigestService, news NewsSearcher, movies MoviePreviewer, games GamePreviewer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{digests: digests, news: news, movies: movies, games: games, logger: logger}
}

// GetLatest returns the most recent completed digest as JSON.
func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	digest, err := h.digests.Latest(r.Context())
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, digest)
}

// GetLatestHTML returns the stored HTML of the most recent completed digest.
func (h *Handler) GetLatestHTML(w http.ResponseWriter, r *http.Request) {
	digest, err := h.digests.Latest(r.Context())
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	h.writeHTML(w, digest.HTMLContent)
}

// GetByDate returns the digest for an ISO date as JSON.
func (h *Handler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	digest, err := h.digests.ByDate(r.Context(), date)
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, digest)
}

// GetByDateHTML re-renders the digest for an ISO date with an optional
// edition filter (?edition=gaming|movies|tv, default all). The re-render
// reads the persisted ranked payloads; no provider fetches happen here.
func (h *Handler) GetByDateHTML(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	digest, err := h.digests.ByDate(r.Context(), date)
	if err != nil {
		h.writeReadError(w, err)
		return
	}

	edition := domain.ParseEdition(r.URL.Query().Get("edition"))
	h.writeHTML(w, h.digests.RenderEdition(digest, edition))
}

// GetRecent lists up to ?limit= digests in ?status= (default COMPLETED).
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	status := domain.DigestStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.StatusCompleted
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	digests, err := h.digests.Recent(r.Context(), status, limit)
	if err != nil {
		h.logger.Error("recent digest listing failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	h.writeJSON(w, http.StatusOK, digests)
}

// Generate triggers digest generation on demand.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	digest, err := h.digests.Generate(r.Context())
	if err != nil {
		h.logger.Error("digest generation failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "digest generation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, digest)
}

// SearchNews proxies an entertainment news search.
func (h *Handler) SearchNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	h.writeJSON(w, http.StatusOK, h.news.Search(r.Context(), query))
}

// UpcomingMovies lists upcoming movie releases.
func (h *Handler) UpcomingMovies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.movies.UpcomingMovies(r.Context()))
}

// PopularTVShows lists currently popular TV shows.
func (h *Handler) PopularTVShows(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.movies.PopularTVShows(r.Context()))
}

// UpcomingGames lists upcoming game releases.
func (h *Handler) UpcomingGames(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.games.UpcomingGames(r.Context()))
}

// NewGameReleases lists games released over the past week.
func (h *Handler) NewGameReleases(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.games.NewReleases(r.Context()))
}

// TopRatedGames lists critically acclaimed games.
func (h *Handler) TopRatedGames(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.games.TopRatedGames(r.Context()))
}

func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := chi.URLParam(r, "date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrDigestNotFound) {
		h.writeError(w, http.StatusNotFound, "digest not available")
		return
	}
	h.logger.Error("digest read failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, "digest read failed")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		h.logger.Error("failed to write html response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
