package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi route tree for the digest API.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/digest", func(r chi.Router) {
			r.Get("/latest", h.GetLatest)
			r.Get("/latest/html", h.GetLatestHTML)
			r.Get("/date/{date}", h.GetByDate)
			r.Get("/date/{date}/html", h.GetByDateHTML)
			r.Get("/recent", h.GetRecent)
			r.Post("/generate", h.Generate)
		})

		r.Get("/news/search", h.SearchNews)
		r.Get("/upcoming/movies", h.UpcomingMovies)
		r.Get("/popular/tv", h.PopularTVShows)
		r.Get("/upcoming/games", h.UpcomingGames)
		r.Get("/games/new", h.NewGameReleases)
		r.Get("/games/top", h.TopRatedGames)
	})

	return r
}
