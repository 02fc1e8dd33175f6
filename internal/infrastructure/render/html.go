// Package render turns a digest and its ranked lists into the newsletter
// HTML. The edition filter selects which category sections appear; the news
// summary is part of every edition.
package render

import (
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"DailyDigest/internal/domain"
	"DailyDigest/internal/ports"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w342"

// HTMLRenderer renders digests with a built-in template.
type HTMLRenderer struct {
	tmpl   *template.Template
	logger *slog.Logger
}

var _ ports.Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer parses the digest template once at construction.
func NewHTMLRenderer(logger *slog.Logger) *HTMLRenderer {
	tmpl := template.Must(template.New("digest").Funcs(template.FuncMap{
		"join": strings.Join,
		"posterURL": func(path string) string {
			if path == "" {
				return ""
			}
			return posterBaseURL + path
		},
	}).Parse(digestTemplate))

	return &HTMLRenderer{tmpl: tmpl, logger: logger}
}

type templateData struct {
	Digest        *domain.Digest
	DateText      string
	GamingSection bool
	MoviesSection bool
	TVSection     bool
	Games         []domain.Game
	Movies        []domain.Movie
	TVShows       []domain.TVShow
}

// Render produces the digest HTML for the given edition. Template failures
// yield a minimal error page instead of propagating.
func (r *HTMLRenderer) Render(digest *domain.Digest, games []domain.Game, movies []domain.Movie, shows []domain.TVShow, edition domain.Edition) string {
	r.logger.Info("rendering digest html", "date", digest.Date.Format("2006-01-02"), "edition", string(edition))

	selected := func(e domain.Edition) bool {
		return edition == domain.EditionAll || edition == e
	}

	data := templateData{
		Digest:        digest,
		DateText:      digest.Date.Format("Monday, 2 January 2006"),
		GamingSection: selected(domain.EditionGaming) && len(games) > 0,
		MoviesSection: selected(domain.EditionMovies) && len(movies) > 0,
		TVSection:     selected(domain.EditionTV) && len(shows) > 0,
		Games:         games,
		Movies:        movies,
		TVShows:       shows,
	}

	var out strings.Builder
	if err := r.tmpl.Execute(&out, data); err != nil {
		r.logger.Error("failed to render digest html", "error", err)
		return errorHTML(digest, err)
	}

	html := out.String()
	r.logger.Info("rendered digest html", "chars", len(html))
	return html
}

func errorHTML(digest *domain.Digest, err error) string {
	return fmt.Sprintf(
		"<!DOCTYPE html><html><head><title>Error</title></head>"+
			"<body><h1>Error Generating Digest</h1>"+
			"<p>Date: %s</p>"+
			"<p>Error: %s</p></body></html>",
		digest.Date.Format("2006-01-02"),
		template.HTMLEscapeString(err.Error()))
}

const digestTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Digest.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 860px; margin: 0 auto; padding: 1rem; color: #1c1c1c; }
header { border-bottom: 3px solid #1c1c1c; margin-bottom: 1.5rem; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 0.3rem; }
.summary pre { white-space: pre-wrap; font-family: inherit; background: #f7f7f5; padding: 1rem; }
.item { margin-bottom: 1rem; }
.meta { color: #666; font-size: 0.9rem; }
</style>
</head>
<body>
<header>
<h1>{{.Digest.Title}}</h1>
<p class="meta">{{.DateText}}</p>
</header>
<section id="summary" class="summary">
<h2>Today&#39;s Brief</h2>
<pre>{{.Digest.Summary}}</pre>
</section>
{{if .MoviesSection}}
<section id="movies">
<h2>Trending Movies</h2>
{{range .Movies}}
<div class="item">
<h3>{{.Title}}</h3>
{{if .PosterPath}}<img src="{{posterURL .PosterPath}}" alt="{{.Title}} poster" width="120">{{end}}
<p class="meta">Released: {{if .ReleaseDate}}{{.ReleaseDate}}{{else}}TBA{{end}}</p>
{{if .Overview}}<p>{{.Overview}}</p>{{end}}
{{if .Cast}}<p class="meta">Starring: {{join .Cast ", "}}</p>{{end}}
{{if .TrailerKey}}<p><a href="https://www.youtube.com/watch?v={{.TrailerKey}}">Watch trailer</a></p>{{end}}
</div>
{{end}}
</section>
{{end}}
{{if .TVSection}}
<section id="tv">
<h2>Trending TV Shows</h2>
{{range .TVShows}}
<div class="item">
<h3>{{.Name}}</h3>
{{if .PosterPath}}<img src="{{posterURL .PosterPath}}" alt="{{.Name}} poster" width="120">{{end}}
<p class="meta">First aired: {{if .FirstAirDate}}{{.FirstAirDate}}{{else}}TBA{{end}}</p>
{{if .Overview}}<p>{{.Overview}}</p>{{end}}
{{if .Cast}}<p class="meta">Starring: {{join .Cast ", "}}</p>{{end}}
{{if .TrailerKey}}<p><a href="https://www.youtube.com/watch?v={{.TrailerKey}}">Watch trailer</a></p>{{end}}
</div>
{{end}}
</section>
{{end}}
{{if .GamingSection}}
<section id="gaming">
<h2>Trending Games</h2>
{{range .Games}}
<div class="item">
<h3>{{.Name}}</h3>
<p class="meta">Released: {{if .Released}}{{.Released}}{{else}}TBA{{end}}{{if .Metacritic}} &middot; Metacritic {{.Metacritic}}{{end}}</p>
</div>
{{end}}
</section>
{{end}}
</body>
</html>
`
