package render

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DailyDigest/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDigest() *domain.Digest {
	return &domain.Digest{
		Date:    time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		Title:   "Daily Entertainment Digest - 2026-08-28",
		Summary: "Top stories of the day.",
		Status:  domain.StatusCompleted,
	}
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse rendered html: %v", err)
	}
	return doc
}

func TestRenderAllEditions(t *testing.T) {
	t.Parallel()

	r := NewHTMLRenderer(testLogger())
	games := []domain.Game{{ID: 1, Name: "Great Game", Released: "2026-08-01", Metacritic: ip(90)}}
	movies := []domain.Movie{{ID: 2, Title: "Big Movie", ReleaseDate: "2026-07-15", VoteAverage: fp(8.0), TrailerKey: "abc123", Cast: []string{"One", "Two"}}}
	shows := []domain.TVShow{{ID: 3, Name: "New Show", FirstAirDate: "2026-06-01"}}

	html := r.Render(testDigest(), games, movies, shows, domain.EditionAll)
	doc := parseHTML(t, html)

	for _, id := range []string{"#summary", "#movies", "#tv", "#gaming"} {
		if doc.Find(id).Length() != 1 {
			t.Fatalf("edition all missing section %s", id)
		}
	}

	if got := doc.Find("#movies h3").First().Text(); got != "Big Movie" {
		t.Fatalf("unexpected movie heading: %q", got)
	}
	href, _ := doc.Find("#movies a").First().Attr("href")
	if href != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("unexpected trailer link: %q", href)
	}
	if !strings.Contains(doc.Find("#summary pre").Text(), "Top stories of the day.") {
		t.Fatal("summary text missing")
	}
}

func TestRenderMoviesEditionExcludesOtherSections(t *testing.T) {
	t.Parallel()

	r := NewHTMLRenderer(testLogger())
	games := []domain.Game{{ID: 1, Name: "Great Game"}}
	movies := []domain.Movie{{ID: 2, Title: "Big Movie"}}
	shows := []domain.TVShow{{ID: 3, Name: "New Show"}}

	html := r.Render(testDigest(), games, movies, shows, domain.EditionMovies)
	doc := parseHTML(t, html)

	if doc.Find("#movies").Length() != 1 {
		t.Fatal("movies edition must include the movies section")
	}
	if doc.Find("#gaming").Length() != 0 || doc.Find("#tv").Length() != 0 {
		t.Fatal("movies edition must exclude gaming and tv sections")
	}
	if doc.Find("#summary").Length() != 1 {
		t.Fatal("news summary must render in every edition")
	}
}

func TestRenderOmitsEmptyCategories(t *testing.T) {
	t.Parallel()

	r := NewHTMLRenderer(testLogger())
	html := r.Render(testDigest(), nil, []domain.Movie{{ID: 2, Title: "Only Movie"}}, nil, domain.EditionAll)
	doc := parseHTML(t, html)

	if doc.Find("#gaming").Length() != 0 || doc.Find("#tv").Length() != 0 {
		t.Fatal("empty categories must not render sections")
	}
	if doc.Find("#movies .item").Length() != 1 {
		t.Fatal("non-empty category must render its items")
	}
}

func TestRenderEscapesProviderText(t *testing.T) {
	t.Parallel()

	r := NewHTMLRenderer(testLogger())
	movies := []domain.Movie{{ID: 2, Title: `<script>alert("x")</script>`}}

	html := r.Render(testDigest(), nil, movies, nil, domain.EditionAll)
	if strings.Contains(html, `<script>alert`) {
		t.Fatal("provider text must be escaped")
	}
}
