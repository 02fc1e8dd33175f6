package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"DailyDigest/internal/domain"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSources struct {
	articles []domain.NewsArticle
	movies   []domain.Movie
	shows    []domain.TVShow
	games    []domain.Game
}

func (f *fakeSources) TopHeadlines(ctx context.Context) []domain.NewsArticle { return f.articles }
func (f *fakeSources) TrendingMovies(ctx context.Context) []domain.Movie    { return f.movies }
func (f *fakeSources) TrendingTVShows(ctx context.Context) []domain.TVShow  { return f.shows }
func (f *fakeSources) TrendingGames(ctx context.Context) []domain.Game      { return f.games }

type fakeSummarizer struct {
	calls   int
	summary string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, articles []domain.NewsArticle) string {
	f.calls++
	return f.summary
}

type renderCall struct {
	games   []domain.Game
	movies  []domain.Movie
	shows   []domain.TVShow
	edition domain.Edition
}

type fakeRenderer struct {
	calls []renderCall
}

func (f *fakeRenderer) Render(digest *domain.Digest, games []domain.Game, movies []domain.Movie, shows []domain.TVShow, edition domain.Edition) string {
	f.calls = append(f.calls, renderCall{games: games, movies: movies, shows: shows, edition: edition})
	return "<html>" + string(edition) + "</html>"
}

type fakeRepository struct {
	byDate   map[string]domain.Digest
	nextID   int64
	failNext bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byDate: map[string]domain.Digest{}}
}

func (f *fakeRepository) Upsert(ctx context.Context, digest *domain.Digest) error {
	if f.failNext {
		f.failNext = false
		return errors.New("storage unavailable")
	}

	key := digest.Date.Format("2006-01-02")
	if existing, ok := f.byDate[key]; ok {
		digest.ID = existing.ID
	} else {
		f.nextID++
		digest.ID = f.nextID
	}
	f.byDate[key] = *digest
	return nil
}

func (f *fakeRepository) FindByDate(ctx context.Context, date time.Time) (*domain.Digest, error) {
	if digest, ok := f.byDate[date.Format("2006-01-02")]; ok {
		return &digest, nil
	}
	return nil, domain.ErrDigestNotFound
}

func (f *fakeRepository) FindLatestCompleted(ctx context.Context) (*domain.Digest, error) {
	var latest *domain.Digest
	for key := range f.byDate {
		digest := f.byDate[key]
		if digest.Status != domain.StatusCompleted {
			continue
		}
		if latest == nil || digest.Date.After(latest.Date) {
			d := digest
			latest = &d
		}
	}
	if latest == nil {
		return nil, domain.ErrDigestNotFound
	}
	return latest, nil
}

func (f *fakeRepository) ListRecentByStatus(ctx context.Context, status domain.DigestStatus, limit int) ([]domain.Digest, error) {
	var out []domain.Digest
	for key := range f.byDate {
		if f.byDate[key].Status == status && len(out) < limit {
			out = append(out, f.byDate[key])
		}
	}
	return out, nil
}

func newTestComposer(sources *fakeSources, summarizer *fakeSummarizer, renderer *fakeRenderer, repo *fakeRepository) *Composer {
	return NewComposer(ComposerDeps{
		News:       sources,
		Movies:     sources,
		TV:         sources,
		Games:      sources,
		Summarizer: summarizer,
		Renderer:   renderer,
		Repository: repo,
		Logger:     testLogger(),
		Now: func() time.Time {
			return time.Date(2026, time.August, 28, 8, 0, 0, 0, time.UTC)
		},
	})
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	sources := &fakeSources{
		articles: []domain.NewsArticle{{Title: "Headline", URL: "u"}},
		movies: []domain.Movie{
			{Title: "weak", VoteAverage: fp(5.0), VoteCount: ip(10)},
			{Title: "strong", VoteAverage: fp(8.5), VoteCount: ip(20000)},
		},
		shows: []domain.TVShow{{Name: "Show", VoteAverage: fp(8.0), VoteCount: ip(500)}},
		games: []domain.Game{{Name: "Game", Metacritic: ip(85)}},
	}
	summarizer := &fakeSummarizer{summary: "The brief."}
	renderer := &fakeRenderer{}
	repo := newFakeRepository()

	digest, err := newTestComposer(sources, summarizer, renderer, repo).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if digest.Status != domain.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", digest.Status)
	}
	if digest.Summary != "The brief." {
		t.Fatalf("unexpected summary %q", digest.Summary)
	}
	if summarizer.calls != 1 {
		t.Fatalf("expected one summarizer call, got %d", summarizer.calls)
	}
	if digest.Title != "Daily Entertainment Digest - 2026-08-28" {
		t.Fatalf("unexpected title %q", digest.Title)
	}
	if digest.HTMLContent != "<html>all</html>" {
		t.Fatalf("unexpected html %q", digest.HTMLContent)
	}

	// Ranked payload must be ordered descending by score.
	if !strings.Contains(digest.RawMovies, `"strong"`) {
		t.Fatalf("raw movies payload missing item: %s", digest.RawMovies)
	}
	if strings.Index(digest.RawMovies, "strong") > strings.Index(digest.RawMovies, "weak") {
		t.Fatalf("raw movies payload not ranked: %s", digest.RawMovies)
	}

	if len(digest.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(digest.Sections))
	}
	if digest.Sections[0].SectionType != domain.SectionMovies || digest.Sections[0].ItemCount != 2 {
		t.Fatalf("unexpected first section: %+v", digest.Sections[0])
	}

	stored, err := repo.FindByDate(context.Background(), digest.Date)
	if err != nil {
		t.Fatalf("stored digest missing: %v", err)
	}
	if stored.Status != domain.StatusCompleted {
		t.Fatalf("stored digest not completed: %s", stored.Status)
	}
}

func TestGenerateNoNewsSkipsSummarizer(t *testing.T) {
	t.Parallel()

	sources := &fakeSources{}
	summarizer := &fakeSummarizer{summary: "should not appear"}
	repo := newFakeRepository()

	digest, err := newTestComposer(sources, summarizer, &fakeRenderer{}, repo).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if summarizer.calls != 0 {
		t.Fatalf("summarizer must not be invoked for empty news, got %d calls", summarizer.calls)
	}
	if digest.Summary != "No entertainment news available for today." {
		t.Fatalf("unexpected fallback summary %q", digest.Summary)
	}
}

func TestGenerateSameDateStaysUnique(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	composer := newTestComposer(&fakeSources{}, &fakeSummarizer{}, &fakeRenderer{}, repo)

	first, err := composer.Generate(context.Background())
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := composer.Generate(context.Background())
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	if len(repo.byDate) != 1 {
		t.Fatalf("expected one stored digest, got %d", len(repo.byDate))
	}
	if first.ID != second.ID {
		t.Fatalf("same date must reuse the record: %d vs %d", first.ID, second.ID)
	}
}

func TestGenerateDraftPersistFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	repo.failNext = true
	summarizer := &fakeSummarizer{}

	_, err := newTestComposer(&fakeSources{articles: []domain.NewsArticle{{Title: "x"}}}, summarizer, &fakeRenderer{}, repo).Generate(context.Background())
	if err == nil {
		t.Fatal("expected persistence error to propagate")
	}
	if summarizer.calls != 0 {
		t.Fatal("pipeline must stop before summarization when the draft cannot persist")
	}
}

func TestRenderEditionRoundTrip(t *testing.T) {
	t.Parallel()

	sources := &fakeSources{
		movies: []domain.Movie{{ID: 1, Title: "Movie"}},
		shows:  []domain.TVShow{{ID: 2, Name: "Show"}},
		games:  []domain.Game{{ID: 3, Name: "Game"}},
	}
	renderer := &fakeRenderer{}
	composer := newTestComposer(sources, &fakeSummarizer{}, renderer, newFakeRepository())

	digest, err := composer.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	html := composer.RenderEdition(digest, domain.EditionAll)
	if html != "<html>all</html>" {
		t.Fatalf("unexpected re-render output %q", html)
	}

	// The re-render call decodes the persisted payloads: category membership
	// must match what the original render saw.
	original, rerender := renderer.calls[0], renderer.calls[1]
	if len(rerender.movies) != len(original.movies) || rerender.movies[0].Title != "Movie" {
		t.Fatalf("movie membership changed: %+v", rerender.movies)
	}
	if len(rerender.shows) != len(original.shows) || rerender.shows[0].Name != "Show" {
		t.Fatalf("tv membership changed: %+v", rerender.shows)
	}
	if len(rerender.games) != len(original.games) || rerender.games[0].Name != "Game" {
		t.Fatalf("game membership changed: %+v", rerender.games)
	}
}

func TestRenderEditionCorruptPayloadFallsBackToStoredHTML(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{}
	composer := newTestComposer(&fakeSources{}, &fakeSummarizer{}, renderer, newFakeRepository())

	digest := &domain.Digest{HTMLContent: "<html>stored</html>", RawMovies: "{not json"}
	if got := composer.RenderEdition(digest, domain.EditionMovies); got != "<html>stored</html>" {
		t.Fatalf("expected stored html fallback, got %q", got)
	}
	if len(renderer.calls) != 0 {
		t.Fatal("renderer must not run on corrupt payloads")
	}
}
