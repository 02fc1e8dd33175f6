package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"DailyDigest/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTopHeadlines(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("country") != "us" || q.Get("category") != "entertainment" {
			t.Errorf("unexpected query: %v", q)
		}
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{"title": "First headline", "url": "https://example.org/1", "publishedAt": "2026-08-28T06:00:00Z"},
				{"title": "Second headline", "description": "details", "url": "https://example.org/2"}
			]
		}`))
	}))
	defer server.Close()

	client := NewNewsClient(config.NewsAPIConfig{
		BaseURL:  server.URL,
		APIKey:   "key",
		Country:  "us",
		Category: "entertainment",
		PageSize: 20,
	}, testLogger())

	articles := client.TopHeadlines(context.Background())
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "First headline" {
		t.Fatalf("unexpected first title: %s", articles[0].Title)
	}
}

func TestTopHeadlinesDegradesToEmpty(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"articles": not-json`))
		}},
		{"null articles", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": "ok", "articles": null}`))
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := NewNewsClient(config.NewsAPIConfig{BaseURL: server.URL, PageSize: 20}, testLogger())
			articles := client.TopHeadlines(context.Background())
			if articles == nil {
				t.Fatal("adapter must return a non-nil slice")
			}
			if len(articles) != 0 {
				t.Fatalf("expected zero articles, got %d", len(articles))
			}
		})
	}
}

func TestTopHeadlinesUnreachableHost(t *testing.T) {
	t.Parallel()

	client := NewNewsClient(config.NewsAPIConfig{BaseURL: "http://127.0.0.1:1", PageSize: 20}, testLogger())
	articles := client.TopHeadlines(context.Background())
	if articles == nil || len(articles) != 0 {
		t.Fatalf("expected empty result on transport error, got %v", articles)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "zelda" {
			t.Errorf("unexpected query: %s", r.URL.Query().Get("q"))
		}
		_, _ = w.Write([]byte(`{"status": "ok", "articles": [{"title": "Zelda sequel announced", "url": "https://example.org/z"}]}`))
	}))
	defer server.Close()

	client := NewNewsClient(config.NewsAPIConfig{BaseURL: server.URL, PageSize: 20}, testLogger())
	articles := client.Search(context.Background(), "zelda")
	if len(articles) != 1 || articles[0].Title != "Zelda sequel announced" {
		t.Fatalf("unexpected search result: %v", articles)
	}
}
