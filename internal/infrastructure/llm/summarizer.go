// Package llm is the gateway to the generative text backend. Ollama serves an
// OpenAI-compatible chat-completions API, so the gateway speaks that protocol
// and any compatible backend works.
package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"DailyDigest/internal/config"
	"DailyDigest/internal/domain"
	"DailyDigest/internal/ports"
)

const summaryFallbackPrefix = "Error generating summary: "

// Summarizer generates the digest's narrative news brief.
type Summarizer struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

// NewSummarizer builds a gateway from configuration. The request timeout is
// enforced on the HTTP client; local backends ignore the auth token.
func NewSummarizer(cfg config.OllamaConfig, logger *slog.Logger) *Summarizer {
	clientCfg := openai.DefaultConfig("ollama")
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Summarizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Summarize prompts the backend with the day's articles. On any failure it
// returns a fallback string embedding the cause; it never blocks past the
// configured timeout and never returns an error to the caller.
func (s *Summarizer) Summarize(ctx context.Context, articles []domain.NewsArticle) string {
	s.logger.Info("generating summary", "articles", len(articles))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(articles)},
		},
	})
	if err != nil {
		s.logger.Error("summary generation failed", "error", err)
		return summaryFallbackPrefix + err.Error()
	}
	if len(resp.Choices) == 0 {
		s.logger.Error("summary generation returned no choices")
		return summaryFallbackPrefix + "backend returned no choices"
	}

	s.logger.Info("summary generated")
	return resp.Choices[0].Message.Content
}

func buildPrompt(articles []domain.NewsArticle) string {
	var b strings.Builder

	b.WriteString("You are an expert entertainment editor.\n")
	b.WriteString("\n")
	b.WriteString("Your task is to generate a concise, engaging Daily Entertainment News Brief based on the provided raw news data.\n")
	b.WriteString("\n")
	b.WriteString("Content domains:\n")
	b.WriteString("- Gaming\n")
	b.WriteString("- Movies\n")
	b.WriteString("- TV Series / Streaming\n")
	b.WriteString("\n")
	b.WriteString("Instructions:\n")
	b.WriteString("1. Summarize the most important news only (skip clickbait).\n")
	b.WriteString("2. Write in a professional, magazine-style tone (IGN / Variety level).\n")
	b.WriteString("3. Be factual, neutral, and clear.\n")
	b.WriteString("4. Avoid emojis, slang, or hype.\n")
	b.WriteString("5. Keep each section easy to scan.\n")
	b.WriteString("\n")
	b.WriteString("Output structure (STRICT):\n")
	b.WriteString("- Title (1 line)\n")
	b.WriteString("- Date\n")
	b.WriteString("- Gaming Highlights (3–5 bullet points)\n")
	b.WriteString("- Movie Highlights (3–5 bullet points)\n")
	b.WriteString("- TV / Series Highlights (3–5 bullet points)\n")
	b.WriteString("- \"Worth Your Time Today\" (1–2 short recommendations)\n")
	b.WriteString("\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Each bullet point: max 2 sentences.\n")
	b.WriteString("- Do NOT invent facts.\n")
	b.WriteString("- Do NOT mention sources unless provided.\n")
	b.WriteString("- Prefer clarity over length.\n")
	b.WriteString("\n")
	b.WriteString("The output will be embedded into a dynamically generated HTML newsletter.\n")
	b.WriteString("\n")
	b.WriteString("Here are the news articles:\n\n")

	for _, article := range articles {
		b.WriteString("Title: " + article.Title + "\n")
		description := article.Description
		if description == "" {
			description = "N/A"
		}
		b.WriteString("Description: " + description + "\n")
		b.WriteString("Published: " + article.PublishedAt + "\n")
		b.WriteString("URL: " + article.URL + "\n\n")
	}

	return b.String()
}
