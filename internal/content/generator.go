// ABOUTME: Content generation against an OpenAI-compatible chat endpoint (Ollama's /v1).
// ABOUTME: Builds category and personality aware requests with bounded retries.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hoshiko-bot/hoshiko/internal/models"
)

const (
	generateMaxRetries = 3
	generateMaxTokens  = 120
)

// Request describes one generation attempt.
type Request struct {
	Category models.Category
	Prompt   string
	ImageB64 string // optional base64 JPEG/PNG payload attached to the prompt
}

// Generator produces a candidate post text. An empty result with a nil error
// means the source had nothing usable; the controller treats that as a skip.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// OllamaGenerator talks to Ollama's OpenAI-compatible chat completions API.
type OllamaGenerator struct {
	client      *openai.Client
	model       string
	personality string
	logger      *slog.Logger
	sleepFn     func(ctx context.Context, d time.Duration) error // overridable for testing
}

// NewOllamaGenerator creates a generator for the given Ollama base URL
// (without the /v1 suffix) and model.
func NewOllamaGenerator(baseURL, model, personality string, logger *slog.Logger) *OllamaGenerator {
	cfg := openai.DefaultConfig("ollama") // Ollama ignores the key but the client requires one
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	if logger == nil {
		logger = slog.Default()
	}
	return &OllamaGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		personality: personality,
		logger:      logger,
		sleepFn:     sleepCtx,
	}
}

// Generate produces a candidate post, retrying transient failures with
// exponential backoff. The returned text is already cleaned of wrapping
// quotes.
func (g *OllamaGenerator) Generate(ctx context.Context, req Request) (string, error) {
	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt}
	if req.ImageB64 != "" {
		userMsg = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: "data:image/jpeg;base64," + req.ImageB64,
					},
				},
			},
		}
	}

	temperature := float32(0.7)
	if g.personality == "shitpost" {
		temperature = 0.8
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(req.Category, g.personality)},
			userMsg,
		},
		Temperature: temperature,
		MaxTokens:   generateMaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt < generateMaxRetries; attempt++ {
		resp, err := g.client.CreateChatCompletion(ctx, chatReq)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("model returned no choices")
			}
			return CleanCandidate(resp.Choices[0].Message.Content), nil
		}
		lastErr = err
		g.logger.Warn("generation attempt failed", "attempt", attempt+1, "error", err)
		if attempt < generateMaxRetries-1 {
			backoff := time.Duration(1<<attempt) * time.Second
			if err := g.sleepFn(ctx, backoff); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("generation failed after %d attempts: %w", generateMaxRetries, lastErr)
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
