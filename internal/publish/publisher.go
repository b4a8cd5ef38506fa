// ABOUTME: Publisher interface with live platform API and simulation implementations.
// ABOUTME: Live posting is an HTTP POST with bearer auth; simulation appends a JSONL record.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hoshiko-bot/hoshiko/internal/models"
)

// Publisher sends a post to its destination and returns the platform-assigned
// post ID. Any error means nothing was published and no state may advance.
type Publisher interface {
	Publish(ctx context.Context, post *models.Post) (string, error)
}

// APIPublisher posts to a live social platform API.
type APIPublisher struct {
	apiURL string
	token  string
	client *http.Client
}

// NewAPIPublisher creates a live publisher with the given base URL and bearer
// token.
func NewAPIPublisher(apiURL, token string) *APIPublisher {
	return &APIPublisher{
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// createPostPayload is the JSON body sent to the platform.
type createPostPayload struct {
	Text string `json:"text"`
}

// createPostResponse maps the platform's create-post response envelope.
type createPostResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Publish sends the post text to the platform and returns the new post ID.
func (p *APIPublisher) Publish(ctx context.Context, post *models.Post) (string, error) {
	body, err := json.Marshal(createPostPayload{Text: post.Text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("platform request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", fmt.Errorf("platform returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed createPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode platform response: %w", err)
	}
	if parsed.Data.ID == "" {
		return "", fmt.Errorf("platform response missing post id")
	}
	return parsed.Data.ID, nil
}

// Simulator records intended posts without contacting any platform. Each
// publish is logged and appended as one JSON line to the simulation log.
type Simulator struct {
	logPath string
	logger  *slog.Logger
}

// NewSimulator creates a simulation publisher writing to logPath. An empty
// path disables the file record and only logs.
func NewSimulator(logPath string, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{logPath: logPath, logger: logger}
}

// simulatedPost is one line of the simulation log.
type simulatedPost struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Category  models.Category `json:"category"`
	ImagePath string          `json:"image_path,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publish records the post and returns a synthetic ID.
func (s *Simulator) Publish(ctx context.Context, post *models.Post) (string, error) {
	id := "sim-" + post.ID.String()
	s.logger.Info("[simulation] would post",
		"text", post.Text, "category", post.Category, "image", post.ImagePath)

	if s.logPath == "" {
		return id, nil
	}

	line, err := json.Marshal(simulatedPost{
		ID:        id,
		Text:      post.Text,
		Category:  post.Category,
		ImagePath: post.ImagePath,
		Timestamp: post.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal simulated post: %w", err)
	}

	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return "", fmt.Errorf("failed to open simulation log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return "", fmt.Errorf("failed to append simulation log: %w", err)
	}
	return id, nil
}
