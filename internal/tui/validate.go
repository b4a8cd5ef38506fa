// ABOUTME: HTTP reachability check for the Ollama endpoint.
// ABOUTME: Probes the base URL the way the health monitor does, with a short timeout.
package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ValidateOllama checks that the Ollama server answers at its base URL.
// The context allows cancellation when the user quits during validation.
func ValidateOllama(ctx context.Context, ollamaURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, "GET", strings.TrimRight(ollamaURL, "/")+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned %d", resp.StatusCode)
	}

	return nil
}
