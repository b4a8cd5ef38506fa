// ABOUTME: Tests for the Ollama reachability check used by the setup wizard.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateOllamaReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := ValidateOllama(context.Background(), server.URL); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestValidateOllamaServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := ValidateOllama(context.Background(), server.URL); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestValidateOllamaUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if err := ValidateOllama(context.Background(), url); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestValidateOllamaTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("expected root path probe, got %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := ValidateOllama(context.Background(), server.URL+"/"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}
