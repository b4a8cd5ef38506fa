// ABOUTME: Tests for config defaults, YAML loading, env overrides, and validation.
// ABOUTME: Uses t.Setenv and a temp XDG_CONFIG_HOME so no real config is touched.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.PostIntervalSeconds != 1800 {
		t.Errorf("expected 1800s interval, got %d", cfg.PostIntervalSeconds)
	}
	if cfg.MaxPostsPerMonth != 500 {
		t.Errorf("expected 500 posts per month, got %d", cfg.MaxPostsPerMonth)
	}
	if cfg.QuietHoursStart != 2 || cfg.QuietHoursEnd != 7 {
		t.Errorf("expected quiet hours 2-7, got %d-%d", cfg.QuietHoursStart, cfg.QuietHoursEnd)
	}
	if !cfg.SimulationMode {
		t.Error("simulation mode should default to on")
	}
	if cfg.SimilarityThreshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %g", cfg.SimilarityThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MAX_POSTS_PER_MONTH", "42")
	t.Setenv("PERSONALITY_MODE", "shitpost")
	t.Setenv("USE_HASHTAGS", "false")
	t.Setenv("DUPLICATE_SIMILARITY_THRESHOLD", "0.8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MaxPostsPerMonth != 42 {
		t.Errorf("expected 42, got %d", cfg.MaxPostsPerMonth)
	}
	if cfg.PersonalityMode != "shitpost" {
		t.Errorf("expected shitpost, got %q", cfg.PersonalityMode)
	}
	if cfg.UseHashtags {
		t.Error("USE_HASHTAGS=false should disable hashtags")
	}
	if cfg.SimilarityThreshold != 0.8 {
		t.Errorf("expected 0.8, got %g", cfg.SimilarityThreshold)
	}
}

func TestLoadReadsYAMLThenEnvWins(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	dir := filepath.Join(configHome, "hoshiko")
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	yaml := "post_interval_seconds: 600\nollama_model: llama3:8b\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POST_INTERVAL_SECONDS", "120")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.OllamaModel != "llama3:8b" {
		t.Errorf("YAML model not applied, got %q", cfg.OllamaModel)
	}
	if cfg.PostIntervalSeconds != 120 {
		t.Errorf("env should override YAML, got %d", cfg.PostIntervalSeconds)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	dir := filepath.Join(configHome, "hoshiko")
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero interval", func(c *Config) { c.PostIntervalSeconds = 0 }},
		{"zero ceiling", func(c *Config) { c.MaxPostsPerMonth = 0 }},
		{"quiet start out of range", func(c *Config) { c.QuietHoursStart = 24 }},
		{"quiet end negative", func(c *Config) { c.QuietHoursEnd = -1 }},
		{"threshold zero", func(c *Config) { c.SimilarityThreshold = 0 }},
		{"threshold above one", func(c *Config) { c.SimilarityThreshold = 1.5 }},
		{"zero window", func(c *Config) { c.MemoryWindowSize = 0 }},
		{"unknown personality", func(c *Config) { c.PersonalityMode = "sleepy" }},
		{"empty ollama url", func(c *Config) { c.OllamaBaseURL = "" }},
		{"live mode without token", func(c *Config) { c.SimulationMode = false }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsLiveModeWithCredentials(t *testing.T) {
	cfg := Default()
	cfg.SimulationMode = false
	cfg.Platform.BearerToken = "token"
	if err := cfg.Validate(); err != nil {
		t.Errorf("live mode with credentials should validate, got %v", err)
	}
}

func TestGetEnvBoolParsing(t *testing.T) {
	cases := map[string]bool{
		"true": true, "1": true, "YES": true,
		"false": false, "0": false, "No": false,
	}
	for value, want := range cases {
		t.Setenv("HOSHIKO_TEST_BOOL", value)
		got, err := getEnvBool("HOSHIKO_TEST_BOOL", !want)
		if err != nil {
			t.Errorf("getEnvBool(%q) error: %v", value, err)
		}
		if got != want {
			t.Errorf("getEnvBool(%q) = %v, want %v", value, got, want)
		}
	}
	t.Setenv("HOSHIKO_TEST_BOOL", "maybe")
	if _, err := getEnvBool("HOSHIKO_TEST_BOOL", true); err == nil {
		t.Error("unparseable boolean should be an error")
	}
}

func TestLoadFailsOnUnparseableEnv(t *testing.T) {
	cases := map[string]string{
		"QUIET_HOURS_START":              "abc",
		"MAX_POSTS_PER_MONTH":            "many",
		"DUPLICATE_SIMILARITY_THRESHOLD": "high",
		"SIMULATION_MODE":                "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("expected Load to fail with %s=%s", key, value)
			}
		})
	}
}
