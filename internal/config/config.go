// ABOUTME: Configuration for the posting agent, loaded from YAML then overridden by env vars.
// ABOUTME: Handles defaults, XDG paths, and fatal startup validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the posting agent. The YAML file at
// ~/.config/hoshiko/config.yaml is loaded first when present; recognized
// environment variables override it.
type Config struct {
	DataDir string `yaml:"data_dir"`

	PostIntervalSeconds int `yaml:"post_interval_seconds"`
	MaxPostsPerMonth    int `yaml:"max_posts_per_month"`
	QuietHoursStart     int `yaml:"quiet_hours_start"`
	QuietHoursEnd       int `yaml:"quiet_hours_end"`

	PersonalityMode string `yaml:"personality_mode"`
	UseHashtags     bool   `yaml:"use_hashtags"`
	SimulationMode  bool   `yaml:"simulation_mode"`

	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MemoryWindowSize    int     `yaml:"memory_window_size"`
	MemoryDurationDays  int     `yaml:"memory_duration_days"`

	OllamaBaseURL string `yaml:"ollama_base_url"`
	OllamaModel   string `yaml:"ollama_model"`

	NewsAPIKey           string `yaml:"newsapi_key"`
	CacheDurationSeconds int    `yaml:"cache_duration_seconds"`

	ImageFolder  string `yaml:"image_folder"`
	MaxImageSize int64  `yaml:"max_image_size"`

	Platform PlatformConfig `yaml:"platform"`

	StatusAddr string `yaml:"status_addr"`
	LogLevel   string `yaml:"log_level"`
}

// PlatformConfig holds live social platform API settings.
type PlatformConfig struct {
	APIURL      string `yaml:"api_url"`
	BearerToken string `yaml:"bearer_token"`
}

// Personality modes accepted by PERSONALITY_MODE.
var personalityModes = []string{"chill", "hyped", "shitpost"}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataDir:              ".",
		PostIntervalSeconds:  30 * 60,
		MaxPostsPerMonth:     500,
		QuietHoursStart:      2,
		QuietHoursEnd:        7,
		PersonalityMode:      "chill",
		UseHashtags:          true,
		SimulationMode:       true,
		SimilarityThreshold:  0.6,
		MemoryWindowSize:     200,
		MemoryDurationDays:   30,
		OllamaBaseURL:        "http://localhost:11434",
		OllamaModel:          "gemma3:4b",
		CacheDurationSeconds: 60 * 60,
		ImageFolder:          "./images",
		MaxImageSize:         5 * 1024 * 1024,
		Platform: PlatformConfig{
			APIURL: "https://api.twitter.com",
		},
		LogLevel: "info",
	}
}

// Load builds the effective config: defaults, then the YAML file if it
// exists, then environment variable overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// Save writes the config YAML to disk.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Path returns the config file path, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "hoshiko", "config.yaml"), nil
}

// applyEnv overrides config fields from the recognized environment variables.
// A set but unparseable value is a fatal configuration error, never a silent
// fallback.
func (c *Config) applyEnv() error {
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.PersonalityMode = getEnv("PERSONALITY_MODE", c.PersonalityMode)
	c.OllamaBaseURL = getEnv("OLLAMA_BASE_URL", c.OllamaBaseURL)
	c.OllamaModel = getEnv("OLLAMA_MODEL", c.OllamaModel)
	c.NewsAPIKey = getEnv("NEWSAPI_KEY", c.NewsAPIKey)
	c.ImageFolder = getEnv("IMAGE_FOLDER", c.ImageFolder)
	c.Platform.APIURL = getEnv("PLATFORM_API_URL", c.Platform.APIURL)
	c.Platform.BearerToken = getEnv("PLATFORM_BEARER_TOKEN", c.Platform.BearerToken)
	c.StatusAddr = getEnv("STATUS_ADDR", c.StatusAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	var err error
	if c.PostIntervalSeconds, err = getEnvInt("POST_INTERVAL_SECONDS", c.PostIntervalSeconds); err != nil {
		return err
	}
	if c.MaxPostsPerMonth, err = getEnvInt("MAX_POSTS_PER_MONTH", c.MaxPostsPerMonth); err != nil {
		return err
	}
	if c.QuietHoursStart, err = getEnvInt("QUIET_HOURS_START", c.QuietHoursStart); err != nil {
		return err
	}
	if c.QuietHoursEnd, err = getEnvInt("QUIET_HOURS_END", c.QuietHoursEnd); err != nil {
		return err
	}
	if c.UseHashtags, err = getEnvBool("USE_HASHTAGS", c.UseHashtags); err != nil {
		return err
	}
	if c.SimulationMode, err = getEnvBool("SIMULATION_MODE", c.SimulationMode); err != nil {
		return err
	}
	if c.SimilarityThreshold, err = getEnvFloat("DUPLICATE_SIMILARITY_THRESHOLD", c.SimilarityThreshold); err != nil {
		return err
	}
	if c.MemoryWindowSize, err = getEnvInt("MEMORY_WINDOW_SIZE", c.MemoryWindowSize); err != nil {
		return err
	}
	if c.MemoryDurationDays, err = getEnvInt("MEMORY_DURATION_DAYS", c.MemoryDurationDays); err != nil {
		return err
	}
	if c.CacheDurationSeconds, err = getEnvInt("CACHE_DURATION_SECONDS", c.CacheDurationSeconds); err != nil {
		return err
	}
	maxImage, err := getEnvInt("MAX_IMAGE_SIZE", int(c.MaxImageSize))
	if err != nil {
		return err
	}
	c.MaxImageSize = int64(maxImage)
	return nil
}

// Validate checks for fatal misconfiguration. Any error here exits the
// process before the posting loop starts.
func (c *Config) Validate() error {
	if c.PostIntervalSeconds <= 0 {
		return fmt.Errorf("POST_INTERVAL_SECONDS must be positive, got %d", c.PostIntervalSeconds)
	}
	if c.MaxPostsPerMonth <= 0 {
		return fmt.Errorf("MAX_POSTS_PER_MONTH must be positive, got %d", c.MaxPostsPerMonth)
	}
	if c.QuietHoursStart < 0 || c.QuietHoursStart > 23 {
		return fmt.Errorf("QUIET_HOURS_START must be in 0..23, got %d", c.QuietHoursStart)
	}
	if c.QuietHoursEnd < 0 || c.QuietHoursEnd > 23 {
		return fmt.Errorf("QUIET_HOURS_END must be in 0..23, got %d", c.QuietHoursEnd)
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("DUPLICATE_SIMILARITY_THRESHOLD must be in (0,1], got %g", c.SimilarityThreshold)
	}
	if c.MemoryWindowSize <= 0 {
		return fmt.Errorf("MEMORY_WINDOW_SIZE must be positive, got %d", c.MemoryWindowSize)
	}
	if !validPersonality(c.PersonalityMode) {
		return fmt.Errorf("PERSONALITY_MODE must be one of %s, got %q",
			strings.Join(personalityModes, ", "), c.PersonalityMode)
	}
	if c.OllamaBaseURL == "" {
		return fmt.Errorf("OLLAMA_BASE_URL must not be empty")
	}
	if !c.SimulationMode {
		if c.Platform.APIURL == "" {
			return fmt.Errorf("PLATFORM_API_URL is required when live posting is enabled")
		}
		if c.Platform.BearerToken == "" {
			return fmt.Errorf("PLATFORM_BEARER_TOKEN is required when live posting is enabled")
		}
	}
	return nil
}

// Interval returns the sleep duration between cycles.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.PostIntervalSeconds) * time.Second
}

// MemoryRetention returns how long post records stay relevant for dedup.
func (c *Config) MemoryRetention() time.Duration {
	return time.Duration(c.MemoryDurationDays) * 24 * time.Hour
}

// CacheDuration returns how long fetched headlines stay fresh.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheDurationSeconds) * time.Second
}

func validPersonality(mode string) bool {
	for _, m := range personalityModes {
		if m == mode {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, v)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
}
