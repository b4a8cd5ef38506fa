// ABOUTME: The run command: wires all collaborators and starts the posting loop.
// ABOUTME: Also the default action of the bare binary; exits 0 on SIGINT/SIGTERM.
package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hoshiko-bot/hoshiko/internal/api"
	"github.com/hoshiko-bot/hoshiko/internal/bot"
	"github.com/hoshiko-bot/hoshiko/internal/clock"
	"github.com/hoshiko-bot/hoshiko/internal/config"
	"github.com/hoshiko-bot/hoshiko/internal/content"
	"github.com/hoshiko-bot/hoshiko/internal/dedupe"
	"github.com/hoshiko-bot/hoshiko/internal/gate"
	"github.com/hoshiko-bot/hoshiko/internal/publish"
	"github.com/hoshiko-bot/hoshiko/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the posting loop",
	Long:  "Start the agent and post on the configured cadence until interrupted.",
	RunE:  runAgent,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	controller, _, err := buildController(globalConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if globalConfig.StatusAddr != "" {
		server := api.New(controller, globalConfig.OllamaBaseURL, globalLogger)
		go func() {
			if err := server.Run(ctx, globalConfig.StatusAddr); err != nil {
				globalLogger.Warn("status server stopped", "error", err)
			}
		}()
	}

	return controller.Run(ctx)
}

// buildController assembles the controller and its collaborators from config.
func buildController(cfg *config.Config) (*bot.Controller, *storage.Store, error) {
	store, err := storage.New(cfg.DataDir, globalLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}

	memory, err := store.LoadMemory()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load post memory: %w", err)
	}
	clk := clock.Clock(clock.System)

	filter := dedupe.NewFilter(cfg.SimilarityThreshold, cfg.MemoryWindowSize, memory)
	filter.PruneOlderThan(clk().Add(-cfg.MemoryRetention()))

	counter, err := store.LoadCounter()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load monthly counter: %w", err)
	}
	limiter := gate.NewRateLimiter(cfg.MaxPostsPerMonth, counter, clk)

	analytics, err := store.LoadAnalytics()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load analytics: %w", err)
	}

	generator := content.NewOllamaGenerator(
		cfg.OllamaBaseURL, cfg.OllamaModel, cfg.PersonalityMode, globalLogger)

	var news *content.NewsClient
	if cfg.NewsAPIKey != "" {
		news = content.NewNewsClient("", cfg.NewsAPIKey, cfg.CacheDuration(), clk)
	}

	var publisher publish.Publisher
	if cfg.SimulationMode {
		publisher = publish.NewSimulator(
			filepath.Join(cfg.DataDir, "simulated_posts.jsonl"), globalLogger)
	} else {
		publisher = publish.NewAPIPublisher(cfg.Platform.APIURL, cfg.Platform.BearerToken)
	}

	controller := bot.New(
		cfg, store, filter, limiter, generator, news, publisher, analytics, clk, globalLogger)
	return controller, store, nil
}
