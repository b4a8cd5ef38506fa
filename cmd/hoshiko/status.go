// ABOUTME: The status command: prints durable posting state from disk.
// ABOUTME: Reads the counter and analytics files directly; no network calls.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoshiko-bot/hoshiko/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show posting statistics",
	Long:  "Print the monthly counter and analytics from the data directory.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := storage.New(globalConfig.DataDir, globalLogger)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}

	counter, err := store.LoadCounter()
	if err != nil {
		return err
	}
	analytics, err := store.LoadAnalytics()
	if err != nil {
		return err
	}
	memory, err := store.LoadMemory()
	if err != nil {
		return err
	}

	fmt.Printf("month %s: %d/%d posts\n",
		counter.MonthKey, counter.Count, globalConfig.MaxPostsPerMonth)
	fmt.Printf("total posts: %d\n", analytics.TotalPosts)
	for category, n := range analytics.PostsByCategory {
		fmt.Printf("  %s: %d\n", category, n)
	}
	if analytics.LastPostTime != nil {
		fmt.Printf("last post: %s\n", analytics.LastPostTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("memory window: %d posts remembered\n", len(memory))
	return nil
}
