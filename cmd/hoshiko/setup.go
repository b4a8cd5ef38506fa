// ABOUTME: Cobra command for interactive agent setup.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate the backend configuration.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hoshiko-bot/hoshiko/internal/config"
	"github.com/hoshiko-bot/hoshiko/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the agent interactively",
	Long:  "Interactive wizard to configure the Ollama backend and platform credentials.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(
		cfg.OllamaBaseURL,
		cfg.OllamaModel,
		cfg.PersonalityMode,
		cfg.Platform.BearerToken,
	)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	ollamaURL, ollamaModel, personality, token := final.Result()
	cfg.OllamaBaseURL = ollamaURL
	cfg.OllamaModel = ollamaModel
	cfg.PersonalityMode = personality
	cfg.Platform.BearerToken = token
	cfg.SimulationMode = token == ""

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.Path()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
