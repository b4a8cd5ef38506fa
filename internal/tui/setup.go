// ABOUTME: Interactive TUI wizard for first-time agent configuration.
// ABOUTME: 4-step bubbletea model collecting Ollama endpoint, model, personality, and platform token.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultOllamaURL is the local Ollama endpoint probed by default.
const DefaultOllamaURL = "http://localhost:11434"

// DefaultModel is suggested when no model is configured yet.
const DefaultModel = "gemma3:4b"

// Step represents the current wizard step.
type Step int

const (
	StepOllamaURL Step = iota
	StepModel
	StepPersonality
	StepToken
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for backend validation.
type ValidateFn func(ctx context.Context, ollamaURL string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [4]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing
// config values.
func NewSetupModel(ollamaURL, model, personality, token string) SetupModel {
	urlInput := textinput.New()
	urlInput.Placeholder = DefaultOllamaURL
	urlInput.Focus()
	urlInput.Width = 50
	if ollamaURL != "" {
		urlInput.SetValue(ollamaURL)
	}

	modelInput := textinput.New()
	modelInput.Placeholder = DefaultModel
	modelInput.Width = 50
	if model != "" {
		modelInput.SetValue(model)
	}

	personalityInput := textinput.New()
	personalityInput.Placeholder = "chill | hyped | shitpost"
	personalityInput.Width = 50
	if personality != "" {
		personalityInput.SetValue(personality)
	}

	tokenInput := textinput.New()
	tokenInput.Placeholder = "platform bearer token (empty = simulation mode)"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.Width = 50
	if token != "" {
		tokenInput.SetValue(token)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepOllamaURL,
		inputs:     [4]textinput.Model{urlInput, modelInput, personalityInput, tokenInput},
		spinner:    s,
		validateFn: ValidateOllama,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepOllamaURL, StepModel, StepPersonality, StepToken:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)

		// Apply defaults on empty input where a sensible default exists.
		switch m.step {
		case StepOllamaURL:
			val := m.inputs[0].Value()
			if val == "" {
				m.inputs[0].SetValue(DefaultOllamaURL)
			} else {
				m.inputs[0].SetValue(strings.TrimRight(val, "/"))
			}
		case StepModel:
			if m.inputs[1].Value() == "" {
				m.inputs[1].SetValue(DefaultModel)
			}
		case StepPersonality:
			val := strings.ToLower(strings.TrimSpace(m.inputs[2].Value()))
			if val == "" {
				val = "chill"
			}
			if val != "chill" && val != "hyped" && val != "shitpost" {
				return m, nil
			}
			m.inputs[2].SetValue(val)
		}

		m.inputs[idx].Blur()

		switch m.step {
		case StepOllamaURL:
			m.step = StepModel
			m.inputs[1].Focus()
			return m, textinput.Blink
		case StepModel:
			m.step = StepPersonality
			m.inputs[2].Focus()
			return m, textinput.Blink
		case StepPersonality:
			m.step = StepToken
			m.inputs[3].Focus()
			return m, textinput.Blink
		case StepToken:
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	ollamaURL := m.inputs[0].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, ollamaURL)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   HOSHIKO"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure your posting agent.\n\n")

	switch m.step {
	case StepOllamaURL:
		b.WriteString(stepStyle.Render("Step 1 of 4: Ollama URL"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepModel:
		b.WriteString(fmt.Sprintf("  Ollama URL: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 4: Model"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepPersonality:
		b.WriteString(fmt.Sprintf("  Ollama URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Model: %s\n\n", m.inputs[1].Value()))
		b.WriteString(stepStyle.Render("Step 3 of 4: Personality"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepToken:
		b.WriteString(fmt.Sprintf("  Ollama URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Model: %s\n", m.inputs[1].Value()))
		b.WriteString(fmt.Sprintf("  Personality: %s\n\n", m.inputs[2].Value()))
		b.WriteString(stepStyle.Render("Step 4 of 4: Platform token"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(leave empty to run in simulation mode)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[3].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Ollama URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Model: %s\n\n", m.inputs[1].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking the Ollama endpoint...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Configured!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (ollamaURL, model, personality, token string) {
	return m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value(), m.inputs[3].Value()
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
