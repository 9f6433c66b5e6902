package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"github.com/radiopartizan/theia/internal/config"
	"github.com/spf13/cobra"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// --- inputModel: bubbletea model for text input with validation ---

type inputModel struct {
	textInput textinput.Model
	title     string
	validate  func(string) error
	errMsg    string
	done      bool
	aborted   bool
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			val := m.textInput.Value()
			if m.validate != nil {
				if err := m.validate(val); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.textInput.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// --- confirmModel: bubbletea model for yes/no confirmation ---

type confirmModel struct {
	title   string
	value   bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.value = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.value = false
			m.done = true
			return m, tea.Quit
		case "left", "right", "tab", "h", "l":
			m.value = !m.value
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes := " Yes "
	no := " No "
	if m.value {
		yes = selectedStyle.Render(" Yes ")
	} else {
		no = selectedStyle.Render(" No ")
	}
	return fmt.Sprintf("%s %s / %s\n", titleStyle.Render(m.title), yes, no)
}

// --- prompt helpers ---

func promptInput(title, placeholder string, validate func(string) error) (string, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	m := inputModel{
		textInput: ti,
		title:     title,
		validate:  validate,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	rm := result.(inputModel)
	if rm.aborted {
		return "", fmt.Errorf("user aborted")
	}
	return rm.textInput.Value(), nil
}

func promptConfirm(title string) (bool, error) {
	m := confirmModel{
		title: title,
	}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	rm := result.(confirmModel)
	if rm.aborted {
		return false, fmt.Errorf("user aborted")
	}
	return rm.value, nil
}

// maybeWriteSettings offers to scaffold a settings file when the workspace
// runs on defaults. The two directory names end up embedded in every
// starter manifest, so they are worth confirming up front. Declining is
// not an error.
func maybeWriteSettings(cmd *cobra.Command, root string) error {
	confirmed, err := promptConfirm("No settings file found; create .theia.toml?")
	if err != nil || !confirmed {
		return err
	}

	s := config.Default()
	rootDir, err := promptInput("Source directory inside each package (root_dir)", s.RootDir, validateDirName)
	if err != nil {
		return err
	}
	outDir, err := promptInput("Compiled output directory inside each package (out_dir)", s.OutDir, validateDirName)
	if err != nil {
		return err
	}
	if rootDir = strings.TrimSpace(rootDir); rootDir != "" {
		s.RootDir = rootDir
	}
	if outDir = strings.TrimSpace(outDir); outDir != "" {
		s.OutDir = outDir
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("building settings file: %w", err)
	}
	path := filepath.Join(root, ".theia.toml")
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // settings file needs to be readable
		return fmt.Errorf("writing settings file: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Created .theia.toml")
	return nil
}

// validateDirName accepts empty input (keep the default) or a relative
// directory that stays inside the package.
func validateDirName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if filepath.IsAbs(s) || strings.Contains(s, "..") {
		return fmt.Errorf("must be a relative directory inside each package")
	}
	return nil
}
