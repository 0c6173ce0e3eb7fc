package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel asks a yes/no question about a list of lines
type ConfirmModel struct {
	title     string
	lines     []string
	keys      KeyMap
	answered  bool
	confirmed bool
}

// NewConfirmModel creates a confirmation dialog
func NewConfirmModel(title string, lines []string) ConfirmModel {
	return ConfirmModel{title: title, lines: lines, keys: DefaultKeyMap()}
}

// Init initializes the model
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Confirmed reports whether the user answered yes
func (m ConfirmModel) Confirmed() bool {
	return m.answered && m.confirmed
}

// Update handles messages
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.answered, m.confirmed = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Cancel):
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the dialog
func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}

	content := []string{dialogTitleStyle.Render(m.title)}
	for _, line := range m.lines {
		content = append(content, dialogTextStyle.Render("  • "+line))
	}
	content = append(content, "", newHelp().ShortHelpView(m.keys.ConfirmHelp()))
	return dialogStyle.Render(strings.Join(content, "\n")) + "\n"
}

// Confirm shows the dialog on the terminal and returns the answer
func Confirm(title string, lines []string) (bool, error) {
	p := tea.NewProgram(NewConfirmModel(title, lines), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run confirmation: %w", err)
	}
	return final.(ConfirmModel).Confirmed(), nil
}
