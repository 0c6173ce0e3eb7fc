// Package tui holds the interactive fuzzy picker and confirmation dialog.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/junegunn/fzf/src/util"
)

// ErrNoSelection is returned when the user leaves the picker without
// choosing an item
var ErrNoSelection = errors.New("no selection made")

// PickerModel is a single-choice fuzzy finder
type PickerModel struct {
	title   string
	items   []string
	matches []match
	cursor  int

	input textinput.Model
	slab  *util.Slab
	keys  KeyMap
	help  help.Model

	width  int
	height int

	chosen    int
	cancelled bool
}

// NewPickerModel creates a picker over items
func NewPickerModel(title string, items []string) PickerModel {
	si := textinput.New()
	si.Placeholder = "Type to filter..."
	si.Prompt = "> "
	si.CharLimit = 100
	si.Width = 40
	si.Focus()

	m := PickerModel{
		title:  title,
		items:  items,
		input:  si,
		slab:   newSlab(),
		keys:   DefaultKeyMap(),
		help:   newHelp(),
		chosen: -1,
	}
	m.matches = rank(items, "", m.slab)
	return m
}

// Init initializes the model
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Chosen returns the index of the selected item
func (m PickerModel) Chosen() (int, bool) {
	return m.chosen, m.chosen >= 0 && !m.cancelled
}

// Update handles messages
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Enter):
			if len(m.matches) == 0 {
				return m, nil
			}
			m.chosen = m.matches[m.cursor].index
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.matches = rank(m.items, m.input.Value(), m.slab)
		m.cursor = 0
	}
	return m, cmd
}

// View renders the picker
func (m PickerModel) View() string {
	if m.chosen >= 0 || m.cancelled {
		return ""
	}

	content := []string{
		titleStyle.Render(m.title),
		m.input.View(),
		countStyle.Render(fmt.Sprintf("  %d/%d", len(m.matches), len(m.items))),
	}

	maxItems := m.height - 5
	if m.height == 0 || maxItems < 5 {
		maxItems = 10
	}
	startIdx := 0
	if m.cursor >= maxItems {
		startIdx = m.cursor - maxItems + 1
	}

	for pos := startIdx; pos < len(m.matches) && pos < startIdx+maxItems; pos++ {
		mt := m.matches[pos]
		selected := pos == m.cursor
		prefix, style := "  ", itemStyle
		if selected {
			prefix, style = "> ", selectedItemStyle
		}
		content = append(content, style.Render(prefix)+highlight(m.items[mt.index], mt.positions, selected))
	}

	if len(m.matches) == 0 {
		content = append(content, mutedStyle.Render("  No matches"))
	}

	content = append(content, "", m.help.View(m.keys))
	return strings.Join(content, "\n")
}

// highlight renders text with the matched rune positions emphasized
func highlight(text string, positions []int, selected bool) string {
	base, hl := itemStyle, highlightStyle
	if selected {
		base, hl = selectedItemStyle, selectedHighlightStyle
	}
	if len(positions) == 0 {
		return base.Render(text)
	}

	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}
	var b strings.Builder
	for i, r := range []rune(text) {
		if marked[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// Pick runs the picker on the terminal and returns the chosen index
func Pick(title string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, ErrNoSelection
	}

	p := tea.NewProgram(NewPickerModel(title, items), tea.WithOutput(os.Stderr), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("failed to run picker: %w", err)
	}
	idx, ok := final.(PickerModel).Chosen()
	if !ok {
		return -1, ErrNoSelection
	}
	return idx, nil
}
