package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/monake/internal/config"
)

// menuEntry is one selectable line: a preset, the scoreboard or quit.
type menuEntry struct {
	Title      string
	Preset     config.DifficultyPreset
	Scoreboard bool
	Quit       bool
}

// MenuModel is the Bubble Tea model for the preset picker.
type MenuModel struct {
	entries        []menuEntry
	cursor         int
	width          int
	height         int
	bests          map[config.DifficultyPreset]int
	keyMapper      *KeyMapper
	quitting       bool
	selected       *config.DifficultyPreset
	openScoreboard bool
}

// NewMenuModel creates a new menu model. bests may be nil.
func NewMenuModel(bests map[config.DifficultyPreset]int, width, height int) MenuModel {
	entries := make([]menuEntry, 0, len(config.Presets())+2)
	for _, p := range config.Presets() {
		entries = append(entries, menuEntry{Title: p.Title(), Preset: p})
	}
	entries = append(entries,
		menuEntry{Title: "High Scores", Scoreboard: true},
		menuEntry{Title: "Quit", Quit: true},
	)

	m := MenuModel{
		entries:   entries,
		width:     width,
		height:    height,
		bests:     bests,
		keyMapper: NewKeyMapper(),
	}
	// Start on Normal.
	for i, e := range entries {
		if e.Preset == config.DifficultyNormal {
			m.cursor = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit

	case MenuActionSelect:
		e := m.entries[m.cursor]
		switch {
		case e.Quit:
			m.quitting = true
		case e.Scoreboard:
			m.openScoreboard = true
		default:
			preset := e.Preset
			m.selected = &preset
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  M O N A K E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose a difficulty", m.width))
	b.WriteString("\n\n")

	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	for i, e := range m.entries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + e.Title
		if e.Preset != "" {
			line = fmt.Sprintf("%s%-8s best %d", cursor, e.Title, m.bests[e.Preset])
		}
		if i == m.cursor {
			line = selected.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(helpStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen preset, or nil if none was chosen.
func (m MenuModel) Selected() *config.DifficultyPreset {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (width, height int) {
	return m.width, m.height
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Preset          config.DifficultyPreset
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(bests map[config.DifficultyPreset]int, width, height int) (MenuResult, error) {
	model := NewMenuModel(bests, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	result := MenuResult{}
	result.Width, result.Height = m.Size()

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.Preset = *m.Selected()
	default:
		result.Quit = true
	}

	return result, nil
}
