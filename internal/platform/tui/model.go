package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/monake/internal/attest"
	"github.com/vovakirdan/monake/internal/core"
	"github.com/vovakirdan/monake/internal/games/monake"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hudValue    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// scoreRecordedMsg reports the result of recording a finished session.
type scoreRecordedMsg struct {
	source  *monake.Scheduler
	outcome RecordOutcome
	err     error
}

// GameModel is the Bubble Tea model for one Monake game.
// It never touches the session directly: input goes to the scheduler and
// the view is built from the latest snapshot.
type GameModel struct {
	game       *Game
	recorder   *Recorder
	player     string
	screen     *core.Screen
	timer      progress.Model
	keyMapper  *KeyMapper
	swipe      swipeTracker
	snap       monake.Snapshot
	ready      bool
	best       int
	status     string
	recorded   bool
	stopped    bool
	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for a game whose scheduler is already running.
func NewGameModel(game *Game, recorder *Recorder, player string, width, height int) GameModel {
	w, h := boardSize(game.Settings.GridSize)
	timer := progress.New(
		progress.WithGradient("#FFD700", "#FF8C00"),
		progress.WithoutPercentage(),
		progress.WithWidth(w-2),
	)

	return GameModel{
		game:      game,
		recorder:  recorder,
		player:    player,
		screen:    core.NewScreen(w, h),
		timer:     timer,
		keyMapper: NewKeyMapper(),
		best:      recorder.Best(player, game.Preset),
		width:     width,
		height:    height,
	}
}

// Init starts listening for engine snapshots.
func (m GameModel) Init() tea.Cmd {
	return waitForSnapshot(m.game.Scheduler)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if d, ok := m.swipe.Track(msg).Direction(); ok {
			m.game.Scheduler.Enqueue(d)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		if msg.Source != m.game.Scheduler {
			return m, nil
		}
		return m.handleSnapshot(msg.Snapshot)

	case scoreRecordedMsg:
		if msg.source != m.game.Scheduler {
			return m, nil
		}
		m.status = describeOutcome(msg.outcome, msg.err)
		if msg.err == nil {
			m.best = max(m.best, msg.outcome.Best)
		}
		return m, nil

	case EngineStoppedMsg:
		if msg.Source != m.game.Scheduler {
			return m, nil
		}
		m.stopped = true
		if m.snap.Lifecycle.Phase != monake.PhaseGameOver {
			m.status = "The game engine stopped. Press B to leave."
		}
		return m, nil
	}

	return m, nil
}

// handleSnapshot stores the latest state and records the score once per game over.
func (m GameModel) handleSnapshot(snap monake.Snapshot) (tea.Model, tea.Cmd) {
	m.snap = snap
	m.ready = true
	cmds := []tea.Cmd{waitForSnapshot(m.game.Scheduler)}

	switch snap.Lifecycle.Phase {
	case monake.PhaseGameOver:
		if !m.recorded && snap.Result != nil {
			m.recorded = true
			m.status = "Recording score..."
			cmds = append(cmds, m.recordCmd(*snap.Result))
		}
	case monake.PhaseStarting:
		if m.recorded {
			m.recorded = false
			m.status = ""
		}
	}

	return m, tea.Batch(cmds...)
}

// recordCmd records the result off the UI goroutine.
func (m GameModel) recordCmd(res monake.Result) tea.Cmd {
	recorder, player, game := m.recorder, m.player, m.game
	return func() tea.Msg {
		out, err := recorder.Record(player, game.Preset, game.Settings, res)
		return scoreRecordedMsg{source: game.Scheduler, outcome: out, err: err}
	}
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if d, ok := action.Direction(); ok {
		m.game.Scheduler.Enqueue(d)
		return m, nil
	}

	over := m.snap.Lifecycle.Phase == monake.PhaseGameOver
	switch action {
	case core.ActionRestart, core.ActionConfirm:
		if over {
			m.game.Scheduler.Restart()
		}
	case core.ActionBack:
		if over || m.stopped {
			m.backToMenu = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// describeOutcome turns a record result into a status line.
func describeOutcome(out RecordOutcome, err error) string {
	switch {
	case errors.Is(err, ErrNoStore):
		return "Scores are not saved (no database)."
	case errors.Is(err, attest.ErrImplausible):
		return "Score rejected: result failed validation."
	case err != nil:
		return fmt.Sprintf("Could not save score: %v", err)
	case out.Skipped:
		return "No score to record."
	case out.NewBest:
		return fmt.Sprintf("New personal best: %d!", out.Entry.Score)
	case out.Signed:
		return "Score saved and signed."
	default:
		return "Score saved."
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	DrawBoard(m.screen, m.snap)

	sections := []string{
		m.renderHUD(),
		RenderScreen(m.screen, m.game.Theme),
		m.renderSuperTimer(),
		m.renderFooter(),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m GameModel) renderHUD() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MONAKE"))
	b.WriteString(hudStyle.Render(" · " + m.game.Preset.Title() + "   Score "))
	b.WriteString(hudValue.Render(fmt.Sprintf("%d", m.snap.Score)))
	b.WriteString(hudStyle.Render("   Best "))
	b.WriteString(hudValue.Render(fmt.Sprintf("%d", max(m.best, m.snap.Score))))
	b.WriteString(hudStyle.Render("   Length "))
	b.WriteString(hudValue.Render(fmt.Sprintf("%d", len(m.snap.Snake))))
	return b.String()
}

// renderSuperTimer shows how long the super food stays; blank when there is none.
func (m GameModel) renderSuperTimer() string {
	if m.snap.Super == nil {
		return ""
	}
	return m.timer.ViewAs(m.snap.SuperRatio())
}

func (m GameModel) renderFooter() string {
	help := helpStyle.Render("Arrows/WASD/hjkl: steer  Q: quit")
	if m.snap.Lifecycle.Phase == monake.PhaseGameOver || m.stopped {
		help = helpStyle.Render("R: restart  B: menu  Q: quit")
	}
	if m.status == "" {
		return help
	}
	return lipgloss.JoinVertical(lipgloss.Center, statusStyle.Render(m.status), help)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a game until the player leaves.
// It reports whether the player asked to go back to the menu.
func Run(game *Game, recorder *Recorder, player string, opts ...tea.ProgramOption) (backToMenu bool, err error) {
	model := NewGameModel(game, recorder, player, 0, 0)

	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse drags steer like swipes
	}, opts...)

	finalModel, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(GameModel)
	return ok && m.BackToMenu(), nil
}
