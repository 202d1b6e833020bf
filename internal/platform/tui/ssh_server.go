package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/monake/internal/attest"
	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file. The same key signs scores.
	// If empty, a key will be auto-generated at ~/.monake/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the base configuration every session plays with.
	Game config.MonakeConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.monake/scores.db",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultMonakeConfig(),
	}
}

// SSHServer wraps a Wish SSH server that serves Monake.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	launcher *Launcher
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "monake-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".monake", "host_key")
	}

	// Create the key up front so scores and the host share it
	signer, err := attest.LoadOrCreateKey(hostKeyPath)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot load host key: %w", err)
	}
	logger.Info("score signing key", "fingerprint", signer.Fingerprint())

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
		launcher: &Launcher{
			Config:   cfg.Game,
			Recorder: NewRecorder(store, signer, logger),
			Logger:   logger,
		},
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create session model that handles menu + game flow
	model := NewSessionModel(
		sshSession.Context(),
		s.launcher,
		s.store,
		sshSession.User(),
		pty.Window.Width,
		pty.Window.Height,
	)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is what a SessionModel is currently showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel manages the full session flow: menu -> game -> menu.
// This is the top-level model used for SSH sessions. Each game gets its own
// scheduler goroutine, cancelled when the player leaves it or disconnects.
type SessionModel struct {
	ctx        context.Context
	launcher   *Launcher
	store      *storage.Store
	username   string
	width      int
	height     int
	screen     sessionScreen
	menu       MenuModel
	scores     ScoreboardModel
	gameModel  *GameModel
	cancelGame context.CancelFunc
	lastPreset config.DifficultyPreset
	status     string
	quitting   bool
}

// NewSessionModel creates a new session model bound to ctx.
func NewSessionModel(ctx context.Context, launcher *Launcher, store *storage.Store, username string, width, height int) SessionModel {
	m := SessionModel{
		ctx:        ctx,
		launcher:   launcher,
		store:      store,
		username:   username,
		width:      width,
		height:     height,
		lastPreset: config.DifficultyNormal,
	}
	m.menu = m.newMenu()
	return m
}

// newMenu builds a menu showing the player's best score per preset.
func (m SessionModel) newMenu() MenuModel {
	bests := make(map[config.DifficultyPreset]int)
	for _, p := range config.Presets() {
		bests[p] = m.launcher.Recorder.Best(m.username, p)
	}
	return NewMenuModel(bests, m.width, m.height)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.store, m.lastPreset, m.width, m.height)
		m.screen = screenScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		return m.startGame(*m.menu.Selected())
	}

	return m, cmd
}

// startGame builds a game for preset and runs its scheduler until the
// player leaves or the SSH session ends.
func (m SessionModel) startGame(preset config.DifficultyPreset) (tea.Model, tea.Cmd) {
	m.lastPreset = preset
	game, err := m.launcher.NewGame(preset)
	if err != nil {
		m.status = fmt.Sprintf("Could not start game: %v", err)
		m.menu = m.newMenu()
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	logger := m.launcher.Logger
	go func() {
		if err := game.Scheduler.Run(ctx); err != nil && logger != nil {
			logger.Error("game stopped", "user", m.username, "error", err)
		}
	}()

	gm := NewGameModel(game, m.launcher.Recorder, m.username, m.width, m.height)
	m.gameModel = &gm
	m.cancelGame = cancel
	m.status = ""
	m.screen = screenGame

	return m, m.gameModel.Init()
}

// stopGame cancels the running scheduler, if any.
func (m *SessionModel) stopGame() {
	if m.cancelGame != nil {
		m.cancelGame()
		m.cancelGame = nil
	}
	m.gameModel = nil
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.stopGame()
		m.quitting = true
		return m, tea.Quit
	}

	// Check if user quit game (back to menu)
	if m.gameModel.BackToMenu() {
		m.stopGame()
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is open.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if scores, ok := newModel.(ScoreboardModel); ok {
		m.scores = scores
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenScores:
		return m.scores.View()
	}

	if m.status != "" {
		return m.menu.View() + "\n" + centerText(statusStyle.Render(m.status), m.width)
	}
	return m.menu.View()
}
