package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vovakirdan/monake/internal/attest"
	"github.com/vovakirdan/monake/internal/audio"
	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/platform/tui"
	"github.com/vovakirdan/monake/internal/storage"
)

const (
	logFileName  = "monake.log"
	scoreKeyName = "score_key"
)

// app bundles what the interactive commands share.
type app struct {
	logger   *log.Logger
	store    *storage.Store
	launcher *tui.Launcher
	sound    *audio.SoundManager
	player   string
	closers  []func()
}

// dataDir returns ~/.monake, creating it if needed.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".monake")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return dir, nil
}

// fileLogger logs to ~/.monake/monake.log so it never draws over the TUI.
func fileLogger() (*log.Logger, func(), error) {
	dir, err := dataDir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "monake",
		Level:           logLevel,
	})
	return logger, func() { f.Close() }, nil
}

// stderrLogger logs to stderr, for commands that do not own the terminal.
func stderrLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           logLevel,
	})
}

// playerName resolves --player, falling back to the OS user.
func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}

// terminalSize returns the terminal size, or 80x24 when unknown.
func terminalSize() (width, height int) {
	width, height = 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// newApp loads config, storage, the signing key and audio for a local session.
func newApp(withSound bool) (*app, error) {
	a := &app{player: playerName()}

	logger, closeLog, err := fileLogger()
	if err != nil {
		// Fall back to a silent logger rather than scribbling over the UI
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger, closeLog = log.New(io.Discard), func() {}
	}
	a.logger = logger
	a.closers = append(a.closers, closeLog)

	cfg, err := config.LoadMonake(flagConfig)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	} else {
		a.store = store
		a.closers = append(a.closers, func() { store.Close() })
	}

	signer := loadScoreKey(logger)

	if withSound || cfg.Audio.Enabled {
		a.sound = audio.NewSoundManager(cfg.Audio.Volume, logger)
		if err := a.sound.Initialize(); err != nil {
			logger.Warn("audio unavailable", "error", err)
		} else {
			a.closers = append(a.closers, a.sound.Cleanup)
		}
	}

	a.launcher = &tui.Launcher{
		Config:   cfg,
		Seed:     flagSeed,
		Recorder: tui.NewRecorder(a.store, signer, logger),
		Sound:    a.sound,
		Logger:   logger,
	}
	return a, nil
}

// loadScoreKey loads or creates the local signing key. Scores are stored
// unsigned when it is unavailable.
func loadScoreKey(logger *log.Logger) *attest.Signer {
	dir, err := dataDir()
	if err != nil {
		logger.Warn("scores will not be signed", "error", err)
		return nil
	}
	signer, err := attest.LoadOrCreateKey(filepath.Join(dir, scoreKeyName))
	if err != nil {
		logger.Warn("scores will not be signed", "error", err)
		return nil
	}
	return signer
}

// Close releases everything newApp opened, in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// play runs one game: the engine scheduler and the Bubble Tea program side
// by side until the player leaves. It reports whether they asked for the menu.
func (a *app) play(ctx context.Context, preset config.DifficultyPreset) (backToMenu bool, err error) {
	game, err := a.launcher.NewGame(preset)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The UI reports a stopped engine; keep it open so the player sees why.
		if runErr := game.Scheduler.Run(ctx); runErr != nil {
			a.logger.Error("engine stopped", "error", runErr)
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		start := time.Now()
		back, runErr := tui.Run(game, a.launcher.Recorder, a.player, tea.WithContext(ctx))
		a.logger.Debug("game closed", "preset", preset, "seed", game.Seed, "elapsed", time.Since(start))
		if errors.Is(runErr, tea.ErrProgramKilled) {
			runErr = nil
		}
		backToMenu = back
		return runErr
	})

	if err := g.Wait(); err != nil {
		return false, fmt.Errorf("error running game: %w", err)
	}
	return backToMenu, nil
}
