package tui

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/monake/internal/audio"
	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/games/monake"
)

// Launcher builds ready-to-run games from the loaded configuration.
type Launcher struct {
	Config   config.MonakeConfig
	Seed     int64 // 0 means a time-based seed per game
	Recorder *Recorder
	Sound    *audio.SoundManager // nil disables audio
	Logger   *log.Logger
}

// Game is one engine instance with the rules it was built from.
// Run its Scheduler before handing it to a GameModel.
type Game struct {
	Scheduler *monake.Scheduler
	Settings  monake.Settings
	Preset    config.DifficultyPreset
	Seed      int64
	Theme     Theme
}

// NewGame applies preset to the base config and wires a session, its
// scheduler and optional audio together.
func (l *Launcher) NewGame(preset config.DifficultyPreset) (*Game, error) {
	logger := l.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg := l.Config
	config.ApplyMonakePreset(&cfg, preset)
	settings, err := monake.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	theme, err := ThemeByName(cfg.Display.Theme)
	if err != nil {
		return nil, err
	}

	seed := l.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := monake.New(settings, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	if l.Sound != nil {
		l.Sound.Attach(session)
	}

	logger.Debug("new game", "preset", preset, "seed", seed, "tick", settings.TickInterval)

	return &Game{
		Scheduler: monake.NewScheduler(session, monake.WithLogger(logger)),
		Settings:  settings,
		Preset:    preset,
		Seed:      seed,
		Theme:     theme,
	}, nil
}
