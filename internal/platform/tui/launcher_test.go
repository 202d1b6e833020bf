package tui

import (
	"testing"
	"time"

	"github.com/vovakirdan/monake/internal/config"
)

func TestLauncherNewGame(t *testing.T) {
	l := &Launcher{Config: config.DefaultMonakeConfig(), Seed: 42}

	normal, err := l.NewGame(config.DifficultyNormal)
	if err != nil {
		t.Fatalf("NewGame(normal) failed: %v", err)
	}
	if normal.Seed != 42 || normal.Preset != config.DifficultyNormal {
		t.Errorf("unexpected game %+v", normal)
	}
	if normal.Settings.TickInterval != 120*time.Millisecond {
		t.Errorf("normal tick = %v", normal.Settings.TickInterval)
	}
	if normal.Theme.Name != "classic" {
		t.Errorf("theme = %q", normal.Theme.Name)
	}

	hard, err := l.NewGame(config.DifficultyHard)
	if err != nil {
		t.Fatalf("NewGame(hard) failed: %v", err)
	}
	if hard.Settings.TickInterval != 80*time.Millisecond {
		t.Errorf("hard tick = %v, expected 80ms", hard.Settings.TickInterval)
	}

	// The base config must not pick up the preset.
	if l.Config.Timing.TickIntervalMs != 120 {
		t.Errorf("launcher config was modified: %d", l.Config.Timing.TickIntervalMs)
	}
}

func TestLauncherTimeSeed(t *testing.T) {
	l := &Launcher{Config: config.DefaultMonakeConfig()}
	game, err := l.NewGame(config.DifficultyEasy)
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	if game.Seed == 0 {
		t.Error("a zero seed should be replaced")
	}
}

func TestLauncherRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultMonakeConfig()
	cfg.Display.Theme = "sepia"
	if _, err := (&Launcher{Config: cfg}).NewGame(config.DifficultyNormal); err == nil {
		t.Error("unknown theme should fail")
	}

	cfg = config.DefaultMonakeConfig()
	cfg.Snake.StartX = 99
	if _, err := (&Launcher{Config: cfg}).NewGame(config.DifficultyNormal); err == nil {
		t.Error("start outside the grid should fail")
	}
}
