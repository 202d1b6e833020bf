// Package config provides YAML-based game configuration loading and
// difficulty presets for Monake.
package config

import (
	"errors"
	"fmt"
)

// MonakeConfig contains all configuration for the game.
type MonakeConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Timing  TimingConfig  `yaml:"timing"`
	Snake   SnakeConfig   `yaml:"snake"`
	Food    FoodConfig    `yaml:"food"`
	Audio   AudioConfig   `yaml:"audio"`
	Display DisplayConfig `yaml:"display"`
}

// GridConfig defines the playing field.
type GridConfig struct {
	Size int `yaml:"size"` // Cells per side
}

// TimingConfig defines the tick and countdown timers.
type TimingConfig struct {
	TickIntervalMs      int `yaml:"tick_interval_ms"`
	CountdownFrom       int `yaml:"countdown_from"`
	CountdownIntervalMs int `yaml:"countdown_interval_ms"`
}

// SnakeConfig defines where and how the snake starts.
type SnakeConfig struct {
	StartX  int    `yaml:"start_x"`
	StartY  int    `yaml:"start_y"`
	Heading string `yaml:"heading"` // right, left, up or down
}

// FoodConfig defines the food catalog and super food roll.
type FoodConfig struct {
	Ordinary         []FoodSpec `yaml:"ordinary"`
	Super            []FoodSpec `yaml:"super"`
	SuperSpawnChance float64    `yaml:"super_spawn_chance"` // 0.0 - 1.0, rolled after each ordinary meal
}

// FoodSpec describes one food type.
type FoodSpec struct {
	Name          string `yaml:"name"`
	Score         int    `yaml:"score"`
	DurationTicks int    `yaml:"duration_ticks,omitempty"` // super food only
}

// AudioConfig defines sound cue playback.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 = silent, 1.0 = full
}

// DisplayConfig defines how the board is drawn.
type DisplayConfig struct {
	Theme string `yaml:"theme"` // classic, neon, pastel or mono
}

// Validate checks for missing or out-of-range values.
// Cross-field rules (start inside grid and so on) are checked by the engine.
func (c MonakeConfig) Validate() error {
	var errs []error
	if c.Grid.Size <= 0 {
		errs = append(errs, fmt.Errorf("grid.size must be positive, got %d", c.Grid.Size))
	}
	if c.Timing.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("timing.tick_interval_ms must be positive, got %d", c.Timing.TickIntervalMs))
	}
	if c.Timing.CountdownIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("timing.countdown_interval_ms must be positive, got %d", c.Timing.CountdownIntervalMs))
	}
	if c.Timing.CountdownFrom < 0 {
		errs = append(errs, fmt.Errorf("timing.countdown_from cannot be negative"))
	}
	if len(c.Food.Ordinary) == 0 {
		errs = append(errs, errors.New("food.ordinary needs at least one entry"))
	}
	for _, f := range c.Food.Super {
		if f.DurationTicks <= 0 {
			errs = append(errs, fmt.Errorf("food.super %q needs duration_ticks > 0", f.Name))
		}
	}
	if c.Food.SuperSpawnChance < 0 || c.Food.SuperSpawnChance > 1 {
		errs = append(errs, fmt.Errorf("food.super_spawn_chance must be within [0,1], got %.2f", c.Food.SuperSpawnChance))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0,1], got %.2f", c.Audio.Volume))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
