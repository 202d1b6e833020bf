package monake

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/core"
)

// ErrInvalidSettings wraps every settings validation failure.
var ErrInvalidSettings = errors.New("monake: invalid settings")

// Settings fixes the rules of a session. They do not change while it runs.
type Settings struct {
	GridSize          int
	TickInterval      time.Duration
	CountdownFrom     int
	CountdownInterval time.Duration
	Start             core.Position
	StartHeading      core.Direction
	Catalog           Catalog
	SuperSpawnChance  float64
}

// DefaultSettings returns the classic rules: a 17x17 grid, 120ms ticks,
// a 3-second countdown and a 20% super food roll after each meal.
func DefaultSettings() Settings {
	return Settings{
		GridSize:          17,
		TickInterval:      120 * time.Millisecond,
		CountdownFrom:     3,
		CountdownInterval: time.Second,
		Start:             core.Position{X: 10, Y: 10},
		StartHeading:      core.Right,
		Catalog:           DefaultCatalog(),
		SuperSpawnChance:  0.2,
	}
}

// Grid returns the playing field described by the settings.
func (s Settings) Grid() core.Grid {
	return core.Grid{Size: s.GridSize}
}

// Validate reports the first inconsistency found, wrapped in ErrInvalidSettings.
func (s Settings) Validate() error {
	switch {
	case s.GridSize < 2:
		return fmt.Errorf("%w: grid size %d is too small", ErrInvalidSettings, s.GridSize)
	case s.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidSettings)
	case s.CountdownFrom < 0:
		return fmt.Errorf("%w: countdown cannot be negative", ErrInvalidSettings)
	case s.CountdownInterval <= 0:
		return fmt.Errorf("%w: countdown interval must be positive", ErrInvalidSettings)
	case !s.Grid().Contains(s.Start):
		return fmt.Errorf("%w: start %v is outside a %d grid", ErrInvalidSettings, s.Start, s.GridSize)
	case !s.StartHeading.IsUnit():
		return fmt.Errorf("%w: start heading %v is not a unit direction", ErrInvalidSettings, s.StartHeading)
	case s.SuperSpawnChance < 0 || s.SuperSpawnChance > 1:
		return fmt.Errorf("%w: super spawn chance %.2f outside [0,1]", ErrInvalidSettings, s.SuperSpawnChance)
	}
	return s.Catalog.Validate()
}

// SettingsFromConfig converts a loaded YAML config into engine settings.
func SettingsFromConfig(cfg config.MonakeConfig) (Settings, error) {
	heading, err := core.ParseDirection(cfg.Snake.Heading)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	catalog := Catalog{}
	for _, f := range cfg.Food.Ordinary {
		catalog.Ordinary = append(catalog.Ordinary, FoodType{
			Name:       f.Name,
			ScoreValue: f.Score,
		})
	}
	for _, f := range cfg.Food.Super {
		catalog.Super = append(catalog.Super, FoodType{
			Name:       f.Name,
			ScoreValue: f.Score,
			IsSuper:    true,
			Duration:   f.DurationTicks,
		})
	}

	s := Settings{
		GridSize:          cfg.Grid.Size,
		TickInterval:      time.Duration(cfg.Timing.TickIntervalMs) * time.Millisecond,
		CountdownFrom:     cfg.Timing.CountdownFrom,
		CountdownInterval: time.Duration(cfg.Timing.CountdownIntervalMs) * time.Millisecond,
		Start:             core.Position{X: cfg.Snake.StartX, Y: cfg.Snake.StartY},
		StartHeading:      heading,
		Catalog:           catalog,
		SuperSpawnChance:  cfg.Food.SuperSpawnChance,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
