package config

import (
	"fmt"
	"slices"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset parses a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(strings.ToLower(strings.TrimSpace(s))) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
}

// Title returns the display name of the preset.
func (p DifficultyPreset) Title() string {
	switch p {
	case DifficultyEasy:
		return "Easy"
	case DifficultyHard:
		return "Hard"
	default:
		return "Normal"
	}
}

// ApplyMonakePreset modifies the config based on a difficulty preset.
// Normal leaves the loaded values untouched.
func ApplyMonakePreset(cfg *MonakeConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Timing.TickIntervalMs = cfg.Timing.TickIntervalMs * 4 / 3
		cfg.Food.SuperSpawnChance = clampF(cfg.Food.SuperSpawnChance*1.5, 0, 1)
		scaleSuperDuration(cfg, 3, 2)
	case DifficultyHard:
		cfg.Timing.TickIntervalMs = max(cfg.Timing.TickIntervalMs*2/3, 1)
		cfg.Food.SuperSpawnChance = clampF(cfg.Food.SuperSpawnChance*0.75, 0, 1)
		scaleSuperDuration(cfg, 3, 5)
	}
}

// scaleSuperDuration multiplies every super food lifetime by num/den, keeping it positive.
func scaleSuperDuration(cfg *MonakeConfig, num, den int) {
	cfg.Food.Super = slices.Clone(cfg.Food.Super)
	for i := range cfg.Food.Super {
		cfg.Food.Super[i].DurationTicks = max(cfg.Food.Super[i].DurationTicks*num/den, 1)
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
