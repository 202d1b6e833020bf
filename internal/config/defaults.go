package config

import (
	_ "embed"
)

//go:embed defaults/monake.yaml
var defaultMonakeYAML []byte

// DefaultMonakeConfig returns the hard-coded default configuration.
// It mirrors defaults/monake.yaml and is used if the embedded file fails to parse.
func DefaultMonakeConfig() MonakeConfig {
	return MonakeConfig{
		Grid: GridConfig{
			Size: 17,
		},
		Timing: TimingConfig{
			TickIntervalMs:      120,
			CountdownFrom:       3,
			CountdownIntervalMs: 1000,
		},
		Snake: SnakeConfig{
			StartX:  10,
			StartY:  10,
			Heading: "right",
		},
		Food: FoodConfig{
			Ordinary: []FoodSpec{
				{Name: "mon", Score: 1},
			},
			Super: []FoodSpec{
				{Name: "golden mon", Score: 5, DurationTicks: 50},
			},
			SuperSpawnChance: 0.2,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  0.6,
		},
		Display: DisplayConfig{
			Theme: "classic",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultMonakeYAML
}
