package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	var cfg MonakeConfig
	if err := yaml.Unmarshal(GetDefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultMonakeConfig()) {
		t.Errorf("embedded YAML and DefaultMonakeConfig() differ:\n%+v\n%+v", cfg, DefaultMonakeConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadMonakeCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monake.yaml")
	custom := DefaultMonakeConfig()
	custom.Grid.Size = 25
	custom.Food.SuperSpawnChance = 0.5

	data, err := Marshal(custom)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}

	cfg, err := LoadMonake(path)
	if err != nil {
		t.Fatalf("LoadMonake() failed: %v", err)
	}
	if cfg.Grid.Size != 25 {
		t.Errorf("Grid.Size = %d, expected 25", cfg.Grid.Size)
	}
	if cfg.Food.SuperSpawnChance != 0.5 {
		t.Errorf("SuperSpawnChance = %v, expected 0.5", cfg.Food.SuperSpawnChance)
	}
}

func TestLoadMonakeMissingCustomPath(t *testing.T) {
	_, err := LoadMonake(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadMonake() should fail for a missing explicit path")
	}
}

func TestLoadMonakeInvalidCustomConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  size: 0\n"), 0o600); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}

	_, err := LoadMonake(path)
	if err == nil {
		t.Fatal("LoadMonake() should reject an invalid config")
	}
	if !strings.Contains(err.Error(), "grid.size") {
		t.Errorf("error should mention grid.size, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MonakeConfig)
		ok     bool
	}{
		{"default", func(*MonakeConfig) {}, true},
		{"zero grid", func(c *MonakeConfig) { c.Grid.Size = 0 }, false},
		{"zero tick", func(c *MonakeConfig) { c.Timing.TickIntervalMs = 0 }, false},
		{"negative countdown", func(c *MonakeConfig) { c.Timing.CountdownFrom = -1 }, false},
		{"no ordinary food", func(c *MonakeConfig) { c.Food.Ordinary = nil }, false},
		{"super without duration", func(c *MonakeConfig) { c.Food.Super[0].DurationTicks = 0 }, false},
		{"chance above one", func(c *MonakeConfig) { c.Food.SuperSpawnChance = 1.5 }, false},
		{"no super food", func(c *MonakeConfig) { c.Food.Super = nil }, true},
		{"loud volume", func(c *MonakeConfig) { c.Audio.Volume = 2 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultMonakeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() = nil, expected error")
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in       string
		expected DifficultyPreset
	}{
		{"", DifficultyNormal},
		{"easy", DifficultyEasy},
		{"HARD", DifficultyHard},
		{" normal ", DifficultyNormal},
	}
	for _, tc := range tests {
		got, err := ParsePreset(tc.in)
		if err != nil {
			t.Fatalf("ParsePreset(%q) failed: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}

	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset should reject unknown presets")
	}
}

func TestApplyMonakePreset(t *testing.T) {
	easy := DefaultMonakeConfig()
	ApplyMonakePreset(&easy, DifficultyEasy)
	if easy.Timing.TickIntervalMs != 160 {
		t.Errorf("easy tick = %d, expected 160", easy.Timing.TickIntervalMs)
	}
	if easy.Food.Super[0].DurationTicks != 75 {
		t.Errorf("easy super duration = %d, expected 75", easy.Food.Super[0].DurationTicks)
	}

	normal := DefaultMonakeConfig()
	ApplyMonakePreset(&normal, DifficultyNormal)
	if !reflect.DeepEqual(normal, DefaultMonakeConfig()) {
		t.Error("normal preset should not change the config")
	}

	hard := DefaultMonakeConfig()
	ApplyMonakePreset(&hard, DifficultyHard)
	if hard.Timing.TickIntervalMs != 80 {
		t.Errorf("hard tick = %d, expected 80", hard.Timing.TickIntervalMs)
	}
	if hard.Food.SuperSpawnChance >= 0.2 {
		t.Errorf("hard super chance = %v, expected below default", hard.Food.SuperSpawnChance)
	}
	if hard.Food.Super[0].DurationTicks != 30 {
		t.Errorf("hard super duration = %d, expected 30", hard.Food.Super[0].DurationTicks)
	}
	if err := hard.Validate(); err != nil {
		t.Errorf("hard preset should stay valid: %v", err)
	}
}

func TestApplyMonakePresetDoesNotAliasBase(t *testing.T) {
	base := DefaultMonakeConfig()
	derived := base
	ApplyMonakePreset(&derived, DifficultyHard)

	if base.Food.Super[0].DurationTicks != 50 {
		t.Errorf("base config changed to %d", base.Food.Super[0].DurationTicks)
	}
}
