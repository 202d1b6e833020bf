package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/games/monake"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List difficulty presets",
	Long:  `Shows every difficulty preset with the rules it produces from the current config.`,
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func runPresets(_ *cobra.Command, _ []string) error {
	base, err := config.LoadMonake(flagConfig)
	if err != nil {
		return err
	}

	t := newTable("Preset", "Tick", "Grid", "Golden chance", "Golden lasts")
	for _, p := range config.Presets() {
		cfg := base
		config.ApplyMonakePreset(&cfg, p)
		settings, err := monake.SettingsFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("preset %s: %w", p, err)
		}

		lasts := "-"
		if len(settings.Catalog.Super) > 0 {
			lasts = strconv.Itoa(settings.Catalog.Super[0].Duration) + " ticks"
		}
		t.Row(
			p.Title(),
			settings.TickInterval.String(),
			fmt.Sprintf("%dx%d", settings.GridSize, settings.GridSize),
			fmt.Sprintf("%.0f%%", settings.SuperSpawnChance*100),
			lasts,
		)
	}

	fmt.Println(t)
	fmt.Println()
	fmt.Println("Run 'monake play --preset <name>' to play a preset.")
	return nil
}
