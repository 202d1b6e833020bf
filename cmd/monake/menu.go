package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/platform/tui"
)

var menuSound bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Monake with a difficulty picker menu",
	Long: `Start Monake in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a difficulty.
After a round, press B to return to the menu and play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  monake menu
  monake menu --sound
  monake menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&menuSound, "sound", false, "Play sound cues (overrides audio.enabled)")
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, err := newApp(menuSound)
	if err != nil {
		return err
	}
	defer a.Close()

	width, height := terminalSize()
	lastPreset := config.DifficultyNormal

	// Menu loop
	for {
		bests := make(map[config.DifficultyPreset]int)
		for _, p := range config.Presets() {
			bests[p] = a.launcher.Recorder.Best(a.player, p)
		}

		// Show menu and get selection
		menuResult, err := tui.RunMenu(bests, width, height)
		if err != nil {
			return err
		}

		// Keep any size changes
		if menuResult.Width > 0 && menuResult.Height > 0 {
			width, height = menuResult.Width, menuResult.Height
		}

		// Check if user quit
		if menuResult.Quit {
			return nil
		}

		// Check if user wants scoreboard
		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(a.store, lastPreset, width, height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			return nil // User quit from scoreboard
		}

		lastPreset = menuResult.Preset
		backToMenu, err := a.play(cmd.Context(), menuResult.Preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if !backToMenu {
			return nil
		}

		// Loop back to menu
	}
}
