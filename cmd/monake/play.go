package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/monake/internal/config"
)

var (
	flagPreset string
	flagSound  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round",
	Long: `Start a round of Monake right away.

Controls:
  Arrows/WASD/hjkl - Steer (mouse drags work too)
  R/Enter          - Restart (after game over)
  B/Esc            - Leave (after game over)
  Q/Ctrl+C         - Quit

Difficulty presets:
  easy   - Slower ticks, golden mon appears more often and lasts longer
  normal - The configured values
  hard   - Faster ticks, golden mon is rarer and fades sooner

Examples:
  monake play
  monake play --preset hard
  monake play --sound
  monake play --config ./my-monake.yaml --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPreset, "preset", "normal", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound cues (overrides audio.enabled)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}

	a, err := newApp(flagSound)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.play(cmd.Context(), preset)
	return err
}
