package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/monake/internal/attest"
	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/storage"
)

var (
	flagScoresLimit int
	flagVerify      bool
	flagVerifyKey   string
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [preset]",
	Short: "Show high scores",
	Long: `Display the top scores for a difficulty preset, or a summary of
every preset when none is given.

With --verify every score's attestation is checked against the signing key:
the local score key by default, or a server's host key with --key.

Examples:
  monake scores
  monake scores hard
  monake scores normal --verify
  monake scores normal --verify --key ~/.monake/host_key
  monake scores easy --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagVerify, "verify", false, "Verify score attestations")
	scoresCmd.Flags().StringVar(&flagVerifyKey, "key", "", "Key to verify against (default ~/.monake/score_key)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the preset")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runScores(_ *cobra.Command, args []string) error {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(store)
	}

	preset, err := config.ParsePreset(args[0])
	if err != nil {
		return err
	}
	mode := string(preset)

	if flagClear {
		if err := store.ClearScores(mode); err != nil {
			return err
		}
		fmt.Printf("Cleared %s scores.\n", preset.Title())
		return nil
	}

	scores, err := store.TopScores(mode, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	// Display scores
	fmt.Println(titleStyle.Render("High Scores - " + preset.Title()))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'monake play --preset %s' to set the first high score!\n", mode)
		return nil
	}

	var signer *attest.Signer
	if flagVerify {
		if signer, err = verifyKey(); err != nil {
			return err
		}
	}

	headers := []string{"Rank", "Player", "Score", "Length", "Ticks", "Date"}
	if flagVerify {
		headers = append(headers, "Attestation")
	}
	t := newTable(headers...)
	for i, entry := range scores {
		row := []string{
			strconv.Itoa(i + 1),
			entry.Player,
			strconv.Itoa(entry.Score),
			strconv.Itoa(entry.Length),
			strconv.FormatUint(entry.Ticks, 10),
			entry.CreatedAt.Format("2006-01-02 15:04"),
		}
		if flagVerify {
			row = append(row, verifyEntry(signer, entry))
		}
		t.Row(row...)
	}
	fmt.Println(t)

	// Show high score
	if high, err := store.HighScore(mode); err == nil {
		fmt.Printf("\nBest: %d\n", high)
	}
	return nil
}

// printSummary shows one line per preset.
func printSummary(store *storage.Store) error {
	stats, err := store.GetAllModesStats()
	if err != nil {
		return fmt.Errorf("error retrieving stats: %w", err)
	}

	t := newTable("Preset", "Games", "Best", "Average", "Last played")
	for _, p := range config.Presets() {
		s, ok := stats[string(p)]
		if !ok || s.GamesCount == 0 {
			t.Row(p.Title(), "0", "-", "-", "-")
			continue
		}
		t.Row(
			p.Title(),
			strconv.Itoa(s.GamesCount),
			strconv.Itoa(s.HighScore),
			fmt.Sprintf("%.1f", s.AvgScore),
			s.LastPlayed.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(titleStyle.Render("Monake scores"))
	fmt.Println(t)
	return nil
}

// verifyKey loads the key scores are checked against.
func verifyKey() (*attest.Signer, error) {
	path := flagVerifyKey
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, scoreKeyName)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot read signing key: %w", err)
	}
	signer, err := attest.LoadOrCreateKey(path)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

// verifyEntry checks one stored score and describes the outcome.
func verifyEntry(signer *attest.Signer, e storage.ScoreEntry) string {
	if e.Attestation == "" {
		return "unsigned"
	}
	att, err := attest.Decode(e.Attestation)
	if err != nil {
		return "malformed"
	}
	claims, err := signer.Verify(att)
	switch {
	case errors.Is(err, attest.ErrUntrustedKey):
		return "other key"
	case err != nil:
		return "BAD SIGNATURE"
	}
	if claims.Player != e.Player || claims.Mode != e.Mode || claims.Score != e.Score ||
		claims.Ticks != e.Ticks || claims.Length != e.Length {
		return "MISMATCH"
	}
	return "ok"
}
