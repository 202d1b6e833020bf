package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/monake/internal/attest"
	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/games/monake"
	"github.com/vovakirdan/monake/internal/storage"
)

// ErrNoStore is returned when scores cannot be recorded because no database is open.
var ErrNoStore = errors.New("tui: no score database")

// Recorder checks, signs and stores finished sessions.
// A nil signer stores scores unsigned.
type Recorder struct {
	store  *storage.Store
	signer *attest.Signer
	logger *log.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder. store may be nil, in which case Record fails with ErrNoStore.
func NewRecorder(store *storage.Store, signer *attest.Signer, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{
		store:  store,
		signer: signer,
		logger: logger,
		now:    time.Now,
	}
}

// RecordOutcome describes what happened to a finished session's score.
type RecordOutcome struct {
	Entry   storage.ScoreEntry
	Skipped bool // zero scores are not stored
	Signed  bool
	NewBest bool
	Best    int
}

// Best returns the player's best score for preset, or 0 when unknown.
func (r *Recorder) Best(player string, preset config.DifficultyPreset) int {
	if r == nil || r.store == nil {
		return 0
	}
	best, err := r.store.PlayerBest(string(preset), player)
	if err != nil {
		r.logger.Warn("could not load best score", "player", player, "preset", preset, "error", err)
		return 0
	}
	return best
}

// Record validates res against settings, signs it and saves it.
func (r *Recorder) Record(player string, preset config.DifficultyPreset, settings monake.Settings, res monake.Result) (RecordOutcome, error) {
	if r == nil || r.store == nil {
		return RecordOutcome{}, ErrNoStore
	}

	if err := attest.CheckPlausible(res, settings); err != nil {
		r.logger.Warn("rejecting result", "player", player, "score", res.Score, "error", err)
		return RecordOutcome{}, err
	}

	prev := r.Best(player, preset)
	out := RecordOutcome{Best: max(prev, res.Score)}
	if res.Score == 0 {
		out.Skipped = true
		return out, nil
	}

	out.Entry = storage.ScoreEntry{
		Mode:       string(preset),
		Player:     player,
		Score:      res.Score,
		Ticks:      res.Ticks,
		Moves:      res.Moves,
		Length:     res.Length,
		DurationMs: res.Duration.Milliseconds(),
	}

	if r.signer != nil {
		att, err := r.signer.Sign(attest.NewClaims(player, string(preset), res, r.now()))
		if err != nil {
			return RecordOutcome{}, fmt.Errorf("tui: sign score: %w", err)
		}
		encoded, err := att.Encode()
		if err != nil {
			return RecordOutcome{}, fmt.Errorf("tui: sign score: %w", err)
		}
		out.Entry.Attestation = encoded
		out.Signed = true
	}

	id, err := r.store.SaveScore(out.Entry)
	if err != nil {
		return RecordOutcome{}, err
	}
	out.Entry.ID = id
	out.NewBest = res.Score > prev

	r.logger.Info("score recorded",
		"player", player,
		"preset", preset,
		"score", res.Score,
		"ticks", res.Ticks,
		"signed", out.Signed,
	)
	return out, nil
}
