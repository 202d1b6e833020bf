package tui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/monake/internal/attest"
	"github.com/vovakirdan/monake/internal/config"
	"github.com/vovakirdan/monake/internal/core"
	"github.com/vovakirdan/monake/internal/games/monake"
	"github.com/vovakirdan/monake/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestSigner(t *testing.T) *attest.Signer {
	t.Helper()
	signer, err := attest.LoadOrCreateKey(filepath.Join(t.TempDir(), "score_key"))
	if err != nil {
		t.Fatalf("LoadOrCreateKey() failed: %v", err)
	}
	return signer
}

// oneMealResult is a consistent result: one food eaten, one turn, died on tick 5.
func oneMealResult() monake.Result {
	return monake.Result{
		Score:    1,
		Ticks:    5,
		Duration: 5 * monake.DefaultSettings().TickInterval,
		Moves:    1,
		MoveLog:  []monake.Move{{Tick: 3, Direction: core.Up}},
		Length:   2,
		Eaten:    1,
		Cause:    monake.CauseWall,
	}
}

func TestRecorderWithoutStore(t *testing.T) {
	var nilRecorder *Recorder
	if _, err := nilRecorder.Record("ann", config.DifficultyNormal, monake.DefaultSettings(), oneMealResult()); !errors.Is(err, ErrNoStore) {
		t.Errorf("nil recorder: expected ErrNoStore, got %v", err)
	}
	if got := nilRecorder.Best("ann", config.DifficultyNormal); got != 0 {
		t.Errorf("nil recorder Best() = %d", got)
	}

	r := NewRecorder(nil, nil, nil)
	if _, err := r.Record("ann", config.DifficultyNormal, monake.DefaultSettings(), oneMealResult()); !errors.Is(err, ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
}

func TestRecorderSavesSignedScore(t *testing.T) {
	store := newTestStore(t)
	signer := newTestSigner(t)
	r := NewRecorder(store, signer, nil)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	out, err := r.Record("ann", config.DifficultyHard, monake.DefaultSettings(), oneMealResult())
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if !out.Signed || !out.NewBest || out.Skipped {
		t.Errorf("unexpected outcome %+v", out)
	}
	if out.Entry.ID == 0 {
		t.Error("saved entry should have an ID")
	}
	if out.Entry.Mode != "hard" || out.Entry.DurationMs != 600 || out.Entry.Length != 2 {
		t.Errorf("unexpected entry %+v", out.Entry)
	}

	scores, err := store.TopScores("hard", 10)
	if err != nil || len(scores) != 1 {
		t.Fatalf("TopScores() = %v, %v", scores, err)
	}
	att, err := attest.Decode(scores[0].Attestation)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	claims, err := signer.Verify(att)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if claims.Player != "ann" || claims.Mode != "hard" || claims.Score != 1 {
		t.Errorf("unexpected claims %+v", claims)
	}

	if got := r.Best("ann", config.DifficultyHard); got != 1 {
		t.Errorf("Best() = %d, expected 1", got)
	}

	// Same score again is saved but is not a new best.
	out, err = r.Record("ann", config.DifficultyHard, monake.DefaultSettings(), oneMealResult())
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if out.NewBest {
		t.Error("equal score should not be a new best")
	}
}

func TestRecorderUnsignedWithoutSigner(t *testing.T) {
	store := newTestStore(t)
	r := NewRecorder(store, nil, nil)

	out, err := r.Record("bob", config.DifficultyEasy, monake.DefaultSettings(), oneMealResult())
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if out.Signed || out.Entry.Attestation != "" {
		t.Errorf("expected an unsigned entry, got %+v", out)
	}
}

func TestRecorderSkipsZeroScore(t *testing.T) {
	store := newTestStore(t)
	r := NewRecorder(store, nil, nil)

	res := monake.Result{
		Ticks:    3,
		Duration: 3 * monake.DefaultSettings().TickInterval,
		Length:   1,
		Cause:    monake.CauseWall,
	}
	out, err := r.Record("ann", config.DifficultyNormal, monake.DefaultSettings(), res)
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if !out.Skipped {
		t.Error("zero score should be skipped")
	}
	if scores, _ := store.TopScores("normal", 10); len(scores) != 0 {
		t.Errorf("zero score was stored: %v", scores)
	}
}

func TestRecorderRejectsImplausible(t *testing.T) {
	store := newTestStore(t)
	r := NewRecorder(store, nil, nil)

	res := oneMealResult()
	res.Score = 500
	if _, err := r.Record("mallory", config.DifficultyNormal, monake.DefaultSettings(), res); !errors.Is(err, attest.ErrImplausible) {
		t.Errorf("expected ErrImplausible, got %v", err)
	}
	if scores, _ := store.TopScores("normal", 10); len(scores) != 0 {
		t.Errorf("implausible score was stored: %v", scores)
	}
}

func TestDescribeOutcome(t *testing.T) {
	tests := []struct {
		name string
		out  RecordOutcome
		err  error
		want string
	}{
		{"no store", RecordOutcome{}, ErrNoStore, "Scores are not saved (no database)."},
		{"implausible", RecordOutcome{}, attest.ErrImplausible, "Score rejected: result failed validation."},
		{"skipped", RecordOutcome{Skipped: true}, nil, "No score to record."},
		{"best", RecordOutcome{NewBest: true, Entry: storage.ScoreEntry{Score: 7}}, nil, "New personal best: 7!"},
		{"signed", RecordOutcome{Signed: true}, nil, "Score saved and signed."},
		{"plain", RecordOutcome{}, nil, "Score saved."},
	}
	for _, tc := range tests {
		if got := describeOutcome(tc.out, tc.err); got != tc.want {
			t.Errorf("%s: describeOutcome() = %q, expected %q", tc.name, got, tc.want)
		}
	}
}
