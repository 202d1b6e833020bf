package attest

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/monake/internal/games/monake"
)

// ErrImplausible means a result could not have come from an honest session.
var ErrImplausible = errors.New("attest: implausible result")

// CheckPlausible cross-checks a result against the rules it was played under.
// Call it before Sign.
func CheckPlausible(r monake.Result, s monake.Settings) error {
	ticks := int64(r.Ticks)

	switch {
	case r.Score < 0 || r.Moves < 0 || r.Eaten < 0:
		return fmt.Errorf("%w: negative counters", ErrImplausible)
	case int64(r.Moves) > ticks:
		return fmt.Errorf("%w: %d moves in %d ticks", ErrImplausible, r.Moves, r.Ticks)
	case len(r.MoveLog) != r.Moves:
		return fmt.Errorf("%w: move log has %d entries, result claims %d", ErrImplausible, len(r.MoveLog), r.Moves)
	case int64(r.Eaten) > ticks:
		return fmt.Errorf("%w: %d meals in %d ticks", ErrImplausible, r.Eaten, r.Ticks)
	case int64(r.Score) > int64(r.Eaten)*int64(s.Catalog.MaxScoreValue()):
		return fmt.Errorf("%w: score %d exceeds %d meals", ErrImplausible, r.Score, r.Eaten)
	case r.Length != 1+r.Eaten:
		return fmt.Errorf("%w: length %d after %d meals", ErrImplausible, r.Length, r.Eaten)
	case r.Duration != time.Duration(r.Ticks)*s.TickInterval:
		return fmt.Errorf("%w: duration %v does not match %d ticks", ErrImplausible, r.Duration, r.Ticks)
	}

	var last uint64
	for i, m := range r.MoveLog {
		if m.Tick == 0 || m.Tick > r.Ticks || (i > 0 && m.Tick <= last) {
			return fmt.Errorf("%w: move %d at tick %d out of order", ErrImplausible, i, m.Tick)
		}
		if !m.Direction.IsUnit() {
			return fmt.Errorf("%w: move %d has direction %v", ErrImplausible, i, m.Direction)
		}
		last = m.Tick
	}
	return nil
}
