package monake

import "github.com/vovakirdan/monake/internal/core"

// Snapshot is a read-only copy of everything the presentation layer draws.
// Mutating it never affects the session.
type Snapshot struct {
	GridSize  int
	Lifecycle Lifecycle
	Tick      uint64
	Score     int
	Snake     []core.Position // head first
	Heading   core.Direction
	Food      FoodInstance // under the head after a CauseBoardFull game over
	Super     *SuperFoodInstance
	Pending   int // queued directions not yet applied
	Cause     Cause
	Result    *Result // set once the session is over
}

// Snapshot returns the current state for rendering, replay checks and tests.
func (s *Session) Snapshot() Snapshot {
	snake := make([]core.Position, len(s.snake))
	copy(snake, s.snake)

	var super *SuperFoodInstance
	if s.super != nil {
		cp := *s.super
		super = &cp
	}

	var result *Result
	if s.lifecycle.Phase == PhaseGameOver {
		r := s.Result()
		result = &r
	}

	return Snapshot{
		GridSize:  s.settings.GridSize,
		Lifecycle: s.lifecycle,
		Tick:      s.tick,
		Score:     s.score,
		Snake:     snake,
		Heading:   s.heading,
		Food:      s.food,
		Super:     super,
		Pending:   s.queue.Len(),
		Cause:     s.cause,
		Result:    result,
	}
}

// Head returns the snake's head position.
func (s Snapshot) Head() core.Position {
	if len(s.Snake) == 0 {
		return core.Position{}
	}
	return s.Snake[0]
}

// SuperRatio returns the super food's remaining lifetime in [0,1], or 0 when none is active.
func (s Snapshot) SuperRatio() float64 {
	if s.Super == nil {
		return 0
	}
	return s.Super.Ratio()
}
