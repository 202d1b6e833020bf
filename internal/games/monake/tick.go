package monake

import "github.com/vovakirdan/monake/internal/core"

// TickResult reports what a single tick did.
type TickResult struct {
	Applied      bool      // false when the session was not running
	Grew         bool      // the snake kept its tail this tick
	Ate          *FoodType // food eaten this tick, if any
	AteSuper     bool
	SuperExpired bool
	Collision    Cause // non-zero when the tick ended the session
}

// Tick advances a running session by one step. It is a no-op in any other phase.
//
// A collision ends the session before the snake is touched, so the body seen
// by the presentation layer is the last legal one. The only error is a failure
// to place food, which means the grid is too small for the snake; the session
// is then over with CauseBoardFull and the error is returned as well.
func (s *Session) Tick() (TickResult, error) {
	if s.lifecycle.Phase != PhaseRunning {
		return TickResult{}, nil
	}

	s.tick++
	res := TickResult{Applied: true}

	// Super food ages before the snake moves.
	if s.super != nil {
		s.super.RemainingTicks--
		if s.super.RemainingTicks <= 0 {
			expired := *s.super
			s.super = nil
			res.SuperExpired = true
			s.emit(Event{Kind: EventSuperExpire, Food: &expired.Type, Position: expired.Position})
		}
	}

	if d, ok := s.queue.Dequeue(); ok {
		if d != s.heading {
			s.moves = append(s.moves, Move{Tick: s.tick, Direction: d})
		}
		s.heading = d
	}

	newHead := s.snake[0].Add(s.heading)

	if !s.grid.Contains(newHead) {
		res.Collision = CauseWall
		s.endGame(CauseWall)
		return res, nil
	}

	// The whole pre-move body counts, including the tail cell about to be vacated.
	if s.isSnakeAt(newHead) {
		res.Collision = CauseSelf
		s.endGame(CauseSelf)
		return res, nil
	}

	s.snake = append([]core.Position{newHead}, s.snake...)

	switch {
	case s.super != nil && newHead == s.super.Position:
		eaten := s.super.Type
		s.score += eaten.ScoreValue
		s.eaten++
		s.super = nil
		res.Grew = true
		res.Ate = &eaten
		res.AteSuper = true
		s.emit(Event{Kind: EventSuperEat, Food: &eaten, Position: newHead})

	case newHead == s.food.Position:
		eaten := s.food.Type
		s.score += eaten.ScoreValue
		s.eaten++
		res.Grew = true
		res.Ate = &eaten
		s.emit(Event{Kind: EventEat, Food: &eaten, Position: newHead})
		if err := s.respawnFood(); err != nil {
			return s.boardFull(res, err)
		}
		if err := s.maybeSpawnSuper(); err != nil {
			return s.boardFull(res, err)
		}
	}

	if !res.Grew {
		s.snake = s.snake[:len(s.snake)-1]
	}

	return res, nil
}

// boardFull ends a tick whose meal left no cell for the next food.
// The snake keeps its grown body and the eaten food stays under the head.
func (s *Session) boardFull(res TickResult, err error) (TickResult, error) {
	res.Collision = CauseBoardFull
	s.endGame(CauseBoardFull)
	return res, err
}
