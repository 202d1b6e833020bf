// Package monake implements the Monake snake engine: a deterministic,
// tick-driven simulation with a queued direction input, timed super food,
// collision detection and a countdown lifecycle.
//
// A Session holds all game state and is mutated only by the goroutine that
// drives it (see Scheduler). It performs no I/O and owns no timers.
package monake

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/monake/internal/core"
)

// ErrNotGameOver is returned by Restart while a session is still in progress.
var ErrNotGameOver = errors.New("monake: restart is only allowed after game over")

// Session is one play-through from countdown to game over, plus restarts.
type Session struct {
	settings Settings
	grid     core.Grid
	rng      core.Rand

	snake   []core.Position // head at index 0
	heading core.Direction
	queue   DirectionQueue
	food    FoodInstance
	super   *SuperFoodInstance

	score     int
	eaten     int
	tick      uint64
	moves     []Move
	cause     Cause
	lifecycle Lifecycle

	handlers      []handlerEntry
	nextHandlerID int
}

// Move records a heading change applied on a tick.
type Move struct {
	Tick      uint64
	Direction core.Direction
}

// Result summarizes a finished session for score submission.
type Result struct {
	Score    int
	Ticks    uint64
	Duration time.Duration
	Moves    int
	MoveLog  []Move
	Length   int
	Eaten    int
	Cause    Cause
}

// New validates settings and returns a session in Starting(CountdownFrom)
// with snake, score, food and super food freshly initialized.
func New(settings Settings, rng core.Rand) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidSettings)
	}

	s := &Session{
		settings: settings,
		grid:     settings.Grid(),
		rng:      rng,
	}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// reset re-creates all per-session state. Subscribers survive.
func (s *Session) reset() error {
	s.snake = []core.Position{s.settings.Start}
	s.heading = s.settings.StartHeading
	s.queue.Reset()
	s.super = nil
	s.score = 0
	s.eaten = 0
	s.tick = 0
	s.moves = nil
	s.cause = CauseNone

	if err := s.respawnFood(); err != nil {
		return err
	}

	s.lifecycle = Lifecycle{Phase: PhaseStarting, Countdown: s.settings.CountdownFrom}
	return nil
}

// EnqueueDirection queues a steering intent for a later tick.
// Reversals of the effective heading are rejected, as is any input after game over.
func (s *Session) EnqueueDirection(d core.Direction) bool {
	if s.lifecycle.Phase == PhaseGameOver {
		return false
	}
	return s.queue.Enqueue(d, s.heading)
}

// Settings returns the rules this session was created with.
func (s *Session) Settings() Settings {
	return s.settings
}

// Lifecycle returns the current lifecycle state.
func (s *Session) Lifecycle() Lifecycle {
	return s.lifecycle
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// Heading returns the direction the snake is committed to.
func (s *Session) Heading() core.Direction {
	return s.heading
}

// Ticks returns the number of ticks applied in this session.
func (s *Session) Ticks() uint64 {
	return s.tick
}

// Result summarizes the session so far. It is final once the phase is GameOver.
func (s *Session) Result() Result {
	moveLog := make([]Move, len(s.moves))
	copy(moveLog, s.moves)

	return Result{
		Score:    s.score,
		Ticks:    s.tick,
		Duration: time.Duration(s.tick) * s.settings.TickInterval,
		Moves:    len(s.moves),
		MoveLog:  moveLog,
		Length:   len(s.snake),
		Eaten:    s.eaten,
		Cause:    s.cause,
	}
}

// isSnakeAt checks if the snake occupies the given point.
func (s *Session) isSnakeAt(p core.Position) bool {
	for _, seg := range s.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// respawnFood places ordinary food outside the snake and the active super food.
func (s *Session) respawnFood() error {
	pos, err := s.grid.RandomPosition(s.rng, func(p core.Position) bool {
		return s.isSnakeAt(p) || (s.super != nil && s.super.Position == p)
	})
	if err != nil {
		return fmt.Errorf("monake: place food: %w", err)
	}
	s.food = FoodInstance{Position: pos, Type: s.settings.Catalog.pickOrdinary(s.rng)}
	return nil
}

// maybeSpawnSuper rolls for super food after an ordinary meal.
// No roll is made while a super food is already active.
func (s *Session) maybeSpawnSuper() error {
	if s.super != nil || len(s.settings.Catalog.Super) == 0 {
		return nil
	}
	if s.rng.Float64() >= s.settings.SuperSpawnChance {
		return nil
	}

	pos, err := s.grid.RandomPosition(s.rng, func(p core.Position) bool {
		return s.isSnakeAt(p) || s.food.Position == p
	})
	if err != nil {
		return fmt.Errorf("monake: place super food: %w", err)
	}

	ft := s.settings.Catalog.pickSuper(s.rng)
	s.super = &SuperFoodInstance{Position: pos, Type: ft, RemainingTicks: ft.Duration}
	s.emit(Event{Kind: EventSuperSpawn, Food: &ft, Position: pos})
	return nil
}
