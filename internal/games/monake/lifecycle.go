package monake

import "fmt"

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseStarting Phase = iota // countdown before play
	PhaseRunning               // ticks advance the snake
	PhaseGameOver              // terminal until Restart
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Lifecycle is the full lifecycle state: Countdown is only meaningful while Starting.
type Lifecycle struct {
	Phase     Phase
	Countdown int
}

// String renders the state as e.g. "starting(3)".
func (l Lifecycle) String() string {
	if l.Phase == PhaseStarting {
		return fmt.Sprintf("%s(%d)", l.Phase, l.Countdown)
	}
	return l.Phase.String()
}

// Cause explains why a session ended.
type Cause int

const (
	CauseNone Cause = iota
	CauseWall
	CauseSelf
	CauseBoardFull // no cell left to place food
)

// String returns the cause name.
func (c Cause) String() string {
	switch c {
	case CauseWall:
		return "wall"
	case CauseSelf:
		return "self"
	case CauseBoardFull:
		return "board_full"
	default:
		return "none"
	}
}

// AdvanceCountdown handles one countdown timer firing.
// Starting(n>0) moves to Starting(n-1); Starting(0) enters Running.
// It does nothing in any other phase and reports whether the state changed.
func (s *Session) AdvanceCountdown() bool {
	if s.lifecycle.Phase != PhaseStarting {
		return false
	}

	if s.lifecycle.Countdown > 0 {
		s.lifecycle.Countdown--
		s.emit(Event{Kind: EventCountdown, Countdown: s.lifecycle.Countdown})
		return true
	}

	s.lifecycle = Lifecycle{Phase: PhaseRunning}
	s.emit(Event{Kind: EventGameStart})
	return true
}

// Restart re-initializes every piece of session state and re-enters
// Starting(CountdownFrom). It is only allowed once the session is over.
func (s *Session) Restart() error {
	if s.lifecycle.Phase != PhaseGameOver {
		return ErrNotGameOver
	}
	return s.reset()
}

// endGame moves the session to GameOver and publishes the final result.
func (s *Session) endGame(cause Cause) {
	s.cause = cause
	s.lifecycle = Lifecycle{Phase: PhaseGameOver}
	result := s.Result()
	s.emit(Event{Kind: EventGameOver, Cause: cause, Result: &result})
}
