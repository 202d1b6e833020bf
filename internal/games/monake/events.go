package monake

import "github.com/vovakirdan/monake/internal/core"

// EventKind identifies a discrete engine event a sound or UI layer may react to.
type EventKind int

const (
	EventCountdown   EventKind = iota // countdown stepped down
	EventGameStart                    // countdown finished, play begins
	EventEat                          // ordinary food eaten
	EventSuperEat                     // super food eaten
	EventSuperSpawn                   // super food appeared
	EventSuperExpire                  // super food timed out
	EventGameOver                     // collision ended the session
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventCountdown:
		return "countdown"
	case EventGameStart:
		return "game_start"
	case EventEat:
		return "eat"
	case EventSuperEat:
		return "super_eat"
	case EventSuperSpawn:
		return "super_spawn"
	case EventSuperExpire:
		return "super_expire"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event describes something that just happened inside the session.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind      EventKind
	Tick      uint64
	Countdown int
	Food      *FoodType
	Position  core.Position
	Score     int
	Cause     Cause
	Result    *Result
}

// Handler receives events synchronously on the goroutine driving the session.
// Handlers must not call back into the session.
type Handler func(Event)

// Subscribe registers h and returns a function that removes it.
func (s *Session) Subscribe(h Handler) (unsubscribe func()) {
	id := s.nextHandlerID
	s.nextHandlerID++
	s.handlers = append(s.handlers, handlerEntry{id: id, fn: h})

	return func() {
		for i, e := range s.handlers {
			if e.id == id {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

type handlerEntry struct {
	id int
	fn Handler
}

func (s *Session) emit(ev Event) {
	ev.Tick = s.tick
	ev.Score = s.score
	for _, h := range s.handlers {
		h.fn(ev)
	}
}
