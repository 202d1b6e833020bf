package monake

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/monake/internal/core"
)

const inputBuffer = 64

// Scheduler drives a Session from timers on a single goroutine.
//
// The countdown ticker runs only while Starting and the tick ticker only while
// Running; both are stopped at game over and when Run returns. Input and
// restart requests may come from any goroutine; they are handed over on
// channels, so the session itself is never shared.
type Scheduler struct {
	session *Session
	clock   Clock
	logger  *log.Logger

	input   chan core.Direction
	restart chan struct{}
	updates chan Snapshot
	done    chan struct{}

	countdown Ticker
	ticker    Ticker
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(c Clock) SchedulerOption {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLogger sets the logger for lifecycle and error messages.
func WithLogger(l *log.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScheduler wraps session. Subscribe to session events before calling Run.
func NewScheduler(session *Session, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		session: session,
		clock:   SystemClock{},
		logger:  log.New(io.Discard),
		input:   make(chan core.Direction, inputBuffer),
		restart: make(chan struct{}, 1),
		updates: make(chan Snapshot, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue posts a steering intent. It never blocks; input beyond the buffer is dropped.
func (s *Scheduler) Enqueue(d core.Direction) {
	select {
	case s.input <- d:
	default:
		s.logger.Debug("input buffer full, dropping direction", "direction", d)
	}
}

// Restart asks for a new session once the current one is over.
func (s *Scheduler) Restart() {
	select {
	case s.restart <- struct{}{}:
	default:
	}
}

// Updates delivers a snapshot after every state change. Only the latest is kept.
func (s *Scheduler) Updates() <-chan Snapshot {
	return s.updates
}

// Done is closed when Run returns.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Run owns the session until ctx is cancelled. It returns nil on cancellation
// and the engine error if food could not be placed, after publishing the
// board-full game over.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.stopTimers()

	if st, ok := s.clock.(Settler); ok {
		st.HoldFirings()
	}

	s.syncTimers()
	s.publish()

	for {
		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil

		case <-tickerChan(s.countdown):
			if ctx.Err() == nil {
				s.session.AdvanceCountdown()
				s.logger.Debug("countdown", "state", s.session.Lifecycle())
				s.syncTimers()
				s.publish()
			}
			s.settle()

		case <-tickerChan(s.ticker):
			err := s.handleTick(ctx)
			s.settle()
			if err != nil {
				return err
			}

		case d := <-s.input:
			if !s.session.EnqueueDirection(d) {
				s.logger.Debug("direction rejected", "direction", d, "heading", s.session.Heading())
				continue
			}
			s.publish()

		case <-s.restart:
			if err := s.session.Restart(); err != nil {
				s.logger.Debug("restart ignored", "error", err)
				continue
			}
			s.logger.Info("session restarted")
			s.syncTimers()
			s.publish()
		}
	}
}

// handleTick applies one tick unless ctx is already cancelled.
func (s *Scheduler) handleTick(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	res, err := s.session.Tick()
	if err != nil {
		s.logger.Error("tick failed", "tick", s.session.Ticks(), "error", err)
		s.stopTimers()
		s.publish()
		return err
	}
	if res.Collision != CauseNone {
		s.logger.Info("game over", "cause", res.Collision, "score", s.session.Score(), "ticks", s.session.Ticks())
	}
	s.syncTimers()
	s.publish()
	return nil
}

// settle tells a holding clock that the firing just received has been handled.
func (s *Scheduler) settle() {
	if st, ok := s.clock.(Settler); ok {
		st.Settle()
	}
}

// syncTimers makes the running tickers match the lifecycle phase.
func (s *Scheduler) syncTimers() {
	settings := s.session.Settings()

	switch s.session.Lifecycle().Phase {
	case PhaseStarting:
		s.stopTicker(&s.ticker)
		if s.countdown == nil {
			s.countdown = s.clock.NewTicker(settings.CountdownInterval)
		}
	case PhaseRunning:
		s.stopTicker(&s.countdown)
		if s.ticker == nil {
			s.ticker = s.clock.NewTicker(settings.TickInterval)
		}
	case PhaseGameOver:
		s.stopTimers()
	}
}

func (s *Scheduler) stopTimers() {
	s.stopTicker(&s.countdown)
	s.stopTicker(&s.ticker)
}

func (s *Scheduler) stopTicker(t *Ticker) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

// publish replaces any unread snapshot with the current one.
func (s *Scheduler) publish() {
	snap := s.session.Snapshot()
	select {
	case s.updates <- snap:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}

// tickerChan returns t's channel, or nil (blocks forever) when t is not running.
func tickerChan(t Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C()
}
