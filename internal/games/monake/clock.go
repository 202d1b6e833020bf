package monake

import (
	"sync"
	"time"
)

// Clock creates the tickers that drive a Scheduler.
// SystemClock is used in production; ManualClock lets tests step time.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is a Clock backed by the time package.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// NewTicker wraps time.NewTicker.
func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// Settler is implemented by clocks that hold each firing until its reader
// has handled it. A Scheduler calls HoldFirings when it starts and Settle
// after every firing, once its tickers match the new phase.
type Settler interface {
	HoldFirings()
	Settle()
}

// ManualClock is a Clock whose time only moves on Advance.
// Ticks are delivered synchronously: Advance returns once every due tick has
// been received by its reader or its ticker has been stopped. After
// HoldFirings, each received tick must also be settled before Advance looks
// for the next one, so tickers created while handling a tick fire within the
// same Advance.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
	hold    bool
	settled chan struct{}
}

// NewManualClock returns a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, settled: make(chan struct{}, 1)}
}

// HoldFirings makes Advance wait for Settle after every delivered tick.
func (c *ManualClock) HoldFirings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hold = true
}

// Settle reports that the last delivered tick has been handled.
func (c *ManualClock) Settle() {
	select {
	case c.settled <- struct{}{}:
	default:
	}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker creates a ticker whose first tick is due one period from now.
func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTicker{
		clock:  c,
		period: d,
		next:   c.now.Add(d),
		c:      make(chan time.Time),
		done:   make(chan struct{}),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves time forward by d, firing due tickers in chronological order.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due *manualTicker
		for _, t := range c.tickers {
			if t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		fireAt := due.next
		c.now = fireAt
		due.next = fireAt.Add(due.period)
		hold := c.hold
		c.mu.Unlock()

		select {
		case due.c <- fireAt:
			if hold {
				<-c.settled
			}
		case <-due.done:
		}
	}
}

// Active returns how many tickers are running.
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

type manualTicker struct {
	clock    *ManualClock
	period   time.Duration
	next     time.Time
	c        chan time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)

		t.clock.mu.Lock()
		defer t.clock.mu.Unlock()
		for i, other := range t.clock.tickers {
			if other == t {
				t.clock.tickers = append(t.clock.tickers[:i], t.clock.tickers[i+1:]...)
				break
			}
		}
	})
}
