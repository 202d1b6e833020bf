package monake

import "github.com/vovakirdan/monake/internal/core"

// DirectionQueue buffers steering intents between ticks so rapid key presses
// are not lost. One entry is consumed per tick.
type DirectionQueue struct {
	pending []core.Direction
}

// Enqueue appends requested unless it is not a unit vector or it reverses the
// effective heading: the last queued direction, or heading when the queue is
// empty. Returns whether the direction was accepted.
func (q *DirectionQueue) Enqueue(requested, heading core.Direction) bool {
	if !requested.IsUnit() {
		return false
	}

	effective := heading
	if n := len(q.pending); n > 0 {
		effective = q.pending[n-1]
	}
	if requested.IsReverseOf(effective) {
		return false
	}

	q.pending = append(q.pending, requested)
	return true
}

// Dequeue pops the oldest queued direction.
func (q *DirectionQueue) Dequeue() (core.Direction, bool) {
	if len(q.pending) == 0 {
		return core.Direction{}, false
	}
	d := q.pending[0]
	q.pending = q.pending[1:]
	return d, true
}

// Len returns the number of pending directions.
func (q *DirectionQueue) Len() int {
	return len(q.pending)
}

// Reset drops all pending directions.
func (q *DirectionQueue) Reset() {
	q.pending = nil
}
