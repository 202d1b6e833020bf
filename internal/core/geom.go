// Package core provides fundamental types and utilities shared by the game
// engine and the platform layer. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGridFull is returned when a position is requested on a grid with no free cell.
// It indicates a configuration problem (grid too small for the snake), not a player error.
var ErrGridFull = errors.New("core: no free cell left on grid")

// Rand is the subset of *math/rand.Rand the engine draws from.
// Injecting it keeps food placement and spawn rolls reproducible.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Position is a single cell coordinate on the grid.
type Position struct {
	X, Y int
}

// Add returns the position one step away in direction d.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// String returns "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a unit vector along one grid axis.
type Direction struct {
	X, Y int
}

// The four valid headings. Y grows downwards.
var (
	Right = Direction{X: 1, Y: 0}
	Left  = Direction{X: -1, Y: 0}
	Down  = Direction{X: 0, Y: 1}
	Up    = Direction{X: 0, Y: -1}
)

// IsUnit reports whether d is one of Right, Left, Down or Up.
func (d Direction) IsUnit() bool {
	return Abs(d.X)+Abs(d.Y) == 1
}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

// IsReverseOf reports whether d points exactly against other.
func (d Direction) IsReverseOf(other Direction) bool {
	return d.IsUnit() && d == other.Opposite()
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("(%d,%d)", d.X, d.Y)
	}
}

// ParseDirection parses "right", "left", "down" or "up" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right":
		return Right, nil
	case "left":
		return Left, nil
	case "down":
		return Down, nil
	case "up":
		return Up, nil
	}
	return Direction{}, fmt.Errorf("core: unknown direction %q", s)
}

// Grid is the square playing field. All coordinates lie in [0, Size).
type Grid struct {
	Size int
}

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// CellCount returns the number of cells on the grid.
func (g Grid) CellCount() int {
	return g.Size * g.Size
}

// maxSampleAttempts bounds rejection sampling before falling back to enumeration.
func (g Grid) maxSampleAttempts() int {
	return 4 * g.CellCount()
}

// RandomPosition returns a uniformly chosen cell for which occupied returns false.
// Rejection sampling is tried first; once it has failed maxSampleAttempts times
// the free cells are enumerated and one is picked directly, so the call always
// terminates. Returns ErrGridFull when every cell is occupied.
func (g Grid) RandomPosition(rng Rand, occupied func(Position) bool) (Position, error) {
	if g.Size <= 0 {
		return Position{}, ErrGridFull
	}
	if occupied == nil {
		occupied = func(Position) bool { return false }
	}

	for range g.maxSampleAttempts() {
		p := Position{X: rng.Intn(g.Size), Y: rng.Intn(g.Size)}
		if !occupied(p) {
			return p, nil
		}
	}

	free := g.FreeCells(occupied)
	if len(free) == 0 {
		return Position{}, ErrGridFull
	}
	return free[rng.Intn(len(free))], nil
}

// FreeCells lists every cell not reported as occupied, row by row.
func (g Grid) FreeCells(occupied func(Position) bool) []Position {
	var free []Position
	for y := range g.Size {
		for x := range g.Size {
			p := Position{X: x, Y: y}
			if !occupied(p) {
				free = append(free, p)
			}
		}
	}
	return free
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
