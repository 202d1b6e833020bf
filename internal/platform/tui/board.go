package tui

import (
	"fmt"

	"github.com/vovakirdan/monake/internal/core"
	"github.com/vovakirdan/monake/internal/games/monake"
)

// cellWidth is how many terminal columns one grid cell takes, so the board looks square.
const cellWidth = 2

// boardSize returns the screen size needed for a grid including its border.
func boardSize(gridSize int) (w, h int) {
	return gridSize*cellWidth + 2, gridSize + 2
}

// cellOrigin maps a grid position to its screen column and row.
func cellOrigin(p core.Position) (x, y int) {
	return 1 + p.X*cellWidth, 1 + p.Y
}

func headRune(d core.Direction) rune {
	switch d {
	case core.Up:
		return '^'
	case core.Down:
		return 'v'
	case core.Left:
		return '<'
	default:
		return '>'
	}
}

// DrawBoard renders a snapshot into s, which must be sized by boardSize.
func DrawBoard(s *core.Screen, snap monake.Snapshot) {
	s.Clear()
	s.DrawBox(0, 0, s.Width(), s.Height(), core.ColorGray)

	put := func(p core.Position, r rune, c core.Color) {
		x, y := cellOrigin(p)
		s.SetColored(x, y, r, c)
	}

	put(snap.Food.Position, '*', core.ColorRed)
	if snap.Super != nil {
		put(snap.Super.Position, '$', core.ColorBrightYellow)
	}

	// Tail first so the head is drawn on top.
	for i := len(snap.Snake) - 1; i > 0; i-- {
		put(snap.Snake[i], 'o', core.ColorGreen)
	}
	if len(snap.Snake) > 0 {
		if snap.Lifecycle.Phase == monake.PhaseGameOver {
			put(snap.Snake[0], 'x', core.ColorBrightRed)
		} else {
			put(snap.Snake[0], headRune(snap.Heading), core.ColorBrightGreen)
		}
	}

	mid := s.Height() / 2
	switch snap.Lifecycle.Phase {
	case monake.PhaseStarting:
		text := " GO! "
		if n := snap.Lifecycle.Countdown; n > 0 {
			text = fmt.Sprintf(" %d ", n)
		}
		s.DrawTextCentered(mid, text, core.ColorBrightYellow)

	case monake.PhaseGameOver:
		s.DrawTextCentered(mid-1, " GAME OVER ", core.ColorBrightRed)
		s.DrawTextCentered(mid+1, " "+causeText(snap.Cause)+" ", core.ColorWhite)
	}
}

func causeText(c monake.Cause) string {
	switch c {
	case monake.CauseWall:
		return "hit the wall"
	case monake.CauseSelf:
		return "bit itself"
	case monake.CauseBoardFull:
		return "filled the board"
	default:
		return "game ended"
	}
}
