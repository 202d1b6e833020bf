// Package tui provides the Bubble Tea front end for Monake.
// The engine runs on its own scheduler goroutine; models only read its
// snapshots and post input back to it.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/monake/internal/games/monake"
)

// SnapshotMsg carries the engine state after a change.
type SnapshotMsg struct {
	Source   *monake.Scheduler
	Snapshot monake.Snapshot
}

// EngineStoppedMsg is sent once the scheduler has exited.
type EngineStoppedMsg struct {
	Source *monake.Scheduler
}

// waitForSnapshot blocks until the scheduler publishes a new snapshot or stops.
func waitForSnapshot(s *monake.Scheduler) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-s.Updates():
			return SnapshotMsg{Source: s, Snapshot: snap}
		case <-s.Done():
			select {
			case snap := <-s.Updates():
				return SnapshotMsg{Source: s, Snapshot: snap}
			default:
				return EngineStoppedMsg{Source: s}
			}
		}
	}
}
