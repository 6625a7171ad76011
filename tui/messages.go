// ABOUTME: Bubble Tea message types used in the TUI message loop.
// ABOUTME: Carries file loads, export results, and watch ticks.
package tui

import (
	"time"
)

// SourceLoadedMsg carries the contents of the watched file.
type SourceLoadedMsg struct {
	Path    string
	Source  string
	ModTime time.Time
	Err     error

	// FromWatch is set when the watch loop produced the load.
	FromWatch bool
}

// ExportedMsg reports the files written by an export.
type ExportedMsg struct {
	Paths []string
	Err   error
}

// TickMsg is sent when a watch interval passes without the file changing.
type TickMsg struct {
	Time time.Time
}
