// Package tui provides the interactive thread viewer for hnthread.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeStories Mode = iota // Feed story list
	ModeThread              // Comment tree of one thread
	ModeHelp                // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStories:
		return "stories"
	case ModeThread:
		return "thread"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}
