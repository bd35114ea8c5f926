package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrGaveUp is returned when the user declines to correct missing
	// required fields.
	ErrGaveUp = errors.New("tui: submission abandoned")
)
