package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoPage is returned when the page carries no view for its template.
	ErrNoPage = errors.New("tui: page has no view")
)
