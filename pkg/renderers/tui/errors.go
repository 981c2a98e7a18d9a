package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoChoices is returned when a select field has no options to offer.
	ErrNoChoices = errors.New("tui: select field has no choices")
)
