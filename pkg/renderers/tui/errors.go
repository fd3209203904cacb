package tui

import "errors"

var (
	// ErrAborted is returned when the user interrupts a prompt.
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned once a field exhausts WithMaxAttempts.
	ErrTooManyAttempts = errors.New("tui: too many invalid answers")
)
