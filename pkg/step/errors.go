package step

import "errors"

var (
	// ErrEmptyHistory is returned by Undo when there is no step to undo.
	ErrEmptyHistory = errors.New("nothing to undo")

	// ErrInvalidInput is returned when a controller cannot be built from the
	// given input or strategy.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStepLimit is returned by RunToEnd when a stepper does not finish
	// within the allowed number of steps.
	ErrStepLimit = errors.New("step limit exceeded")
)
