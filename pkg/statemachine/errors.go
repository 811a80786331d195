package statemachine

import "errors"

var (
	// ErrInvalidTransition indicates the requested state change is not declared
	ErrInvalidTransition = errors.New("statemachine.invalid_transition")
)
