package wizard

import "errors"

var (
	ErrNoActiveForm        = errors.New("no form is mounted for the current step")
	ErrUnknownField        = errors.New("field is not part of the current step")
	ErrUnknownOption       = errors.New("shipping option is not part of the current quote")
	ErrIncompleteSession   = errors.New("session is missing committed step data")
	ErrPlacementNotAllowed = errors.New("order placement is not allowed in the current state")
)
