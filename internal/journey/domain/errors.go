package domain

import "errors"

var (
	ErrInvalidJourney       = errors.New("invalid_journey")
	ErrUnknownCard          = errors.New("unknown_card")
	ErrClockNotControllable = errors.New("clock_not_controllable")
)
