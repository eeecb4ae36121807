package domain

import "errors"

var (
	ErrNilInstrument       = errors.New("nil_instrument")
	ErrInvalidRoute        = errors.New("invalid_route")
	ErrUnknownRoute        = errors.New("unknown_route")
	ErrInvalidFare         = errors.New("invalid_fare")
	ErrInvalidServiceClass = errors.New("invalid_service_class")
)
