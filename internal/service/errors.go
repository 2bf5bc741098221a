package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUser   = errors.New("user already known")
	ErrNotFound        = errors.New("not found")
	ErrSeatMismatch    = errors.New("seat does not match reservation")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrUserAlreadyReserved  = fmt.Errorf("%w: user already has a reservation", ErrDuplicateUser)
	ErrUserAlreadyWaiting   = fmt.Errorf("%w: user already in waiting list", ErrDuplicateUser)
	ErrReservationNotFound  = fmt.Errorf("%w: reservation", ErrNotFound)
	ErrNotWaiting           = fmt.Errorf("%w: waitlist entry", ErrNotFound)
	ErrInvalidSeatCount     = fmt.Errorf("%w: seat count must be positive", ErrInvalidArgument)
	ErrSeatCapacityExceeded = fmt.Errorf("%w: venue capacity exceeded", ErrInvalidSeatCount)
	ErrInvalidUserRange     = fmt.Errorf("%w: user range is inverted", ErrInvalidArgument)
	ErrAlreadyInitialized   = errors.New("seats already initialized")

	ErrInconsistentState = errors.New("seating state is inconsistent")

	ErrTokenEmpty               = errors.New("ticket token is empty")
	ErrTokenInvalid             = errors.New("ticket token is invalid")
	ErrTokenUnexpectedSignature = errors.New("unexpected ticket signing method")
	ErrTokenInvalidClaims       = errors.New("ticket token claims are invalid")
)
