package nbody

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidInput is the kind shared by every caller error below.
	ErrInvalidInput = errors.New("nbody: invalid input")

	// ErrInvalidMass indicates a non-positive or non-finite mass.
	ErrInvalidMass = fmt.Errorf("%w: mass must be positive and finite", ErrInvalidInput)

	// ErrBodyIndex indicates a body index outside the current body list.
	ErrBodyIndex = fmt.Errorf("%w: body index out of range", ErrInvalidInput)

	// ErrBodyCount indicates a negative count or a count that disagrees with the masses.
	ErrBodyCount = fmt.Errorf("%w: invalid body count", ErrInvalidInput)

	// ErrDuplicateID indicates two bodies sharing one identity.
	ErrDuplicateID = fmt.Errorf("%w: duplicate body id", ErrInvalidInput)

	// ErrInvalidParams indicates a non-positive G, dt or distance floor.
	ErrInvalidParams = fmt.Errorf("%w: invalid simulation parameters", ErrInvalidInput)

	// ErrInvalidState indicates a tick produced NaN or Inf positions.
	ErrInvalidState = errors.New("nbody: invalid state (NaN or Inf detected)")
)

// TickError wraps an error with the tick and body it was detected on.
type TickError struct {
	Tick    uint64
	Body    int
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (body %d): %v", e.Tick, e.Body, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
