package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned by constructors given parameters that can never
	// describe a physical object (non-positive mass or radius, empty point sets, ...).
	ErrInvalidInput = errors.New("physics: invalid input")

	// ErrEmptyScene is returned when a BVH is requested over zero objects.
	ErrEmptyScene = fmt.Errorf("%w: empty scene", ErrInvalidInput)

	// ErrUnknownBody is returned for a BodyID that is not registered in the world.
	ErrUnknownBody = errors.New("physics: unknown body")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
