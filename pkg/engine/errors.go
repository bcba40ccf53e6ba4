// pkg/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every *InvalidInputError through errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a command argument the engine refused.
// The engine state is unchanged when it is returned.
type InvalidInputError struct {
	Field  string // "speed", "angle"
	Value  string // the offending value as given
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is lets callers test with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
