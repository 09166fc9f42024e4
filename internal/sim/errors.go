package sim

import (
	"errors"
	"fmt"
)

// Domain errors for the run and render lifecycle.
var (
	// ErrUnimplemented indicates a simulator that never supplied Run.
	ErrUnimplemented = errors.New("sim: run is not implemented")

	// ErrNilResult indicates Run returned no matrix and no error.
	ErrNilResult = errors.New("sim: run returned a nil result")

	// ErrNoResult indicates Render found neither a cached nor an explicit result.
	ErrNoResult = errors.New("sim: no simulation result found, call the simulator or pass the result matrix")

	// ErrInvalidOption indicates a run option outside its valid range.
	ErrInvalidOption = errors.New("sim: invalid option")
)

// RunError wraps a failed run with the runner's invocation count.
type RunError struct {
	Run     int
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %d: %v", e.Run, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
