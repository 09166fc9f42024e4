package report

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownReport indicates a report name outside the built-in table.
	ErrUnknownReport = errors.New("report: unknown report option")

	// ErrEmptyResult indicates a report was built without a result matrix.
	ErrEmptyResult = errors.New("report: empty result")

	// ErrNilFactory indicates Custom was given a nil factory.
	ErrNilFactory = errors.New("report: nil report factory")

	// ErrNonFinite indicates a result holding NaN or Inf where a report needs
	// finite values.
	ErrNonFinite = errors.New("report: non-finite value in result")

	// ErrInvalidOption indicates a renderer option outside its valid range.
	ErrInvalidOption = errors.New("report: invalid option")
)

// UnknownReportError carries the selector string that failed to resolve.
type UnknownReportError struct {
	Name string
}

func (e *UnknownReportError) Error() string {
	return fmt.Sprintf("report: '%s' is not a known Report option", e.Name)
}

func (e *UnknownReportError) Unwrap() error {
	return ErrUnknownReport
}
