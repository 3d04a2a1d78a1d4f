package observation

import (
	"errors"
	"fmt"
)

// ErrMalformedInput marks an observation with a required field missing,
// non-numeric, or otherwise unusable.
var ErrMalformedInput = errors.New("malformed input")

var (
	errMissing    = errors.New("missing")
	errNotNumeric = errors.New("not numeric")
	errNotFinite  = errors.New("not finite")
	errOutOfRange = errors.New("out of range")
	errBadTime    = errors.New("unparseable time")
	errDecreasing = errors.New("timestamp decreases")
)

// MalformedInputError names the series, record and field that failed.
type MalformedInputError struct {
	Series string
	Index  int
	Field  string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%v: series=%s record=%d field=%s: %v", ErrMalformedInput, e.Series, e.Index, e.Field, e.Err)
}

func (e *MalformedInputError) Unwrap() []error {
	return []error{ErrMalformedInput, e.Err}
}

func malformed(index int, field string, err error) *MalformedInputError {
	return &MalformedInputError{Index: index, Field: field, Err: err}
}

// WithSeries sets the series on a MalformedInputError, leaving other errors alone.
func WithSeries(err error, series string) error {
	var mie *MalformedInputError
	if errors.As(err, &mie) {
		mie.Series = series
	}
	return err
}
