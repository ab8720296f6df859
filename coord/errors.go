package coord

import "errors"

var (
	// ErrDimensionMismatch is returned when operands live in coordinate spaces
	// of different dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDomain is returned when a parameter is outside of its valid range.
	ErrDomain = errors.New("value out of range")

	// ErrSingularRotation is returned when a rotation would need the angle of
	// a zero-length vector.
	ErrSingularRotation = errors.New("singular rotation")

	// ErrEmptyInput is returned when at least one point is required.
	ErrEmptyInput = errors.New("empty input")
)
