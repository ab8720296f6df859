package coord

import (
	"fmt"
	"math"
)

// Rotate returns p rotated about center.
//
// There must be exactly one angle per pair of consecutive axes: angles[i]
// turns the plane spanned by axes i and i+1, in radians, with a magnitude of
// at most 2π. Each pair is handled as a planar polar transform of the
// vector from center. The pairs are applied as a palindrome (outer pairs with
// half their angle on the way in and again on the way out) so that
// rotating by the negated angles undoes the rotation exactly.
//
// A pair with a zero angle is left untouched. A pair whose planar component
// has zero length has no defined angle and causes ErrSingularRotation.
func Rotate(p Point, angles []float64, center Point) (Point, error) {
	if err := checkDims(p, center); err != nil {
		return nil, err
	}
	if len(angles) != len(p)-1 {
		return nil, fmt.Errorf("%w: %d angles for %d-dimensional point", ErrDimensionMismatch, len(angles), len(p))
	}
	for _, a := range angles {
		if !(math.Abs(a) <= 2*math.Pi) {
			return nil, fmt.Errorf("%w: angle %g exceeds a full turn", ErrDomain, a)
		}
	}

	v, err := Sub(p, center)
	if err != nil {
		return nil, err
	}

	last := len(angles) - 1
	for i := 0; i < last; i++ {
		if err = turn(v, i, angles[i]/2); err != nil {
			return nil, err
		}
	}
	if err = turn(v, last, angles[last]); err != nil {
		return nil, err
	}
	for i := last - 1; i >= 0; i-- {
		if err = turn(v, i, angles[i]/2); err != nil {
			return nil, err
		}
	}

	return Translate(v, center)
}

// turn rotates the (i, i+1) component of v in place.
func turn(v Vector, i int, angle float64) error {
	if angle == 0 {
		return nil
	}
	x, y := v[i], v[i+1]
	r := math.Hypot(x, y)
	if r == 0 {
		return fmt.Errorf("%w: no angle for zero-length component on axes %d,%d", ErrSingularRotation, i, i+1)
	}

	// atan2 is atan(y/x) plus a half-turn when x is negative, and is
	// also defined on the y axis.
	a := math.Atan2(y, x) + angle
	v[i] = r * math.Cos(a)
	v[i+1] = r * math.Sin(a)
	return nil
}

// Rotate2D rotates a 2-dimensional point by angle radians about center.
func Rotate2D(p Point, angle float64, center Point) (Point, error) {
	if len(p) != 2 {
		return nil, fmt.Errorf("%w: Rotate2D on %d-dimensional point", ErrDimensionMismatch, len(p))
	}
	return Rotate(p, []float64{angle}, center)
}

// RotateAll rotates every point in pts about center.
func RotateAll(pts []Point, angles []float64, center Point) ([]Point, error) {
	if len(pts) == 0 {
		return nil, ErrEmptyInput
	}
	res := make([]Point, len(pts))
	for i, p := range pts {
		var err error
		res[i], err = Rotate(p, angles, center)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
