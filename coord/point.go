package coord

import (
	"fmt"
	"math"
	"strings"
)

// Point is a location in N-dimensional space.
//
// Points are treated as immutable: no function in this package modifies
// its arguments, results are always freshly allocated.
type Point []float64

// Vector is a displacement between two points.
type Vector = Point

// Pt returns a new point with the given coordinates.
func Pt(c ...float64) Point {
	p := make(Point, len(c))
	copy(p, c)
	return p
}

// Dim returns the number of coordinates of p.
func (p Point) Dim() int { return len(p) }

func (p Point) Equal(b Point) bool {
	if len(p) != len(b) {
		return false
	}
	for i := range p {
		if p[i] != b[i] {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	s := make([]string, len(p))
	for i, v := range p {
		s[i] = fmt.Sprintf("%g", v)
	}
	return "(" + strings.Join(s, ", ") + ")"
}

func checkDim(p Point) error {
	if len(p) < 2 {
		return fmt.Errorf("%w: point has %d coordinates, need at least 2", ErrDimensionMismatch, len(p))
	}
	return nil
}

func checkDims(a, b Point) error {
	if err := checkDim(a); err != nil {
		return err
	}
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return nil
}

// Interpolate returns the point at t along the line from a to b.
//
// Both ends are exact: t=0 yields a and t=1 yields b.
func Interpolate(a, b Point, t float64) (Point, error) {
	if err := checkDims(a, b); err != nil {
		return nil, err
	}
	if !(t >= 0 && t <= 1) {
		return nil, fmt.Errorf("%w: t=%g not in [0,1]", ErrDomain, t)
	}

	res := make(Point, len(a))
	for i := range a {
		res[i] = a[i]*(1-t) + b[i]*t
	}
	return res, nil
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Translate returns p moved by shift.
func Translate(p Point, shift Vector) (Point, error) {
	if err := checkDims(p, shift); err != nil {
		return nil, err
	}
	res := make(Point, len(p))
	for i := range p {
		res[i] = p[i] + shift[i]
	}
	return res, nil
}

// TranslateAll moves every point in pts by shift.
func TranslateAll(pts []Point, shift Vector) ([]Point, error) {
	res := make([]Point, len(pts))
	for i, p := range pts {
		var err error
		res[i], err = Translate(p, shift)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Sub returns the vector from b to a.
func Sub(a, b Point) (Vector, error) {
	if err := checkDims(a, b); err != nil {
		return nil, err
	}
	res := make(Vector, len(a))
	for i := range a {
		res[i] = a[i] - b[i]
	}
	return res, nil
}

// VectorsBetween returns the steps needed to walk pts as a closed loop.
//
// Vector i leads from pts[i] to pts[i+1], the last one leads back to pts[0],
// so the result always sums to zero.
func VectorsBetween(pts []Point) ([]Vector, error) {
	if len(pts) == 0 {
		return nil, ErrEmptyInput
	}
	res := make([]Vector, len(pts))
	for i := range pts {
		var err error
		res[i], err = Sub(pts[(i+1)%len(pts)], pts[i])
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// A Mirror reflects a single axis about the plane Axis=At.
type Mirror struct {
	Axis int
	At   float64
}

// Reflect mirrors p across the given planes. Axes without a Mirror are
// left as-is.
func Reflect(p Point, mirrors ...Mirror) (Point, error) {
	if err := checkDim(p); err != nil {
		return nil, err
	}
	res := Pt(p...)
	seen := make([]bool, len(p))
	for _, m := range mirrors {
		if m.Axis < 0 || m.Axis >= len(p) {
			return nil, fmt.Errorf("%w: mirror axis %d on %d-dimensional point", ErrDimensionMismatch, m.Axis, len(p))
		}
		if seen[m.Axis] {
			return nil, fmt.Errorf("%w: axis %d mirrored twice", ErrDomain, m.Axis)
		}
		seen[m.Axis] = true
		res[m.Axis] = 2*m.At - p[m.Axis]
	}
	return res, nil
}
