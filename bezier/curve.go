// Package bezier evaluates Bézier curves of any order in any number of
// dimensions using de Casteljau's algorithm.
package bezier

import (
	"fmt"
	"math"

	"github.com/mastercactapus/cncutils/coord"
)

// Curve is the control polygon of a Bézier curve. The order of the curve is
// one less than the number of control points.
type Curve []coord.Point

// Order returns the order of the curve.
func (c Curve) Order() int { return len(c) - 1 }

// Validate checks that c has at least one control point and that all
// control points share a dimension of at least 2.
func (c Curve) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: curve has no control points", coord.ErrEmptyInput)
	}
	dim := c[0].Dim()
	if dim < 2 {
		return fmt.Errorf("%w: control point has %d coordinates, need at least 2", coord.ErrDimensionMismatch, dim)
	}
	for i, p := range c[1:] {
		if p.Dim() != dim {
			return fmt.Errorf("%w: control point %d has %d coordinates, expected %d", coord.ErrDimensionMismatch, i+1, p.Dim(), dim)
		}
	}
	return nil
}

func checkT(t float64) error {
	if !(t >= 0 && t <= 1) {
		return fmt.Errorf("%w: t=%g not in [0,1]", coord.ErrDomain, t)
	}
	return nil
}

// reduce runs de Casteljau rounds until only n points remain. Every
// intermediate control polygon is passed to visit, when set.
func (c Curve) reduce(t float64, n int, visit func(Curve)) (Curve, error) {
	q := c
	for len(q) > n {
		next := make(Curve, len(q)-1)
		for i := range next {
			var err error
			next[i], err = coord.Interpolate(q[i], q[i+1], t)
			if err != nil {
				return nil, err
			}
		}
		q = next
		if visit != nil {
			visit(q)
		}
	}
	return q, nil
}

// At returns the point at t on the curve.
//
// A single control point is returned as-is for any t.
func (c Curve) At(t float64) (coord.Point, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := checkT(t); err != nil {
		return nil, err
	}
	q, err := c.reduce(t, 1, nil)
	if err != nil {
		return nil, err
	}
	return coord.Pt(q[0]...), nil
}

// Split divides the curve at t into two curves of the same order that
// together trace the whole curve.
func (c Curve) Split(t float64) (Curve, Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if err := checkT(t); err != nil {
		return nil, nil, err
	}

	left := Curve{coord.Pt(c[0]...)}
	right := Curve{coord.Pt(c[len(c)-1]...)}
	_, err := c.reduce(t, 1, func(q Curve) {
		left = append(left, q[0])
		right = append(right, q[len(q)-1])
	})
	if err != nil {
		return nil, nil, err
	}

	for i, j := 0, len(right)-1; i < j; i, j = i+1, j-1 {
		right[i], right[j] = right[j], right[i]
	}
	return left, right, nil
}

// Sample returns n+1 points along the curve: the points at t=i/n for i in
// [0,n) and finally the last control point itself, so the curve end is
// never subject to rounding.
func (c Curve) Sample(n int) ([]coord.Point, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative segment count %d", coord.ErrDomain, n)
	}

	res := make([]coord.Point, 0, n+1)
	for i := 0; i < n; i++ {
		p, err := c.At(float64(i) / float64(n))
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return append(res, coord.Pt(c[len(c)-1]...)), nil
}

// ApproxLength approximates the length of the curve by sampling it into as
// many straight segments as its order and summing their lengths.
func (c Curve) ApproxLength() (float64, error) {
	pts, err := c.Sample(c.Order())
	if err != nil {
		return 0, err
	}
	var l float64
	for i := 1; i < len(pts); i++ {
		d, err := coord.Distance(pts[i-1], pts[i])
		if err != nil {
			return 0, err
		}
		l += d
	}
	return l, nil
}

// Direction returns the heading of the curve at t as one angle per pair of
// consecutive axes (a single angle for a 2D curve).
//
// The tangent comes from stopping de Casteljau's recursion at two points.
// A single control point has no tangent and ok is false. A zero tangent
// component for an axis pair gives a heading of 0. Headings fall in
// [-π/2, 3π/2).
func (c Curve) Direction(t float64) (headings []float64, ok bool, err error) {
	if err = c.Validate(); err != nil {
		return nil, false, err
	}
	if err = checkT(t); err != nil {
		return nil, false, err
	}
	if len(c) == 1 {
		return nil, false, nil
	}

	q, err := c.reduce(t, 2, nil)
	if err != nil {
		return nil, false, err
	}
	d, err := coord.Sub(q[1], q[0])
	if err != nil {
		return nil, false, err
	}

	headings = make([]float64, len(d)-1)
	for i := range headings {
		headings[i] = heading(d[i+1], d[i])
	}
	return headings, true, nil
}

// heading is atan2 shifted into [-π/2, 3π/2), so a leftward tangent adds a
// half-turn to atan(dy/dx) instead of wrapping negative.
func heading(dy, dx float64) float64 {
	a := math.Atan2(dy, dx)
	if a < -math.Pi/2 {
		a += 2 * math.Pi
	}
	return a
}
