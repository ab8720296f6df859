package bezier

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mastercactapus/cncutils/coord"
	"github.com/stretchr/testify/assert"
)

var approx = cmp.Options{
	cmpopts.EquateApprox(0, 1e-9),
	cmp.Comparer(func(a, b coord.Point) bool {
		return cmp.Equal([]float64(a), []float64(b), cmpopts.EquateApprox(0, 1e-9))
	}),
}

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func TestCurve_At_SinglePoint(t *testing.T) {
	c := Curve{coord.Pt(3, -4, 5)}
	for _, tt := range []float64{0, 0.1, 0.5, 1} {
		p, err := c.At(tt)
		assert.NoError(t, err)
		assert.Equal(t, coord.Pt(3, -4, 5), p)
	}
}

func TestCurve_At_Linear(t *testing.T) {
	a, b := coord.Pt(1, 2), coord.Pt(-7, 11.5)
	c := Curve{a, b}
	for _, tt := range []float64{0, 0.2, 0.5, 0.75, 1} {
		p, err := c.At(tt)
		assert.NoError(t, err)
		want, err := coord.Interpolate(a, b, tt)
		assert.NoError(t, err)
		assert.Equal(t, want, p)
	}
}

func TestCurve_At_Quadratic(t *testing.T) {
	c := Curve{coord.Pt(0, 0), coord.Pt(1, 2), coord.Pt(2, 0)}

	p, err := c.At(0.5)
	assert.NoError(t, err)
	assert.Equal(t, coord.Pt(1, 1), p)

	p, err = c.At(1)
	assert.NoError(t, err)
	assert.Equal(t, coord.Pt(2, 0), p)
}

func TestCurve_At_Cubic3D(t *testing.T) {
	c := Curve{coord.Pt(0, 0, 0), coord.Pt(0, 1, 2), coord.Pt(1, 1, 2), coord.Pt(1, 0, 4)}

	// Bernstein form at t=0.5: (P0 + 3P1 + 3P2 + P3) / 8
	p, err := c.At(0.5)
	assert.NoError(t, err)
	diff(t, coord.Pt(0.5, 0.75, 2), p, approx)
}

func TestCurve_Errors(t *testing.T) {
	_, err := Curve{}.At(0.5)
	assert.ErrorIs(t, err, coord.ErrEmptyInput)

	_, err = Curve{coord.Pt(0, 0), coord.Pt(1, 1, 1)}.At(0.5)
	assert.ErrorIs(t, err, coord.ErrDimensionMismatch)

	_, err = Curve{coord.Pt(0)}.At(0.5)
	assert.ErrorIs(t, err, coord.ErrDimensionMismatch)

	_, err = Curve{coord.Pt(0, 0), coord.Pt(1, 1)}.At(-0.1)
	assert.ErrorIs(t, err, coord.ErrDomain)

	_, err = Curve{coord.Pt(0, 0)}.Sample(-1)
	assert.ErrorIs(t, err, coord.ErrDomain)
}

func TestCurve_Sample(t *testing.T) {
	c := Curve{coord.Pt(0.1, 0.7), coord.Pt(3.3, -1.9), coord.Pt(2.2, 9.1), coord.Pt(0.3, 0.3)}

	for _, n := range []int{0, 1, 3, 7, 100} {
		pts, err := c.Sample(n)
		assert.NoError(t, err)
		assert.Len(t, pts, n+1)
		assert.Equal(t, c[len(c)-1], pts[len(pts)-1])
	}

	pts, err := c.Sample(0)
	assert.NoError(t, err)
	assert.Equal(t, []coord.Point{coord.Pt(0.3, 0.3)}, pts)

	pts, err = Curve{coord.Pt(0, 0), coord.Pt(4, 8)}.Sample(4)
	assert.NoError(t, err)
	assert.Equal(t, []coord.Point{
		coord.Pt(0, 0), coord.Pt(1, 2), coord.Pt(2, 4), coord.Pt(3, 6), coord.Pt(4, 8),
	}, pts)
}

func TestCurve_ApproxLength(t *testing.T) {
	a, b := coord.Pt(1, 1, 1), coord.Pt(4, 5, 1)
	l, err := Curve{a, b}.ApproxLength()
	assert.NoError(t, err)
	d, _ := coord.Distance(a, b)
	assert.Equal(t, d, l)

	l, err = Curve{a}.ApproxLength()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, l)

	// quadratic sampled at t=0, 0.5 and the end: (0,0) (1,1) (2,0)
	l, err = Curve{coord.Pt(0, 0), coord.Pt(1, 2), coord.Pt(2, 0)}.ApproxLength()
	assert.NoError(t, err)
	assert.InDelta(t, 2*math.Sqrt2, l, 1e-12)
}

func TestCurve_Split(t *testing.T) {
	c := Curve{coord.Pt(0, 0), coord.Pt(1, 2), coord.Pt(3, 3), coord.Pt(4, 0)}

	left, right, err := c.Split(0.3)
	assert.NoError(t, err)
	assert.Len(t, left, 4)
	assert.Len(t, right, 4)
	assert.Equal(t, c[0], left[0])
	assert.Equal(t, c[3], right[3])
	diff(t, left[3], right[0], approx)

	mid, err := c.At(0.3)
	assert.NoError(t, err)
	diff(t, mid, left[3], approx)

	// halfway along the left half is t=0.15 on the whole curve
	want, err := c.At(0.15)
	assert.NoError(t, err)
	got, err := left.At(0.5)
	assert.NoError(t, err)
	diff(t, want, got, approx)

	want, err = c.At(0.65)
	assert.NoError(t, err)
	got, err = right.At(0.5)
	assert.NoError(t, err)
	diff(t, want, got, approx)
}

func TestCurve_Direction(t *testing.T) {
	_, ok, err := Curve{coord.Pt(1, 1)}.Direction(0.5)
	assert.NoError(t, err)
	assert.False(t, ok)

	h, ok, err := Curve{coord.Pt(0, 0), coord.Pt(1, 1)}.Direction(0.3)
	assert.NoError(t, err)
	assert.True(t, ok)
	diff(t, []float64{math.Pi / 4}, h, approx)

	// heading into the opposite quadrant
	h, ok, err = Curve{coord.Pt(0, 0), coord.Pt(-1, -1)}.Direction(0)
	assert.NoError(t, err)
	assert.True(t, ok)
	diff(t, []float64{5 * math.Pi / 4}, h, approx)

	h, ok, err = Curve{coord.Pt(0, 0), coord.Pt(-1, 1)}.Direction(0)
	assert.NoError(t, err)
	assert.True(t, ok)
	diff(t, []float64{3 * math.Pi / 4}, h, approx)

	h, ok, err = Curve{coord.Pt(0, 0), coord.Pt(0, -1)}.Direction(0)
	assert.NoError(t, err)
	assert.True(t, ok)
	diff(t, []float64{-math.Pi / 2}, h, approx)

	// top of a symmetric arch is level
	h, ok, err = Curve{coord.Pt(0, 0), coord.Pt(1, 2), coord.Pt(2, 0)}.Direction(0.5)
	assert.NoError(t, err)
	assert.True(t, ok)
	diff(t, []float64{0}, h, approx)

	h, ok, err = Curve{coord.Pt(0, 0, 0), coord.Pt(1, 0, 0)}.Direction(1)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float64{0, 0}, h)
}
