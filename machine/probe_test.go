package machine

import (
	"errors"
	"strings"
	"testing"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/stretchr/testify/assert"
)

var testProbe = ProbeOptions{FeedRate: 50, MaxTravel: 5, Clearance: 2}

func TestProbeZ(t *testing.T) {
	p, err := ProbeZ(testProbe)
	assert.NoError(t, err)
	assert.Equal(t, "G90 G0 Z2\nG0 X0 Y0\nG38.2 Z-5 F50\nG0 Z2", p.String())

	_, err = ProbeZ(ProbeOptions{FeedRate: 50, MaxTravel: 5})
	assert.True(t, errors.Is(err, coord.ErrDomain))
}

func TestProbeGridOptions_GridPoints(t *testing.T) {
	opt := ProbeGridOptions{ProbeOptions: testProbe, DistanceX: 10, DistanceY: 10, Granularity: 10}
	pts := opt.GridPoints()

	exp := []coord.Point{
		{0, 0}, {5, 0}, {10, 0},
		{10, 5}, {5, 5}, {0, 5},
		{0, 10}, {5, 10}, {10, 10},
	}
	assert.Len(t, pts, len(exp))
	for i := range exp {
		assert.InDelta(t, exp[i][0], pts[i][0], 1e-9, "x of point %d", i)
		assert.InDelta(t, exp[i][1], pts[i][1], 1e-9, "y of point %d", i)
	}
}

func TestProbeGrid(t *testing.T) {
	opt := ProbeGridOptions{ProbeOptions: testProbe, DistanceX: 10, DistanceY: 10, Granularity: 10}
	p, err := ProbeGrid(opt)
	assert.NoError(t, err)

	lines := strings.Split(p.String(), "\n")
	assert.Equal(t, []string{
		"G90 G0 Z2",
		"(probe0)",
		"G0 X0 Y0",
		"G38.2 Z-5 F50",
		"G0 Z2",
		"(probe1)",
		"G0 X5 Y0",
	}, lines[:7])
	assert.Equal(t, "G0 X0 Y0", lines[len(lines)-1])
	assert.Equal(t, 9, strings.Count(p.String(), "G38.2"))

	opt.Granularity = 0
	_, err = ProbeGrid(opt)
	assert.True(t, errors.Is(err, coord.ErrDomain))
}

func TestSurface(t *testing.T) {
	pts := []coord.Point{{0, 0}, {10, 0}, {10, 10}}
	res := []ProbeResult{
		{XYZ: coord.XYZ{X: -100, Y: -100, Z: -20}, Valid: true},
		{XYZ: coord.XYZ{X: -90, Y: -100, Z: -19.5}, Valid: true},
		{XYZ: coord.XYZ{X: -90, Y: -90, Z: -21}, Valid: true},
	}

	s, err := Surface(pts, res)
	assert.NoError(t, err)
	assert.Equal(t, []coord.XYZ{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0.5},
		{X: 10, Y: 10, Z: -1},
	}, s)

	_, err = Surface(pts, res[:2])
	assert.True(t, errors.Is(err, coord.ErrDimensionMismatch))

	res[1].Valid = false
	_, err = Surface(pts, res)
	assert.True(t, errors.Is(err, ErrProbeFailed))
}
