package toolpath

import (
	"github.com/mastercactapus/cncutils/bezier"
	"github.com/mastercactapus/cncutils/gcode"
)

// CurvePath feeds along a Bézier curve approximated by segments straight
// lines. The control points are work coordinates, so it expects G90.
//
// A 2D curve is followed at the current height, a 3D curve sets Z too.
func CurvePath(c bezier.Curve, segments int, feedRate float64) (gcode.Program, error) {
	pts, err := c.Sample(segments)
	if err != nil {
		return nil, err
	}
	return LinearPath(pts, feedRate)
}
