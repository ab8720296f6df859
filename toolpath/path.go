package toolpath

import (
	"fmt"
	"math"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

func word(w byte, arg float64) gcode.Word { return gcode.Word{W: w, Arg: arg} }

// rapidXY appends a rapid move to x,y.
func rapidXY(p *gcode.Program, x, y float64) {
	p.Add(word('G', 0), word('X', x), word('Y', y))
}

func rapidZ(p *gcode.Program, z float64) {
	p.Add(word('G', 0), word('Z', z))
}

func feedZ(p *gcode.Program, z, feed float64) {
	p.Add(word('G', 1), word('Z', z), word('F', feed))
}

// passes splits depth into a first pass of depth mod pitch, which is
// shallower than pitch, followed by floor(depth/pitch) passes of pitch.
func passes(depth, pitch float64) []float64 {
	n := int(math.Floor(depth / pitch))
	res := make([]float64, 0, n+1)
	res = append(res, math.Mod(depth, pitch))
	for i := 0; i < n; i++ {
		res = append(res, pitch)
	}
	return res
}

// snap rounds pts to the precision numbers are written with, so that steps
// computed between them still add up to zero once formatted.
func snap(pts []coord.Point) []coord.Point {
	scale := math.Pow10(gcode.Precision)
	res := make([]coord.Point, len(pts))
	for i, p := range pts {
		res[i] = make(coord.Point, len(p))
		for j, v := range p {
			res[i][j] = math.Round(v*scale) / scale
		}
	}
	return res
}

// xyPoints converts pts to machine positions, requiring 2D points.
func xyPoints(pts []coord.Point) ([]coord.XYZ, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no points given", coord.ErrEmptyInput)
	}
	res := make([]coord.XYZ, len(pts))
	for i, p := range pts {
		if p.Dim() != 2 {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, expected 2", coord.ErrDimensionMismatch, i, p.Dim())
		}
		res[i] = coord.XYZ{X: p[0], Y: p[1]}
	}
	return res, nil
}

// LinearPath feeds through pts in order.
//
// It sets the feed rate, then moves to each point with G1. Points may be 2D
// or 3D; Z is only written for 3D points. The distance mode is left alone, so
// pts are positions under G90 and steps under G91.
func LinearPath(pts []coord.Point, feedRate float64) (gcode.Program, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no points given", coord.ErrEmptyInput)
	}
	if err := positive("feed rate", feedRate); err != nil {
		return nil, err
	}

	var g gcode.Program
	g.Add(word('F', feedRate))
	for _, pt := range pts {
		p, err := coord.XYZOf(pt)
		if err != nil {
			return nil, err
		}
		if pt.Dim() == 3 {
			g.Add(word('G', 1), word('X', p.X), word('Y', p.Y), word('Z', p.Z))
			continue
		}
		g.Add(word('G', 1), word('X', p.X), word('Y', p.Y))
	}
	return g, nil
}

func helixBlock(dir Direction, radius, depth, feedRate float64) []gcode.Word {
	return []gcode.Word{
		word('G', dir.arcCode()),
		word('X', 0),
		word('Y', 0),
		word('Z', -depth),
		word('I', 0),
		word('J', radius),
		word('F', feedRate),
	}
}

// Helix makes one full turn descending by depth.
//
// It expects G91 with incremental arc centers, and the tool radius below the
// center of the circle. It ends where it started, depth lower.
func Helix(radius, depth, feedRate float64, dir Direction) (gcode.Program, error) {
	err := firstErr(
		positive("radius", radius),
		positive("feed rate", feedRate),
		dir.validate(),
	)
	if err != nil {
		return nil, err
	}
	if !(depth >= 0) {
		return nil, fmt.Errorf("%w: helix depth must not be negative, got %g", coord.ErrDomain, depth)
	}

	var g gcode.Program
	g.Add(helixBlock(dir, radius, depth, feedRate)...)
	return g, nil
}
