package toolpath

import (
	"fmt"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

// finishFeed scales the feed rate of the finishing pass.
const finishFeed = 0.7

// ProfileCircle cuts a circle around the current position with a helix.
//
// Expects G91 with the spindle centered over the hole at the work surface.
// After a first turn for the remainder of depth/pitch, one turn per pitch and
// a flat turn to level the bottom, an optional finishing turn removes the
// roughing allowance. The spindle is returned to its starting point.
func ProfileCircle(opt CircleOptions) (gcode.Program, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	radius := opt.Radius()
	rough := radius - opt.Roughing

	var g gcode.Program
	g.Add(word('G', 17))
	rapidY(&g, -rough)

	for _, d := range passes(opt.Depth, opt.Pitch) {
		g.Add(helixBlock(opt.Direction, rough, d, opt.FeedRate)...)
	}
	g.Add(helixBlock(opt.Direction, rough, 0, opt.FeedRate)...)

	if opt.Roughing != 0 {
		rapidY(&g, -opt.Roughing)
		g.Add(helixBlock(opt.Direction, radius, 0, opt.FeedRate*finishFeed)...)
	}

	rapidZ(&g, opt.Depth)
	rapidY(&g, radius)
	return g, nil
}

// rapidY moves along Y only.
func rapidY(g *gcode.Program, y float64) {
	g.Add(word('G', 0), word('Y', y))
}

// ProfileCircleAt cuts a circle around center, given in work coordinates.
//
// Expects G90 with the work surface at Z0 and the spindle at Z=Clearance.
// Pass i bottoms out at remainder+i*pitch. It ends at clearance above
// center.
func ProfileCircleAt(center coord.Point, opt CircleOptions) (gcode.Program, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if err := positive("clearance", opt.Clearance); err != nil {
		return nil, err
	}
	if center.Dim() != 2 {
		return nil, fmt.Errorf("%w: center has %d coordinates, expected 2", coord.ErrDimensionMismatch, center.Dim())
	}

	cx, cy := center[0], center[1]
	radius := opt.Radius()
	rough := radius - opt.Roughing

	var g gcode.Program
	g.Add(word('G', 17))
	rapidXY(&g, cx, cy-rough)
	rapidZ(&g, 0)

	cuts := passes(opt.Depth, opt.Pitch)
	remainder := cuts[0]
	var z float64
	for i := range cuts {
		z = remainder + float64(i)*opt.Pitch
		g.Add(absArc(opt.Direction, cx, cy, rough, z, opt.FeedRate)...)
	}
	g.Add(absArc(opt.Direction, cx, cy, rough, z, opt.FeedRate)...)

	if opt.Roughing != 0 {
		rapidXY(&g, cx, cy-radius)
		g.Add(absArc(opt.Direction, cx, cy, radius, z, opt.FeedRate*finishFeed)...)
	}

	rapidZ(&g, opt.Clearance)
	rapidXY(&g, cx, cy)
	return g, nil
}

// absArc is a full circle of radius r around cx,cy ending at depth z,
// starting and ending below the center.
func absArc(dir Direction, cx, cy, r, z, feed float64) []gcode.Word {
	return []gcode.Word{
		word('G', dir.arcCode()),
		word('X', cx),
		word('Y', cy-r),
		word('Z', -z),
		word('I', 0),
		word('J', r),
		word('F', feed),
	}
}
