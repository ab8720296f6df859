package toolpath

import (
	"fmt"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

// drillDown plunges from clearance to depth and back, in G91.
func drillDown(g *gcode.Program, opt DrillOptions) {
	rapidZ(g, -opt.Clearance)
	feedZ(g, -opt.Depth, opt.PlungeRate)
	feedZ(g, opt.Depth, opt.PlungeRate)
	rapidZ(g, opt.Clearance)
}

// Drill makes a single hole at the current position.
//
// Expects G91 with the spindle at clearance and leaves it there.
func Drill(opt DrillOptions) (gcode.Program, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	var g gcode.Program
	drillDown(&g, opt)
	return g, nil
}

// DrillPoints drills at every point, given relative to the current position.
//
// Expects G91 with the spindle at clearance. The points are visited in
// order as a closed loop, after which the spindle is returned to where it
// started.
func DrillPoints(pts []coord.Point, opt DrillOptions) (gcode.Program, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if _, err := xyPoints(pts); err != nil {
		return nil, err
	}
	pts = snap(pts)
	rels, err := coord.VectorsBetween(pts)
	if err != nil {
		return nil, err
	}
	start := pts[0]

	var g gcode.Program
	g.Comment("points_drill begin")
	rapidXY(&g, start[0], start[1])

	for i, v := range rels {
		g.Comment(fmt.Sprintf("drill%d", i))
		drillDown(&g, opt)
		rapidXY(&g, v[0], v[1])
	}

	rapidXY(&g, -start[0], -start[1])
	g.Comment("points_drill end")
	return g, nil
}

// DrillAbsolute drills at every point, given in work coordinates.
//
// Expects G90 with the work surface at Z0 and the spindle at Z=clearance. It
// ends at clearance above the last point.
func DrillAbsolute(pts []coord.Point, opt DrillOptions) (gcode.Program, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	xy, err := xyPoints(pts)
	if err != nil {
		return nil, err
	}

	var g gcode.Program
	g.Comment("points_drill begin")
	for i, p := range xy {
		g.Comment(fmt.Sprintf("drill%d", i))
		rapidXY(&g, p.X, p.Y)
		rapidZ(&g, 0)
		feedZ(&g, -opt.Depth, opt.PlungeRate)
		feedZ(&g, 0, opt.PlungeRate)
		rapidZ(&g, opt.Clearance)
	}
	g.Comment("points_drill end")
	return g, nil
}
