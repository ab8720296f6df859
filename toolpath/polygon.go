package toolpath

import (
	"fmt"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

// ProfilePolygon cuts along the closed polygon through pts, given relative
// to the current position.
//
// Expects G91 with the spindle at clearance. With AntiBacklash set every
// vertex is drilled first (see DrillPoints). The outline is then cut once per
// depth pass, the first pass taking the remainder of depth/pitch. The
// spindle is returned to where it started.
func ProfilePolygon(pts []coord.Point, opt PolygonOptions) (gcode.Program, error) {
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
	loop, err := LinearPath(rels, opt.FeedRate)
	if err != nil {
		return nil, err
	}

	var g gcode.Program
	if opt.AntiBacklash {
		drill, err := DrillPoints(pts, opt.drill())
		if err != nil {
			return nil, err
		}
		g.Append(drill)
	}

	start := pts[0]
	rapidXY(&g, start[0], start[1])
	rapidZ(&g, -opt.Clearance)

	for i, c := range passes(opt.Depth, opt.Pitch) {
		g.Comment(fmt.Sprintf("cut%d", i))
		feedZ(&g, -c, opt.PlungeRate)
		g.Append(loop)
	}

	rapidZ(&g, opt.Clearance+opt.Depth)
	rapidXY(&g, -start[0], -start[1])
	return g, nil
}
