package toolpath

import (
	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

// CherryMXPoints returns the outline of the tool center for a Cherry MX
// switch hole centered on the origin: a square with a notch on each side
// for the switch clips.
//
// The points are listed in cutting order and rotated by opt.Rotate.
func CherryMXPoints(opt CherryMXOptions) ([]coord.Point, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	innerX := opt.Width/2 - opt.EndMill/2
	outerX := innerX + opt.NotchDepth
	outerY := innerX
	innerY := opt.Width/2 - opt.NotchHeight + opt.EndMill/2

	// clockwise, starting at the top of the left notch
	pts := []coord.Point{
		coord.Pt(-innerX, +innerY),
		coord.Pt(-outerX, +innerY),
		coord.Pt(-outerX, +outerY),
		coord.Pt(+outerX, +outerY),
		coord.Pt(+outerX, +innerY),
		coord.Pt(+innerX, +innerY),
		coord.Pt(+innerX, -innerY),
		coord.Pt(+outerX, -innerY),
		coord.Pt(+outerX, -outerY),
		coord.Pt(-outerX, -outerY),
		coord.Pt(-outerX, -innerY),
		coord.Pt(-innerX, -innerY),
	}

	if opt.Direction == CounterClockwise {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	return coord.RotateAll(pts, []float64{opt.Rotate}, coord.Pt(0, 0))
}

// CherryMX cuts a Cherry MX switch hole centered on the current position.
//
// It selects millimeters and G91 itself, so it may follow any program that
// leaves the spindle at clearance. It ends at clearance in G91 where it
// started.
func CherryMX(opt CherryMXOptions) (gcode.Program, error) {
	pts, err := CherryMXPoints(opt)
	if err != nil {
		return nil, err
	}
	profile, err := ProfilePolygon(pts, opt.polygon())
	if err != nil {
		return nil, err
	}

	var g gcode.Program
	g.Add(word('G', 21))
	g.Add(word('G', 91))
	g.Append(profile)
	return g, nil
}

// Preamble selects the XY plane, millimeters and G91, then raises the
// spindle from the work surface to clearance.
func Preamble(clearance float64) (gcode.Program, error) {
	if err := positive("clearance", clearance); err != nil {
		return nil, err
	}
	var g gcode.Program
	g.Add(word('G', 17))
	g.Add(word('G', 21))
	g.Add(word('G', 91), word('G', 0), word('Z', clearance))
	return g, nil
}
