package machine

import (
	"fmt"
	"math"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

// ProbeGridOptions configure a grid-pattern z-probe operation.
type ProbeGridOptions struct {
	ProbeOptions `yaml:",inline"`

	DistanceX float64 `json:"distanceX" yaml:"distanceX"`
	DistanceY float64 `json:"distanceY" yaml:"distanceY"`

	// Granularity is the max distance between neighboring probe points.
	Granularity float64 `json:"granularity" yaml:"granularity"`
}

func (opt ProbeGridOptions) Validate() error {
	if err := opt.ProbeOptions.Validate(); err != nil {
		return err
	}
	if opt.DistanceX <= 0 || opt.DistanceY <= 0 {
		return fmt.Errorf("%w: grid distances must be positive", coord.ErrDomain)
	}
	if opt.Granularity <= 0 {
		return fmt.Errorf("%w: grid granularity must be positive", coord.ErrDomain)
	}
	return nil
}

// GridPoints returns the work XY of every probe in the order they are
// taken. Rows alternate direction so travel stays short.
func (opt ProbeGridOptions) GridPoints() []coord.Point {
	xyDist := math.Sqrt(opt.Granularity * opt.Granularity / 2)

	xCount := int(math.Ceil(opt.DistanceX / xyDist))
	yCount := int(math.Ceil(opt.DistanceY / xyDist))

	pts := make([]coord.Point, 0, (xCount+1)*(yCount+1))
	for y := 0; y <= yCount; y++ {
		for x := 0; x <= xCount; x++ {
			xVal := opt.DistanceX / float64(xCount) * float64(x)
			if y%2 != 0 {
				xVal = opt.DistanceX - xVal
			}
			pts = append(pts, coord.Pt(xVal, opt.DistanceY/float64(yCount)*float64(y)))
		}
	}
	return pts
}

// ProbeGrid returns a program probing every grid point, starting from the
// work origin. It leaves the machine in absolute mode back over the origin
// at clearance height.
func ProbeGrid(opt ProbeGridOptions) (gcode.Program, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	var p gcode.Program
	p.Add(gcode.Word{W: 'G', Arg: 90}, gcode.Word{W: 'G', Arg: 0}, gcode.Word{W: 'Z', Arg: opt.Clearance})
	for i, pt := range opt.GridPoints() {
		p.Comment(fmt.Sprintf("probe%d", i))
		p.Add(gcode.Word{W: 'G', Arg: 0}, gcode.Word{W: 'X', Arg: pt[0]}, gcode.Word{W: 'Y', Arg: pt[1]})
		opt.probeCommand(&p)
	}
	p.Add(gcode.Word{W: 'G', Arg: 0}, gcode.Word{W: 'X', Arg: 0}, gcode.Word{W: 'Y', Arg: 0})
	return p, nil
}
